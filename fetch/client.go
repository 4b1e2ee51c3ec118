// Package fetch performs HTTP GETs against upstream feeds with a circuit breaker and
// exponential backoff between attempts.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

var (
	// ErrStatus wraps any non-2xx response.
	ErrStatus = errors.New("unexpected status code")
	// ErrCircuitOpen is returned without contacting the upstream while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Options configures a Client. Zero values take the defaults below.
type Options struct {
	Name            string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	UserAgent       string
}

const (
	defaultTimeout         = 10 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
	defaultUserAgent       = "trixhub"
)

// Client is safe for use by one scheduler goroutine; the breaker itself is goroutine-safe.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	opts    Options
	logger  zerolog.Logger
}

// New builds a Client with its own circuit breaker.
func New(opts Options, logger zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = defaultMaxInterval
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Name == "" {
		opts.Name = "fetch"
	}

	c := &Client{
		http:   &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: logger.With().Str("component", "fetch").Str("client", opts.Name).Logger(),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c
}

// Get fetches url and returns the whole body. Server errors, rate limiting and transport
// failures are retried up to MaxRetries times; other 4xx responses are not.
//
// Anything that is not an http(s) URL is read as a local file, with an optional file://
// prefix, bypassing the breaker and retries.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("fetch: empty url")
	}
	if path, ok := localPath(url); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		return data, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.InitialInterval
	policy.MaxInterval = c.opts.MaxInterval
	policy.MaxElapsedTime = 0

	operation := func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, backoff.Permanent(err)
		}
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, url)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrCircuitOpen, err))
			}
			var se *statusError
			if errors.As(err, &se) && !se.retryable() {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return result.([]byte), nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Str("url", url).Dur("wait", wait).Msg("retrying fetch")
	}

	body, err := backoff.RetryNotifyWithData(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, c.opts.MaxRetries), ctx), notify)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return body, nil
}

func localPath(url string) (string, bool) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return "", false
	}
	return strings.TrimPrefix(url, "file://"), true
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("HTTP %d", e.code) }

func (e *statusError) Unwrap() error { return ErrStatus }

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// StatusCode extracts the HTTP status from an error returned by Get, or 0.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}
