package display

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	displayPath = "/display"
	clearPath   = "/clear"

	DefaultTimeout = 5 * time.Second
)

// HTTPClient posts frames to a matrix-portal server.
type HTTPClient struct {
	baseURL string
	width   int
	height  int
	http    *http.Client
	logger  zerolog.Logger
}

func NewHTTPClient(baseURL string, width, height int, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		width:   width,
		height:  height,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "matrix").Str("server", baseURL).Logger(),
	}
}

func (c *HTTPClient) Post(ctx context.Context, frame Frame) bool {
	if frame.Width != c.width || frame.Height != c.height {
		c.logger.Warn().Int("width", frame.Width).Int("height", frame.Height).
			Int("expected_width", c.width).Int("expected_height", c.height).Msg("frame size mismatch")
	}
	contentType := frame.ContentType
	if contentType == "" {
		contentType = ContentTypeBMP
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+displayPath, bytes.NewReader(frame.Body))
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to build display request")
		return false
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *HTTPClient) Clear(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+clearPath, nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to build clear request")
		return false
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) bool {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", req.URL.Path).Msg("matrix server unreachable")
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", req.URL.Path).Str("body", string(body)).
			Msg("matrix server rejected request")
		return false
	}
	return true
}
