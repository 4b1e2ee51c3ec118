package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
)

// Provider is the capability every display source implements.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (*DisplayData, error)
	// CacheDuration of zero disables caching.
	CacheDuration() time.Duration
	ShouldRun(now time.Time) bool
}

// Conditional implements ShouldRun for providers that embed it. A nil evaluator always runs.
type Conditional struct {
	Conditions *conditions.Evaluator
}

func (c Conditional) ShouldRun(now time.Time) bool {
	return c.Conditions.ShouldRun(now)
}

type cacheEntry struct {
	value     *DisplayData
	expiresAt time.Time
}

// Cached wraps a Provider with a single TTL cache entry.
//
// Not safe for concurrent use; the scheduler owns it from a single goroutine.
type Cached struct {
	provider Provider
	now      func() time.Time
	entry    *cacheEntry
}

// NewCached wraps p. A nil clock means time.Now.
func NewCached(p Provider, now func() time.Time) *Cached {
	if now == nil {
		now = time.Now
	}
	return &Cached{provider: p, now: now}
}

func (c *Cached) Name() string { return c.provider.Name() }

// Provider returns the wrapped provider.
func (c *Cached) Provider() Provider { return c.provider }

// ShouldRun is advisory; GetData does not enforce it.
func (c *Cached) ShouldRun(now time.Time) bool { return c.provider.ShouldRun(now) }

// GetData returns the live cached entry unless forceRefresh is set, otherwise fetches.
// Fetch errors are returned as-is and leave the previous entry untouched. Error-shaped
// payloads are returned but never cached so the next call retries the source.
func (c *Cached) GetData(ctx context.Context, forceRefresh bool) (*DisplayData, error) {
	now := c.now()
	if !forceRefresh && c.entry != nil && now.Before(c.entry.expiresAt) {
		return c.entry.value, nil
	}

	data, err := c.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%s returned no data: %w", c.provider.Name(), ErrSource)
	}

	if ttl := c.provider.CacheDuration(); ttl > 0 && !IsError(data) {
		c.entry = &cacheEntry{value: data, expiresAt: now.Add(ttl)}
	}
	return data, nil
}

// ClearCache drops the entry so the next GetData fetches.
func (c *Cached) ClearCache() {
	c.entry = nil
}

// Set holds the cached providers a scheduler rotates through, keyed by name.
type Set struct {
	byName map[string]*Cached
	order  []string
}

func NewSet() *Set {
	return &Set{byName: map[string]*Cached{}}
}

// Add wraps p and registers it under p.Name(), replacing any provider of the same name.
func (s *Set) Add(p Provider, now func() time.Time) *Cached {
	c := NewCached(p, now)
	name := p.Name()
	if _, exists := s.byName[name]; !exists {
		s.order = append(s.order, name)
	}
	s.byName[name] = c
	return c
}

func (s *Set) Get(name string) (*Cached, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Names returns provider names in registration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Len() int { return len(s.order) }

// ClearAll invalidates every provider's cache entry.
func (s *Set) ClearAll() {
	for _, c := range s.byName {
		c.ClearCache()
	}
}
