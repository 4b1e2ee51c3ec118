package transit

import (
	"time"

	"github.com/rs/zerolog"
)

type feedPair struct {
	static   string
	realtime string
}

// Registry shares one Manager per (static URL, realtime URL) pair. Its lifetime is the
// scheduler's.
type Registry struct {
	defaults Config
	now      func() time.Time
	logger   zerolog.Logger
	managers map[feedPair]*Manager
}

// NewRegistry uses defaults for every field of Config except the URLs.
func NewRegistry(defaults Config, now func() time.Time, logger zerolog.Logger) *Registry {
	return &Registry{
		defaults: defaults,
		now:      now,
		logger:   logger,
		managers: map[feedPair]*Manager{},
	}
}

// Manager returns the shared Manager for the pair, creating it on first use.
func (r *Registry) Manager(staticURL, realtimeURL string) *Manager {
	key := feedPair{static: staticURL, realtime: realtimeURL}
	if m, ok := r.managers[key]; ok {
		return m
	}
	cfg := r.defaults
	cfg.StaticURL = staticURL
	cfg.RealtimeURL = realtimeURL
	m := NewManager(cfg, r.now, r.logger)
	r.managers[key] = m
	return m
}

func (r *Registry) Len() int { return len(r.managers) }
