package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

const (
	timeCacheDuration     = 30 * time.Second
	timeSuggestedDuration = 30 * time.Second
)

// Time shows the wall clock, optionally in a fixed IANA zone.
type Time struct {
	provider.Conditional
	name  string
	loc   *time.Location
	cache time.Duration
	now   func() time.Time
}

// NewTime builds the clock provider. An empty timezone uses the process local zone.
func NewTime(name string, cfg config.ProviderConfig, now func() time.Time) (*Time, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%s: timezone %q: %w", name, cfg.Timezone, provider.ErrConfig)
		}
		loc = l
	}
	if now == nil {
		now = time.Now
	}
	return &Time{
		Conditional: provider.Conditional{Conditions: conditions.NewEvaluator(cfg.Conditions)},
		name:        name,
		loc:         loc,
		cache:       secondsOr(cfg.CacheDuration, timeCacheDuration),
		now:         now,
	}, nil
}

func (t *Time) Name() string                 { return t.name }
func (t *Time) CacheDuration() time.Duration { return t.cache }

func (t *Time) Fetch(context.Context) (*provider.DisplayData, error) {
	now := t.now().In(t.loc)
	return &provider.DisplayData{
		Timestamp: now,
		Content:   provider.NewTimeContent(now),
		Metadata: provider.Metadata{
			SuggestedDisplayDuration: timeSuggestedDuration,
			Priority:                 "normal",
		},
	}, nil
}

func secondsOr(seconds int, def time.Duration) time.Duration {
	if seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}
