package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/provider"
	"github.com/theoremus-urban-solutions/trixhub/transit"
)

// Feed defaults for bus sections that name no URLs.
const (
	DefaultGTFSStaticURL   = "https://www.rideprt.org/GTFS/google_transit.zip"
	DefaultGTFSRealtimeURL = "https://realtime.portauthority.org/bustime/gtfs-rt/tripupdates"
)

const (
	defaultMaxArrivals   = 4
	defaultWindowMinutes = 60

	transitCacheDuration     = 30 * time.Second
	transitSuggestedDuration = 30 * time.Second
	transitErrorMessage      = "Bus data unavailable"
)

// Transit shows the next arrivals at one stop, priority routes first. Sections sharing a feed
// pair share one Manager through the Registry.
type Transit struct {
	provider.Conditional
	name     string
	stopID   string
	priority []string
	max      int
	window   time.Duration
	cache    time.Duration
	manager  *transit.Manager
	now      func() time.Time
	logger   zerolog.Logger
}

// NewTransit builds a bus provider. stop_id is required.
func NewTransit(name string, cfg config.ProviderConfig, registry *transit.Registry, now func() time.Time, logger zerolog.Logger) (*Transit, error) {
	if cfg.StopID == "" {
		return nil, fmt.Errorf("%s: stop_id is required: %w", name, provider.ErrConfig)
	}
	if registry == nil {
		return nil, fmt.Errorf("%s: no transit registry: %w", name, provider.ErrConfig)
	}
	if now == nil {
		now = time.Now
	}
	staticURL := cfg.GTFSStaticURL
	if staticURL == "" {
		staticURL = DefaultGTFSStaticURL
	}
	realtimeURL := cfg.GTFSRealtimeURL
	if realtimeURL == "" {
		realtimeURL = DefaultGTFSRealtimeURL
	}
	maxArrivals := cfg.MaxArrivals
	if maxArrivals <= 0 {
		maxArrivals = defaultMaxArrivals
	}
	window := cfg.WindowMinutes
	if window <= 0 {
		window = defaultWindowMinutes
	}
	return &Transit{
		Conditional: provider.Conditional{Conditions: conditions.NewEvaluator(cfg.Conditions)},
		name:        name,
		stopID:      cfg.StopID,
		priority:    cfg.PriorityRoutes,
		max:         maxArrivals,
		window:      time.Duration(window) * time.Minute,
		cache:       secondsOr(cfg.CacheDuration, transitCacheDuration),
		manager:     registry.Manager(staticURL, realtimeURL),
		now:         now,
		logger:      logger.With().Str("component", "bus").Str("provider", name).Str("stop_id", cfg.StopID).Logger(),
	}, nil
}

func (t *Transit) Name() string                 { return t.name }
func (t *Transit) CacheDuration() time.Duration { return t.cache }
func (t *Transit) StopID() string               { return t.stopID }

// Arrivals returns the ranked, trimmed arrivals the display would show.
func (t *Transit) Arrivals(ctx context.Context) ([]transit.Arrival, error) {
	merged, err := t.manager.MergedArrivals(ctx, t.stopID, t.window)
	if err != nil {
		return nil, err
	}
	return transit.Rank(merged, t.priority, t.max), nil
}

// Fetch never returns an error; a missing schedule becomes ErrorContent.
func (t *Transit) Fetch(ctx context.Context) (*provider.DisplayData, error) {
	now := t.now()
	arrivals, err := t.Arrivals(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("bus arrivals unavailable")
		return provider.ErrorData(now, provider.TypeTransit, transitErrorMessage,
			fmt.Errorf("%w: %v", provider.ErrSource, err), transitSuggestedDuration), nil
	}

	hasRealtime := false
	for _, a := range arrivals {
		if a.Origin == transit.Realtime {
			hasRealtime = true
			break
		}
	}
	return &provider.DisplayData{
		Timestamp: now,
		Content: provider.TransitContent{
			StopID:      t.stopID,
			StopName:    t.manager.StopName(t.stopID),
			Arrivals:    arrivals,
			HasRealtime: hasRealtime,
		},
		Metadata: provider.Metadata{
			SuggestedDisplayDuration: transitSuggestedDuration,
			Priority:                 "normal",
		},
	}, nil
}
