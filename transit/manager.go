package transit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/fetch"
	"github.com/theoremus-urban-solutions/trixhub/gtfs"
	"github.com/theoremus-urban-solutions/trixhub/gtfsrt"
)

// Defaults for Config fields left zero.
const (
	DefaultCacheTTL      = 72 * time.Hour
	DefaultStaticTimeout = 60 * time.Second
	DefaultRTTimeout     = 10 * time.Second
)

// DefaultCacheDir is <tmp>/trixhub-gtfs.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "trixhub-gtfs")
}

// Config describes one feed pair and how its static schedule is cached.
type Config struct {
	StaticURL     string
	RealtimeURL   string
	CacheDir      string
	CacheTTL      time.Duration
	// StaticRetries is the number of retries after the first static download attempt.
	StaticRetries uint64
	StaticTimeout time.Duration
	RTTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir()
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.StaticTimeout <= 0 {
		c.StaticTimeout = DefaultStaticTimeout
	}
	if c.RTTimeout <= 0 {
		c.RTTimeout = DefaultRTTimeout
	}
	return c
}

// Manager answers arrival queries for one static/realtime feed pair.
type Manager struct {
	cfg      Config
	static   *fetch.Client
	realtime *gtfsrt.Client
	cache    *gtfs.DiskCache
	now      func() time.Time
	logger   zerolog.Logger

	schedule  *gtfs.Schedule
	expiresAt time.Time
}

// NewManager builds a Manager. Nothing is fetched until the first query. A nil clock means
// time.Now.
func NewManager(cfg Config, now func() time.Time, logger zerolog.Logger) *Manager {
	cfg = cfg.withDefaults()
	if now == nil {
		now = time.Now
	}
	logger = logger.With().Str("component", "transit").Str("static_url", cfg.StaticURL).Logger()
	return &Manager{
		cfg: cfg,
		static: fetch.New(fetch.Options{
			Name:       "gtfs-static",
			Timeout:    cfg.StaticTimeout,
			MaxRetries: cfg.StaticRetries,
		}, logger),
		realtime: gtfsrt.NewClient(cfg.RealtimeURL, fetch.New(fetch.Options{
			Name:    "gtfs-realtime",
			Timeout: cfg.RTTimeout,
		}, logger)),
		cache:  gtfs.NewDiskCache(cfg.CacheDir, cfg.StaticURL, cfg.RealtimeURL, cfg.CacheTTL, now, logger),
		now:    now,
		logger: logger,
	}
}

func (m *Manager) StaticURL() string   { return m.cfg.StaticURL }
func (m *Manager) RealtimeURL() string { return m.cfg.RealtimeURL }
func (m *Manager) HasRealtime() bool   { return m.cfg.RealtimeURL != "" }

// Schedule returns the in-memory schedule, refreshing it from the disk cache or the static
// feed once it has expired. If a refresh fails and a stale schedule is held, the stale one is
// returned and the refresh is retried on the next call.
func (m *Manager) Schedule(ctx context.Context) (*gtfs.Schedule, error) {
	now := m.now()
	if m.schedule != nil && now.Before(m.expiresAt) {
		return m.schedule, nil
	}

	if sched, expiry, ok := m.cache.Load(); ok {
		m.schedule, m.expiresAt = sched, expiry
		m.logger.Info().Time("expires", expiry).Msg("using cached static schedule")
		return sched, nil
	}

	sched, err := m.download(ctx)
	if err != nil {
		if m.schedule != nil {
			m.logger.Warn().Err(err).Msg("static schedule refresh failed, keeping stale copy")
			return m.schedule, nil
		}
		return nil, err
	}

	expiry, err := m.cache.Store(sched)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist static schedule, continuing in memory")
	}
	m.schedule, m.expiresAt = sched, expiry
	return sched, nil
}

func (m *Manager) download(ctx context.Context) (*gtfs.Schedule, error) {
	if m.cfg.StaticURL == "" {
		return nil, fmt.Errorf("transit: no static feed url configured")
	}
	m.logger.Info().Msg("downloading static schedule")
	data, err := m.static.Get(ctx, m.cfg.StaticURL)
	if err != nil {
		return nil, fmt.Errorf("transit: download static schedule: %w", err)
	}
	sched, err := gtfs.ParseZip(data)
	if err != nil {
		return nil, fmt.Errorf("transit: parse static schedule: %w", err)
	}
	m.logger.Info().Int("bytes", len(data)).Int("routes", len(sched.Routes)).Int("trips", len(sched.Trips)).
		Msg("loaded static schedule")
	return sched, nil
}

// StopName returns the stop's name from the loaded schedule, or "" before the first load.
func (m *Manager) StopName(stopID string) string {
	if m.schedule == nil {
		return ""
	}
	return m.schedule.StopName(stopID)
}

// ScheduledArrivals lists the static-schedule arrivals at stopID within window.
func (m *Manager) ScheduledArrivals(ctx context.Context, stopID string, window time.Duration) ([]Arrival, error) {
	sched, err := m.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	visits := sched.ScheduledVisits(stopID, m.now(), window)
	if len(visits) == 0 && sched.StopTimes[stopID] == nil {
		m.logger.Warn().Str("stop_id", stopID).Msg("no stop times for stop")
	}
	out := make([]Arrival, 0, len(visits))
	for _, v := range visits {
		out = append(out, Arrival{
			RouteShortName: v.RouteShortName,
			RouteID:        v.RouteID,
			TripID:         v.TripID,
			Direction:      v.Direction,
			Headsign:       v.Headsign,
			ArrivalTime:    v.Arrival,
			Origin:         Scheduled,
		})
	}
	return out, nil
}

// RealtimeArrivals fetches the realtime feed once and lists predictions at stopID. Fetch and
// decode failures are logged and yield an empty list.
func (m *Manager) RealtimeArrivals(ctx context.Context, stopID string) []Arrival {
	if !m.HasRealtime() {
		return nil
	}
	preds, err := m.realtime.StopArrivals(ctx, stopID)
	if err != nil {
		m.logger.Warn().Err(err).Str("stop_id", stopID).Msg("realtime feed unavailable")
		return nil
	}
	out := make([]Arrival, 0, len(preds))
	for _, p := range preds {
		out = append(out, Arrival{
			TripID:      p.TripID,
			RouteID:     p.RouteID,
			ArrivalTime: p.Arrival,
			Origin:      Realtime,
		})
	}
	return out
}

// MergedArrivals combines ScheduledArrivals and RealtimeArrivals with Merge. It fails only
// when no static schedule can be obtained.
func (m *Manager) MergedArrivals(ctx context.Context, stopID string, window time.Duration) ([]Arrival, error) {
	scheduled, err := m.ScheduledArrivals(ctx, stopID, window)
	if err != nil {
		return nil, err
	}
	realtime := m.RealtimeArrivals(ctx, stopID)
	merged := Merge(m.now(), window, scheduled, realtime, m.lookupTrip)
	m.logger.Debug().Str("stop_id", stopID).Int("scheduled", len(scheduled)).Int("realtime", len(realtime)).
		Int("merged", len(merged)).Msg("merged arrivals")
	return merged, nil
}

func (m *Manager) lookupTrip(tripID string) (gtfs.TripInfo, error) {
	if m.schedule == nil {
		return gtfs.TripInfo{}, ErrTripNotFound
	}
	info, ok := m.schedule.TripInfo(tripID)
	if !ok {
		m.logger.Debug().Str("trip_id", tripID).Msg("realtime trip not in static schedule")
		return gtfs.TripInfo{TripID: tripID}, nil
	}
	return info, nil
}
