package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/display"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

const (
	sliceInterval   = time.Second
	failureBackoff  = 2 * time.Second
	idleInterval    = 5 * time.Second
	DefaultDuration = 30 * time.Second
)

// Scheduler is implemented by Rotation and Windowed.
type Scheduler interface {
	// Run blocks until Shutdown is called or ctx is done.
	Run(ctx context.Context) error
	// Shutdown is safe to call from another goroutine.
	Shutdown()
	Stats() Stats
}

// Deps are the collaborators shared by both modes. Zero Now, Sleep and DefaultDuration take
// time.Now, a context-aware timer and DefaultDuration.
type Deps struct {
	Providers       *provider.Set
	Renderer        display.Renderer
	Client          display.Client
	DefaultDuration time.Duration
	Now             func() time.Time
	Sleep           func(ctx context.Context, d time.Duration)
	Logger          zerolog.Logger
}

// Stats counts loop activity. Read it after Run returns.
type Stats struct {
	Cycles       int
	Displays     int
	Failures     int
	Skipped      int
	PostFailures int
}

var errPanic = errors.New("recovered panic")

type outcome int

const (
	shown outcome = iota
	failed
	skipped
)

type engine struct {
	deps    Deps
	stopped atomic.Bool
	stats   Stats
	runID   string
	logger  zerolog.Logger
}

func newEngine(deps Deps, mode string) *engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = sleepContext
	}
	if deps.DefaultDuration <= 0 {
		deps.DefaultDuration = DefaultDuration
	}
	if deps.Providers == nil {
		deps.Providers = provider.NewSet()
	}
	runID := uuid.NewString()
	return &engine{
		deps:   deps,
		runID:  runID,
		logger: deps.Logger.With().Str("component", "scheduler").Str("mode", mode).Str("run_id", runID).Logger(),
	}
}

func (e *engine) Shutdown() {
	if !e.stopped.Swap(true) {
		e.logger.Info().Msg("shutdown requested")
	}
}

func (e *engine) Stats() Stats { return e.stats }

func (e *engine) running(ctx context.Context) bool {
	return !e.stopped.Load() && ctx.Err() == nil
}

func (e *engine) exitErr(ctx context.Context) error {
	e.logger.Info().Int("cycles", e.stats.Cycles).Int("displays", e.stats.Displays).
		Int("failures", e.stats.Failures).Int("skipped", e.stats.Skipped).Msg("scheduler stopped")
	if e.stopped.Load() {
		return nil
	}
	return ctx.Err()
}

// hold waits d in slices, returning early on shutdown.
func (e *engine) hold(ctx context.Context, d time.Duration) {
	for d > 0 && e.running(ctx) {
		step := min(d, sliceInterval)
		e.deps.Sleep(ctx, step)
		d -= step
	}
}

// display shows one entry and holds it on screen.
func (e *engine) display(ctx context.Context, entry config.RotationEntry) outcome {
	logger := e.logger.With().Str("provider", entry.Name).Logger()

	cached, ok := e.deps.Providers.Get(entry.Name)
	if !ok {
		logger.Warn().Msg("provider not available, skipping")
		e.stats.Skipped++
		return skipped
	}
	if !cached.ShouldRun(e.deps.Now()) {
		logger.Debug().Msg("conditions not met, skipping")
		e.stats.Skipped++
		return skipped
	}

	data, frame, err := e.produce(ctx, cached)
	if err == nil {
		if !e.deps.Client.Post(ctx, frame) {
			logger.Warn().Msg("failed to post frame")
			e.stats.PostFailures++
		}
		d := e.duration(entry, data)
		logger.Debug().Dur("duration", d).Bool("error_content", provider.IsError(data)).Msg("displaying")
		e.stats.Displays++
		e.hold(ctx, d)
		return shown
	}

	if ctx.Err() != nil {
		return failed
	}
	logger.Error().Err(err).Msg("provider failed, skipping to next")
	e.stats.Failures++
	e.hold(ctx, failureBackoff)
	return failed
}

// produce fetches and renders one screen. A panic in the provider or renderer is returned
// as an error.
func (e *engine) produce(ctx context.Context, cached *provider.Cached) (data *provider.DisplayData, frame display.Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", errPanic, cached.Name(), r)
		}
	}()
	if data, err = cached.GetData(ctx, false); err != nil {
		return nil, display.Frame{}, err
	}
	frame, err = e.deps.Renderer.Render(data)
	return data, frame, err
}

// duration resolves entry override, then the provider's suggestion, then the default.
func (e *engine) duration(entry config.RotationEntry, data *provider.DisplayData) time.Duration {
	if entry.Duration > 0 {
		return time.Duration(entry.Duration) * time.Second
	}
	if data.Metadata.SuggestedDisplayDuration > 0 {
		return data.Metadata.SuggestedDisplayDuration
	}
	return e.deps.DefaultDuration
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
