package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/utils"
)

const fallbackName = "fallback"

type window struct {
	name       string
	start, end int // minutes since midnight
	conditions *conditions.Evaluator
	blank      bool
	entries    []config.RotationEntry
}

// contains treats the window as [start, end), wrapping past midnight when start > end.
func (w *window) contains(minutes int) bool {
	if w.start <= w.end {
		return w.start <= minutes && minutes < w.end
	}
	return minutes >= w.start || minutes < w.end
}

// Windowed switches between rotations by time of day.
type Windowed struct {
	*engine
	windows  []*window
	fallback *window
}

// NewWindowed builds the windowed scheduler. Windows whose times do not parse are logged and
// dropped. An empty fallback becomes a single 30s time entry.
func NewWindowed(rotations []config.RotationWindow, fallback []config.RotationEntry, deps Deps) *Windowed {
	s := &Windowed{engine: newEngine(deps, config.ModeTimeWindowedRotation)}
	if len(fallback) == 0 {
		fallback = config.SchedulerConfig{}.FallbackEntries()
	}
	s.fallback = &window{name: fallbackName, entries: fallback}

	for i, r := range rotations {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rotation_%d", i)
		}
		start, err := utils.ParseClock(r.TimeWindow.Start)
		if err == nil {
			var end int
			if end, err = utils.ParseClock(r.TimeWindow.End); err == nil {
				w := &window{name: name, start: start, end: end, blank: r.BlankScreen, entries: r.Providers}
				if r.Conditions != nil {
					w.conditions = conditions.NewEvaluator(*r.Conditions)
				}
				s.windows = append(s.windows, w)
				continue
			}
		}
		s.logger.Warn().Err(err).Str("rotation", name).Msg("invalid time window, rotation ignored")
	}
	if len(s.windows) == 0 {
		s.logger.Warn().Msg("no rotations configured, using fallback rotation only")
	}
	return s
}

// Active returns the name of the rotation that applies at now.
func (s *Windowed) Active(now time.Time) string {
	return s.active(now).name
}

func (s *Windowed) active(now time.Time) *window {
	minutes := utils.MinutesSinceMidnight(now)
	for _, w := range s.windows {
		if w.contains(minutes) && w.conditions.ShouldRun(now) {
			return w
		}
	}
	return s.fallback
}

func (s *Windowed) switched(current *window) bool {
	return s.active(s.deps.Now()) != current
}

func (s *Windowed) Run(ctx context.Context) error {
	for _, w := range s.windows {
		ev := s.logger.Info().Str("rotation", w.name).
			Str("window", fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/60, w.start%60, w.end/60, w.end%60)).
			Bool("blank", w.blank)
		if w.conditions != nil {
			ev = ev.Str("conditions", w.conditions.Set.Describe())
		}
		ev.Msg("time window")
	}

	var last *window
	for s.running(ctx) {
		s.stats.Cycles++
		current := s.active(s.deps.Now())
		if current != last {
			s.logger.Info().Str("rotation", current.name).Msg("active rotation")
			last = current
		}

		if current.blank {
			s.blank(ctx, current)
			continue
		}
		s.cycle(ctx, current)
	}
	return s.exitErr(ctx)
}

// blank clears once, then idles until another window takes over.
func (s *Windowed) blank(ctx context.Context, current *window) {
	if !s.deps.Client.Clear(ctx) {
		s.logger.Warn().Str("rotation", current.name).Msg("failed to clear display")
	}
	for s.running(ctx) && !s.switched(current) {
		s.hold(ctx, idleInterval)
	}
}

// cycle walks the window's entries once, abandoning them when the active window changes.
func (s *Windowed) cycle(ctx context.Context, current *window) {
	attempted := 0
	for _, entry := range current.entries {
		if !s.running(ctx) || s.switched(current) {
			return
		}
		if s.display(ctx, entry) != skipped {
			attempted++
		}
	}
	if attempted == 0 {
		if len(current.entries) == 0 {
			s.logger.Warn().Str("rotation", current.name).Msg("rotation has no providers")
		}
		s.hold(ctx, idleInterval)
	}
}
