package scheduler

import (
	"context"

	"github.com/theoremus-urban-solutions/trixhub/config"
)

// Rotation cycles a flat list of entries.
type Rotation struct {
	*engine
	entries []config.RotationEntry
}

func NewRotation(entries []config.RotationEntry, deps Deps) *Rotation {
	return &Rotation{engine: newEngine(deps, config.ModeSimpleRotation), entries: entries}
}

func (r *Rotation) Run(ctx context.Context) error {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	r.logger.Info().Strs("rotation", names).Dur("default_duration", r.deps.DefaultDuration).Msg("starting rotation")

	for r.running(ctx) {
		r.stats.Cycles++
		attempted := 0
		for _, entry := range r.entries {
			if !r.running(ctx) {
				break
			}
			if r.display(ctx, entry) != skipped {
				attempted++
			}
		}
		// nothing eligible this cycle; do not spin
		if attempted == 0 {
			r.hold(ctx, idleInterval)
		}
	}
	return r.exitErr(ctx)
}
