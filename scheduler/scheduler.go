package scheduler

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/trixhub/config"
)

// New picks the scheduler for cfg.Mode.
func New(cfg config.SchedulerConfig, deps Deps) (Scheduler, error) {
	if deps.DefaultDuration <= 0 && cfg.DefaultDisplayDuration > 0 {
		deps.DefaultDuration = time.Duration(cfg.DefaultDisplayDuration) * time.Second
	}
	switch cfg.Mode {
	case config.ModeSimpleRotation, "":
		return NewRotation(cfg.ProviderRotation, deps), nil
	case config.ModeTimeWindowedRotation:
		return NewWindowed(cfg.Rotations, cfg.FallbackEntries(), deps), nil
	default:
		return nil, fmt.Errorf("unknown scheduler mode %q", cfg.Mode)
	}
}
