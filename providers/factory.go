package providers

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/provider"
	"github.com/theoremus-urban-solutions/trixhub/transit"
)

// Kind is the provider family a configured name resolves to.
type Kind string

const (
	KindTime    Kind = "time"
	KindWeather Kind = "weather"
	KindBus     Kind = "bus"
	KindImage   Kind = "image"
)

// KindOf resolves a configured provider name. ok is false for unknown names.
func KindOf(name string) (Kind, bool) {
	switch {
	case name == "time":
		return KindTime, true
	case name == "weather" || strings.HasPrefix(name, "weather_"):
		return KindWeather, true
	case name == "bus" || strings.HasPrefix(name, "bus_"):
		return KindBus, true
	case name == "image" || strings.HasPrefix(name, "image_"):
		return KindImage, true
	}
	return "", false
}

// Deps are the shared collaborators handed to every provider.
type Deps struct {
	Registry *transit.Registry
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Build constructs the provider configured under name.
func Build(name string, cfg config.ProviderConfig, deps Deps) (provider.Provider, error) {
	kind, ok := KindOf(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q: %w", name, provider.ErrConfig)
	}
	switch kind {
	case KindTime:
		return NewTime(name, cfg, deps.Now)
	case KindWeather:
		return NewWeather(name, cfg, deps.Now, deps.Logger), nil
	case KindBus:
		return NewTransit(name, cfg, deps.Registry, deps.Now, deps.Logger)
	default:
		return NewImage(name, cfg, deps.Now, deps.Logger)
	}
}

// BuildSet builds every provider referenced by names, in first-seen order. Disabled and
// misconfigured providers are logged, reported in the returned warnings, and left out of the
// set; the rotation skips them.
func BuildSet(cfg *config.AppConfig, names []string, deps Deps) (*provider.Set, []error) {
	logger := deps.Logger.With().Str("component", "providers").Logger()
	set := provider.NewSet()
	seen := map[string]bool{}
	var warnings []error

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		section := cfg.Provider(name)
		if !section.IsEnabled() {
			logger.Warn().Str("provider", name).Msg("provider disabled, skipping")
			warnings = append(warnings, fmt.Errorf("provider %q is disabled", name))
			continue
		}
		p, err := Build(name, section, deps)
		if err != nil {
			logger.Warn().Err(err).Str("provider", name).Msg("failed to build provider, skipping")
			warnings = append(warnings, err)
			continue
		}
		set.Add(p, deps.Now)
		logger.Debug().Str("provider", name).Msg("provider ready")
	}
	return set, warnings
}

// RotationNames lists every provider name the scheduler section refers to: the flat rotation,
// each window, and the fallback.
func RotationNames(s config.SchedulerConfig) []string {
	var names []string
	add := func(entries []config.RotationEntry) {
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}
	if s.Mode == config.ModeTimeWindowedRotation {
		for _, w := range s.Rotations {
			add(w.Providers)
		}
		add(s.FallbackEntries())
		return names
	}
	add(s.ProviderRotation)
	return names
}
