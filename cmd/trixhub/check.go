package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/providers"
)

func newCheckConfigCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the configuration and list what would run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			out := cmd.OutOrStdout()

			_, warnings := providers.BuildSet(cfg, providers.RotationNames(cfg.Scheduler), providerDeps(cfg, logger))

			fmt.Fprintf(out, "mode: %s\n", cfg.Scheduler.Mode)
			fmt.Fprintf(out, "default duration: %ds\n", cfg.Scheduler.DefaultDisplayDuration)
			fmt.Fprintf(out, "display: %s (%dx%d)\n", cfg.Matrix.ServerHostname, cfg.Matrix.Width, cfg.Matrix.Height)

			if cfg.Scheduler.Mode == config.ModeTimeWindowedRotation {
				for _, w := range cfg.Scheduler.Rotations {
					fmt.Fprintf(out, "  %s: %s-%s -> %s%s\n", w.Name, w.TimeWindow.Start, w.TimeWindow.End,
						entryList(w.Providers, w.BlankScreen), describeConditions(w.Conditions))
				}
				fmt.Fprintf(out, "  fallback -> %s\n", entryList(cfg.Scheduler.FallbackEntries(), false))
			} else {
				fmt.Fprintf(out, "rotation: %s\n", entryList(cfg.Scheduler.ProviderRotation, false))
			}

			printWarnings(out, warnings)
			if len(warnings) == 0 {
				fmt.Fprintln(out, "ok")
			}
			return nil
		},
	}
}

func entryList(entries []config.RotationEntry, blank bool) string {
	if blank {
		return "(blank screen)"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Duration > 0 {
			parts = append(parts, fmt.Sprintf("%s (%ds)", e.Name, e.Duration))
			continue
		}
		parts = append(parts, e.Name)
	}
	return strings.Join(parts, ", ")
}

func describeConditions(set *conditions.ConditionSet) string {
	if set == nil || set.IsZero() {
		return ""
	}
	return " [conditions: " + set.Describe() + "]"
}
