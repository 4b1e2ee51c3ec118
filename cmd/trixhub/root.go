package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/internal"
	"github.com/theoremus-urban-solutions/trixhub/providers"
	"github.com/theoremus-urban-solutions/trixhub/transit"
)

const defaultConfigFile = "config.yml"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIXHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "trixhub",
		Short: "LED matrix data hub",
		Long: `trixhub rotates data screens (clock, weather, bus arrivals, images) onto an
LED matrix display, following a flat rotation or time-of-day windows.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file (default is ./"+defaultConfigFile+" when present)")
	root.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json or console")
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(v))
	root.AddCommand(newCheckConfigCmd(v))
	root.AddCommand(newArrivalsCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves the config path from --config / TRIXHUB_CONFIG, falling back to
// ./config.yml when it exists and to built-in defaults otherwise.
func loadConfig(v *viper.Viper) (*config.AppConfig, error) {
	path := v.GetString("config")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level := v.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := v.GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	return cfg, nil
}

func newLogger(cfg *config.AppConfig) zerolog.Logger {
	return internal.InitLogging(cfg.Logging.Level, cfg.Logging.Format)
}

func transitDefaults(cfg config.GTFSConfig) transit.Config {
	return transit.Config{
		CacheDir:      cfg.CacheDir,
		CacheTTL:      time.Duration(cfg.CacheTTLHours) * time.Hour,
		StaticRetries: uint64(cfg.StaticRetries),
		StaticTimeout: time.Duration(cfg.StaticTimeoutSeconds) * time.Second,
		RTTimeout:     time.Duration(cfg.RealtimeTimeoutSeconds) * time.Second,
	}
}

func providerDeps(cfg *config.AppConfig, logger zerolog.Logger) providers.Deps {
	return providers.Deps{
		Registry: transit.NewRegistry(transitDefaults(cfg.GTFS), nil, logger),
		Now:      time.Now,
		Logger:   logger,
	}
}

func printWarnings(w io.Writer, warnings []error) {
	for _, err := range warnings {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}
