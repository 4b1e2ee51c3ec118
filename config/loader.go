package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/trixhub/utils"
)

// ErrInvalid wraps every validation failure returned by Load and Validate.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRIXHUB_"

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Matrix: MatrixConfig{
			ServerHostname: "http://trix-server.local",
			Width:          64,
			Height:         32,
			TimeoutSeconds: 5,
		},
		GTFS: GTFSConfig{
			CacheTTLHours:          72,
			StaticRetries:          3,
			StaticTimeoutSeconds:   60,
			RealtimeTimeoutSeconds: 10,
		},
		Scheduler: SchedulerConfig{
			Mode:                   ModeSimpleRotation,
			DefaultDisplayDuration: 30,
			ProviderRotation:       []RotationEntry{{Name: "time"}},
		},
		Providers: map[string]ProviderConfig{
			"time": {},
		},
	}
}

// Load builds the configuration with priority: defaults -> file -> environment. A .env file
// in the working directory, if present, is loaded into the environment first. An empty path
// skips the file layer.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode picks the format by extension. JSON is parsed as YAML.
func decode(path string, data []byte, cfg *AppConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	case ".yml", ".yaml", ".json", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// applyEnvOverrides applies TRIXHUB_* environment variable overrides to config.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvPrefix + "MATRIX_SERVER_HOSTNAME"); v != "" {
		cfg.Matrix.ServerHostname = v
	}
	if v := os.Getenv(EnvPrefix + "SCHEDULER_MODE"); v != "" {
		cfg.Scheduler.Mode = v
	}
	if v := os.Getenv(EnvPrefix + "DEFAULT_DISPLAY_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scheduler.DefaultDisplayDuration = n
		}
	}
	if v := os.Getenv(EnvPrefix + "GTFS_CACHE_DIR"); v != "" {
		cfg.GTFS.CacheDir = v
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks struct tags and the rules tags cannot express.
func Validate(cfg *AppConfig) error {
	if err := newValidator().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	switch cfg.Scheduler.Mode {
	case ModeSimpleRotation:
		if len(cfg.Scheduler.ProviderRotation) == 0 {
			return fmt.Errorf("%w: scheduler.provider_rotation is empty", ErrInvalid)
		}
	case ModeTimeWindowedRotation:
		for i, w := range cfg.Scheduler.Rotations {
			if !w.BlankScreen && len(w.Providers) == 0 {
				return fmt.Errorf("%w: scheduler.rotations[%d] (%s) has no providers and is not blank", ErrInvalid, i, w.Name)
			}
		}
	}

	return nil
}

// FallbackEntries returns the configured fallback rotation, or a single 30s time entry.
func (s SchedulerConfig) FallbackEntries() []RotationEntry {
	if s.FallbackRotation == nil || len(s.FallbackRotation.Providers) == 0 {
		return []RotationEntry{{Name: "time", Duration: 30}}
	}
	return s.FallbackRotation.Providers
}
