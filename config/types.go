package config

import "github.com/theoremus-urban-solutions/trixhub/conditions"

// Scheduler modes.
const (
	ModeSimpleRotation       = "simple_rotation"
	ModeTimeWindowedRotation = "time_windowed_rotation"
)

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" toml:"format" mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// MatrixConfig describes the display server frames are posted to.
type MatrixConfig struct {
	ServerHostname string `yaml:"server_hostname" toml:"server_hostname" mapstructure:"server_hostname" validate:"required,url"`
	Width          int    `yaml:"width" toml:"width" mapstructure:"width" validate:"gt=0"`
	Height         int    `yaml:"height" toml:"height" mapstructure:"height" validate:"gt=0"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0"`
}

// GTFSConfig controls the static schedule download and its disk cache. It applies to every
// bus provider.
type GTFSConfig struct {
	CacheDir               string `yaml:"cache_dir" toml:"cache_dir" mapstructure:"cache_dir"`
	CacheTTLHours          int    `yaml:"cache_ttl_hours" toml:"cache_ttl_hours" mapstructure:"cache_ttl_hours" validate:"gte=0"`
	StaticRetries          int    `yaml:"static_retries" toml:"static_retries" mapstructure:"static_retries" validate:"gte=0"`
	StaticTimeoutSeconds   int    `yaml:"static_timeout_seconds" toml:"static_timeout_seconds" mapstructure:"static_timeout_seconds" validate:"gte=0"`
	RealtimeTimeoutSeconds int    `yaml:"realtime_timeout_seconds" toml:"realtime_timeout_seconds" mapstructure:"realtime_timeout_seconds" validate:"gte=0"`
}

// RotationEntry names a provider and optionally how long it stays on screen. Duration is in
// seconds; zero defers to the provider's suggestion and then the scheduler default.
type RotationEntry struct {
	Name     string `yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Duration int    `yaml:"duration" toml:"duration" mapstructure:"duration" validate:"gte=0"`
}

// TimeWindow is a daily HH:MM range. End before Start wraps past midnight.
type TimeWindow struct {
	Start string `yaml:"start" toml:"start" mapstructure:"start" validate:"required,clock"`
	End   string `yaml:"end" toml:"end" mapstructure:"end" validate:"required,clock"`
}

// RotationWindow is one time-windowed rotation.
type RotationWindow struct {
	Name        string                   `yaml:"name" toml:"name" mapstructure:"name"`
	TimeWindow  TimeWindow               `yaml:"time_window" toml:"time_window" mapstructure:"time_window"`
	Conditions  *conditions.ConditionSet `yaml:"conditions" toml:"conditions" mapstructure:"conditions"`
	BlankScreen bool                     `yaml:"blank_screen" toml:"blank_screen" mapstructure:"blank_screen"`
	Providers   []RotationEntry          `yaml:"providers" toml:"providers" mapstructure:"providers" validate:"dive"`
}

// FallbackRotation plays when no window is active.
type FallbackRotation struct {
	Providers []RotationEntry `yaml:"providers" toml:"providers" mapstructure:"providers" validate:"dive"`
}

// SchedulerConfig selects the rotation mode and its entries.
type SchedulerConfig struct {
	Mode                   string            `yaml:"mode" toml:"mode" mapstructure:"mode" validate:"oneof=simple_rotation time_windowed_rotation"`
	DefaultDisplayDuration int               `yaml:"default_display_duration" toml:"default_display_duration" mapstructure:"default_display_duration" validate:"gt=0"`
	ProviderRotation       []RotationEntry   `yaml:"provider_rotation" toml:"provider_rotation" mapstructure:"provider_rotation" validate:"dive"`
	Rotations              []RotationWindow  `yaml:"rotations" toml:"rotations" mapstructure:"rotations" validate:"dive"`
	FallbackRotation       *FallbackRotation `yaml:"fallback_rotation" toml:"fallback_rotation" mapstructure:"fallback_rotation"`
}

// Location is a named coordinate for weather lookups.
type Location struct {
	Latitude  *float64 `yaml:"latitude" toml:"latitude" mapstructure:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `yaml:"longitude" toml:"longitude" mapstructure:"longitude" validate:"omitempty,longitude"`
	Name      string   `yaml:"name" toml:"name" mapstructure:"name"`
}

// ProviderConfig is the union of every provider's settings. Fields a provider kind does not
// use are ignored.
type ProviderConfig struct {
	Enabled       *bool                   `yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	// CacheDuration in seconds; zero takes the provider default.
	CacheDuration int                     `yaml:"cache_duration" toml:"cache_duration" mapstructure:"cache_duration" validate:"gte=0"`
	Conditions    conditions.ConditionSet `yaml:"conditions" toml:"conditions" mapstructure:"conditions"`

	// time
	Timezone string `yaml:"timezone" toml:"timezone" mapstructure:"timezone"`

	// weather
	Location              Location `yaml:"location" toml:"location" mapstructure:"location"`
	Units                 string   `yaml:"units" toml:"units" mapstructure:"units" validate:"omitempty,oneof=fahrenheit celsius"`
	ForecastIntervalHours int      `yaml:"forecast_interval_hours" toml:"forecast_interval_hours" mapstructure:"forecast_interval_hours" validate:"gte=0"`
	APIURL                string   `yaml:"api_url" toml:"api_url" mapstructure:"api_url" validate:"omitempty,url"`

	// bus
	StopID          string   `yaml:"stop_id" toml:"stop_id" mapstructure:"stop_id"`
	PriorityRoutes  []string `yaml:"priority_routes" toml:"priority_routes" mapstructure:"priority_routes"`
	MaxArrivals     int      `yaml:"max_arrivals" toml:"max_arrivals" mapstructure:"max_arrivals" validate:"gte=0"`
	WindowMinutes   int      `yaml:"window_minutes" toml:"window_minutes" mapstructure:"window_minutes" validate:"gte=0"`
	GTFSStaticURL   string   `yaml:"gtfs_static_url" toml:"gtfs_static_url" mapstructure:"gtfs_static_url" validate:"omitempty,url"`
	GTFSRealtimeURL string   `yaml:"gtfs_realtime_url" toml:"gtfs_realtime_url" mapstructure:"gtfs_realtime_url" validate:"omitempty,url"`

	// image
	Directory string `yaml:"directory" toml:"directory" mapstructure:"directory"`
}

// IsEnabled treats a missing enabled key as true.
func (p ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Logging   LoggingConfig             `yaml:"logging" toml:"logging" mapstructure:"logging"`
	Matrix    MatrixConfig              `yaml:"matrix" toml:"matrix" mapstructure:"matrix"`
	GTFS      GTFSConfig                `yaml:"gtfs" toml:"gtfs" mapstructure:"gtfs"`
	Scheduler SchedulerConfig           `yaml:"scheduler" toml:"scheduler" mapstructure:"scheduler"`
	Providers map[string]ProviderConfig `yaml:"providers" toml:"providers" mapstructure:"providers" validate:"dive"`
}

// Provider returns the named section, or a zero (enabled) section when absent.
func (c *AppConfig) Provider(name string) ProviderConfig {
	return c.Providers[name]
}
