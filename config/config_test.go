package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/trixhub/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.ModeSimpleRotation, cfg.Scheduler.Mode)
	assert.Equal(t, 30, cfg.Scheduler.DefaultDisplayDuration)
	assert.Equal(t, "http://trix-server.local", cfg.Matrix.ServerHostname)
	assert.Equal(t, 64, cfg.Matrix.Width)
	assert.Equal(t, 32, cfg.Matrix.Height)
	assert.Equal(t, []config.RotationEntry{{Name: "time"}}, cfg.Scheduler.ProviderRotation)
}

func TestLoad_YAMLWindowed(t *testing.T) {
	cfg, err := config.Load("testdata/windowed.yml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.ModeTimeWindowedRotation, cfg.Scheduler.Mode)
	require.Len(t, cfg.Scheduler.Rotations, 2)

	night := cfg.Scheduler.Rotations[0]
	assert.True(t, night.BlankScreen)
	assert.Equal(t, "21:00", night.TimeWindow.Start)
	assert.Nil(t, night.Conditions)

	morning := cfg.Scheduler.Rotations[1]
	require.NotNil(t, morning.Conditions)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, morning.Conditions.DayOfWeek)
	assert.Equal(t, config.RotationEntry{Name: "bus_61c", Duration: 45}, morning.Providers[0])

	assert.Equal(t, []config.RotationEntry{{Name: "weather"}}, cfg.Scheduler.FallbackEntries())

	weather := cfg.Provider("weather")
	require.NotNil(t, weather.Location.Latitude)
	assert.InDelta(t, 40.44, *weather.Location.Latitude, 1e-9)
	assert.Equal(t, "celsius", weather.Units)
	assert.True(t, weather.IsEnabled())

	bus := cfg.Provider("bus_61c")
	assert.Equal(t, "8161", bus.StopID)
	assert.Equal(t, []string{"61C", "61D"}, bus.PriorityRoutes)

	img := cfg.Provider("image_holiday")
	assert.False(t, img.IsEnabled())
	assert.Equal(t, []string{"12-20", "01-05"}, img.Conditions.DateRange)
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := config.Load("testdata/simple.toml")
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Scheduler.DefaultDisplayDuration)
	assert.Equal(t, []config.RotationEntry{{Name: "time", Duration: 10}, {Name: "weather"}}, cfg.Scheduler.ProviderRotation)
	assert.Equal(t, 300, cfg.Provider("weather").CacheDuration)
	assert.Equal(t, "Home", cfg.Provider("weather").Location.Name)
}

func TestLoad_JSONLayout(t *testing.T) {
	cfg, err := config.Load("testdata/pittsburgh.json")
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.Provider("time").Timezone)
	assert.Equal(t, "Pittsburgh, PA", cfg.Provider("weather").Location.Name)
	assert.Len(t, cfg.Scheduler.ProviderRotation, 2)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRIXHUB_LOG_LEVEL", "warn")
	t.Setenv("TRIXHUB_MATRIX_SERVER_HOSTNAME", "http://10.0.0.5")
	t.Setenv("TRIXHUB_DEFAULT_DISPLAY_DURATION", "12")

	cfg, err := config.Load("testdata/simple.toml")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "http://10.0.0.5", cfg.Matrix.ServerHostname)
	assert.Equal(t, 12, cfg.Scheduler.DefaultDisplayDuration)
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown mode",
			body: "scheduler:\n  mode: random_order\n",
		},
		{
			name: "bad window time",
			body: "scheduler:\n  mode: time_windowed_rotation\n  rotations:\n    - name: x\n      time_window: {start: \"25:00\", end: \"06:00\"}\n      blank_screen: true\n",
		},
		{
			name: "window without providers",
			body: "scheduler:\n  mode: time_windowed_rotation\n  rotations:\n    - name: x\n      time_window: {start: \"08:00\", end: \"09:00\"}\n",
		},
		{
			name: "empty rotation",
			body: "scheduler:\n  provider_rotation: []\n",
		},
		{
			name: "bad units",
			body: "providers:\n  weather:\n    units: kelvin\n",
		},
		{
			name: "zero default duration",
			body: "scheduler:\n  default_display_duration: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, "config.yml", tt.body))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config extension")

	_, err = config.Load(writeConfig(t, "config.yml", "scheduler: [oops"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}

func TestFallbackEntries_Default(t *testing.T) {
	var s config.SchedulerConfig
	assert.Equal(t, []config.RotationEntry{{Name: "time", Duration: 30}}, s.FallbackEntries())
}
