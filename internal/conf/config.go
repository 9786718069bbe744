// Package conf loads and holds the application settings. Settings come
// from a YAML config file, environment variables prefixed CALMTRACK_, and
// built-in defaults, in that order of precedence.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LogSettings controls optional file logging.
type LogSettings struct {
	Enabled bool   // write structured log to a file instead of stdout
	Path    string // log file path
	Level   string // debug, info, warn, error
}

// UserSettings holds user profile and notification preferences. These
// travel with export snapshots.
type UserSettings struct {
	Name                      string
	StressAlertsEnabled       bool
	HydrationRemindersEnabled bool
}

// GoalSettings holds the daily targets the insights rules evaluate
// against.
type GoalSettings struct {
	WaterMl        int     // daily water goal in milliliters
	CaffeineMg     int     // daily caffeine watch threshold in milligrams
	Steps          int     // daily step goal
	SleepHours     float64 // restorative sleep threshold in hours
	MindfulMinutes float64 // high-impact mindfulness threshold in minutes
}

// ProviderSettings tunes access to the external health data provider.
type ProviderSettings struct {
	PollMinutes     int // scheduled refresh interval, 0 disables polling
	RatePerMinute   int // max provider queries per minute
	CacheTTLSeconds int // read-through cache TTL for provider queries
}

// StoreSettings selects the on-device persistent store.
type StoreSettings struct {
	SQLite struct {
		Path string // path to the SQLite database file
	}
}

// ExportSettings controls snapshot export.
type ExportSettings struct {
	Path string // directory export files are written to, temp dir if empty
}

// BridgeSettings controls the shared-state mirror for widget surfaces.
type BridgeSettings struct {
	Enabled bool
	Path    string // mirror file path
}

// InsightsSettings controls the insights window.
type InsightsSettings struct {
	WindowDays int // rolling window, typically 7, 14, or 30
}

// Settings is the root application configuration.
type Settings struct {
	Debug bool

	Log      LogSettings
	User     UserSettings
	Goals    GoalSettings
	Provider ProviderSettings
	Store    StoreSettings
	Export   ExportSettings
	Bridge   BridgeSettings
	Insights InsightsSettings
}

const configFileName = "config"

// Load reads settings from the config file and environment. A missing
// config file is not an error; defaults apply.
func Load() (*Settings, error) {
	setDefaults()

	viper.SetConfigName(configFileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "calmtrack"))
	}
	viper.SetEnvPrefix("CALMTRACK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	return settings, nil
}

func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("log.enabled", false)
	viper.SetDefault("log.path", "calmtrack.log")
	viper.SetDefault("log.level", "info")

	viper.SetDefault("user.name", "")
	viper.SetDefault("user.stressalertsenabled", true)
	viper.SetDefault("user.hydrationremindersenabled", true)

	viper.SetDefault("goals.waterml", 2000)
	viper.SetDefault("goals.caffeinemg", 400)
	viper.SetDefault("goals.steps", 8000)
	viper.SetDefault("goals.sleephours", 7.0)
	viper.SetDefault("goals.mindfulminutes", 5.0)

	viper.SetDefault("provider.pollminutes", 15)
	viper.SetDefault("provider.rateperminute", 60)
	viper.SetDefault("provider.cachettlseconds", 60)

	viper.SetDefault("store.sqlite.path", "calmtrack.db")

	viper.SetDefault("export.path", "")

	viper.SetDefault("bridge.enabled", true)
	viper.SetDefault("bridge.path", "calmtrack-widget.json")

	viper.SetDefault("insights.windowdays", 7)
}

// WriteDefault writes the current settings to the given path as YAML,
// creating parent directories as needed. Used to seed a first config
// file the user can edit.
func (s *Settings) WriteDefault(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ExportDir resolves the directory export snapshots are written to.
func (s *Settings) ExportDir() string {
	if s.Export.Path != "" {
		return s.Export.Path
	}
	return os.TempDir()
}
