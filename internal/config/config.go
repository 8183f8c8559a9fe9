// Package config loads application settings from a YAML file. A missing
// file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// TimerConfig holds pomodoro phase lengths. All durations are in minutes.
type TimerConfig struct {
	WorkMinutes            int `mapstructure:"work_minutes" yaml:"work_minutes"`
	ShortBreakMinutes      int `mapstructure:"short_break_minutes" yaml:"short_break_minutes"`
	LongBreakMinutes       int `mapstructure:"long_break_minutes" yaml:"long_break_minutes"`
	SessionsUntilLongBreak int `mapstructure:"sessions_until_long_break" yaml:"sessions_until_long_break"`
}

// SyncConfig controls the optional remote mirror.
type SyncConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// LogConfig controls the JSON log file.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DatabasePath string      `mapstructure:"database_path" yaml:"database_path"`
	Timer        TimerConfig `mapstructure:"timer" yaml:"timer"`
	Sync         SyncConfig  `mapstructure:"sync" yaml:"sync"`
	Log          LogConfig   `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/studyd/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "studyd", "config.yaml")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DatabasePath: defaultDatabasePath(),
		Timer: TimerConfig{
			WorkMinutes:            25,
			ShortBreakMinutes:      5,
			LongBreakMinutes:       15,
			SessionsUntilLongBreak: 4,
		},
		Sync: SyncConfig{},
		Log:  LogConfig{Path: defaultLogPath()},
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "studyd.db")
	}
	return filepath.Join(home, ".local", "share", "studyd", "studyd.db")
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "studyd.log")
	}
	return filepath.Join(home, ".local", "share", "studyd", "studyd.log")
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("database_path", defaultDatabasePath())
	v.SetDefault("timer.work_minutes", 25)
	v.SetDefault("timer.short_break_minutes", 5)
	v.SetDefault("timer.long_break_minutes", 15)
	v.SetDefault("timer.sessions_until_long_break", 4)
	v.SetDefault("sync.enabled", false)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.path", defaultLogPath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Zero or negative phase lengths would stall the timer.
	if cfg.Timer.WorkMinutes <= 0 {
		cfg.Timer.WorkMinutes = 25
	}
	if cfg.Timer.ShortBreakMinutes <= 0 {
		cfg.Timer.ShortBreakMinutes = 5
	}
	if cfg.Timer.LongBreakMinutes <= 0 {
		cfg.Timer.LongBreakMinutes = 15
	}
	if cfg.Timer.SessionsUntilLongBreak <= 0 {
		cfg.Timer.SessionsUntilLongBreak = 4
	}

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database_path", cfg.DatabasePath)
	v.Set("timer", cfg.Timer)
	v.Set("sync", cfg.Sync)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
