// Package config loads the validador configuration from validador.yaml,
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level validador configuration.
type Config struct {
	SpecsDir string         `mapstructure:"specs_dir"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// DatabaseConfig holds the connection settings for the rule store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig controls log verbosity and the optional log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ScheduleConfig controls the daemon's verification cadence.
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the configuration from path, or from validador.yaml in the
// working directory when path is empty. A missing default file is not an
// error; defaults apply. DATABASE_URL overrides database.url when set.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("specs_dir", "specs")
	v.SetDefault("log.level", "info")
	v.SetDefault("schedule.interval", "24h")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("validador")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.SpecsDir == "" {
		return fmt.Errorf("specs_dir must not be empty")
	}
	if cfg.Schedule.Interval <= 0 {
		return fmt.Errorf("schedule.interval must be positive, got: %s", cfg.Schedule.Interval)
	}
	return nil
}
