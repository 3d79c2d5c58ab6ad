// Package config provides Viper-based configuration loading for the
// Underhall simulation driver.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// WorldConfig holds world content settings.
type WorldConfig struct {
	// Path is the world definition YAML file.
	Path string `mapstructure:"path"`
}

// SimulationConfig holds the deterministic run settings.
type SimulationConfig struct {
	// Seed seeds the injected random source; identical seeds replay
	// identical turn sequences.
	Seed uint64 `mapstructure:"seed"`
	// Turns is the number of turns the driver advances.
	Turns int `mapstructure:"turns"`
	// TraceRNG logs every random draw at debug level.
	TraceRNG bool `mapstructure:"trace_rng"`
}

// SaveConfig holds save-file settings.
type SaveConfig struct {
	// Path is the SQLite save file; empty disables saving.
	Path string `mapstructure:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	World      WorldConfig      `mapstructure:"world"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Save       SaveConfig       `mapstructure:"save"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if the configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be json or console; got %q", c.Logging.Format))
	}
	if c.World.Path == "" {
		errs = append(errs, "world.path must be set")
	}
	if c.Simulation.Turns < 0 {
		errs = append(errs, fmt.Sprintf("simulation.turns must be >= 0; got %d", c.Simulation.Turns))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applying defaults and
// UNDERHALL_-prefixed environment overrides. An empty path loads defaults
// and environment only.
//
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("world.path", "data/world.yaml")
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.turns", 100)
	v.SetDefault("simulation.trace_rng", false)
	v.SetDefault("save.path", "")

	v.SetEnvPrefix("UNDERHALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
