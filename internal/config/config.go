// Package config loads cargofleet settings from defaults, an optional
// config file and CARGOFLEET_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g.
// CARGOFLEET_LOG_LEVEL for log.level.
const EnvPrefix = "CARGOFLEET"

// Config holds all application configuration.
type Config struct {
	Log      LogConfig    `mapstructure:"log"`
	Hazard   HazardConfig `mapstructure:"hazard"`
	Manifest string       `mapstructure:"manifest"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `mapstructure:"format"`
}

// HazardConfig controls what happens to hazard events.
type HazardConfig struct {
	// Log mirrors every hazard event to the application log at warn level.
	Log bool `mapstructure:"log"`

	// History is the number of events the session keeps for the hazards
	// command. Zero keeps all of them.
	History int `mapstructure:"history"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "warn", Format: "console"},
		Hazard: HazardConfig{Log: true, History: 100},
	}
}

// Load reads configuration. An empty path skips the file layer; a named
// file that does not exist is an error, since the user asked for it.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("hazard.log", def.Hazard.Log)
	v.SetDefault("hazard.history", def.Hazard.History)
	v.SetDefault("manifest", def.Manifest)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the logger and recorder cannot use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q (want debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (want console or json)", c.Log.Format)
	}
	if c.Hazard.History < 0 {
		return fmt.Errorf("invalid hazard.history %d (must not be negative)", c.Hazard.History)
	}
	return nil
}
