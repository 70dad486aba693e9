// Package config loads application configuration from the environment,
// an optional config file, and a local .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Mapbox  MapboxConfig  `mapstructure:"mapbox"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MapboxConfig struct {
	// AccessToken authenticates every provider call. It may be empty;
	// the server still starts, and each call fails with a clear message
	// until a token is supplied.
	AccessToken string `mapstructure:"access_token"`
	BaseURL     string `mapstructure:"base_url"`
	UserAgent   string `mapstructure:"user_agent"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional config file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// A local .env is a convenience for development. Missing is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("mapbox.access_token", "")
	v.SetDefault("mapbox.base_url", "")
	v.SetDefault("mapbox.user_agent", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: INKMAP_MAPBOX_ACCESS_TOKEN → mapbox.access_token
	v.SetEnvPrefix("INKMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are sane. An empty access
// token passes; startup without one only degrades provider calls.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
