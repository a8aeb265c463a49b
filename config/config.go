// Package config provides configuration for the recovery engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunable settings of the recovery pipeline.
type Config struct {
	// RatePerSecond throttles all archive requests (CDX queries and
	// snapshot fetches share one limiter).
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`

	// RequestTimeout is the per-attempt HTTP timeout.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	UserAgent string `mapstructure:"user_agent"`

	// MaxSnapshots caps how many captures a CDX lookup returns.
	MaxSnapshots int `mapstructure:"max_snapshots"`

	// Concurrency bounds parallel video recoveries in batch runs.
	Concurrency int `mapstructure:"concurrency"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		RatePerSecond:  1.0,
		Burst:          1,
		RequestTimeout: 30 * time.Second,
		UserAgent:      "",
		MaxSnapshots:   50,
		Concurrency:    4,
	}
}

// Load reads configuration from an optional YAML file plus CHRONOVISTA_*
// environment overrides, on top of the defaults. An empty path skips the
// file and uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("rate_per_second", defaults.RatePerSecond)
	v.SetDefault("burst", defaults.Burst)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("max_snapshots", defaults.MaxSnapshots)
	v.SetDefault("concurrency", defaults.Concurrency)

	v.SetEnvPrefix("CHRONOVISTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate_per_second must be positive, got %v", c.RatePerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.MaxSnapshots < 1 {
		return fmt.Errorf("max_snapshots must be at least 1, got %d", c.MaxSnapshots)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
