package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.RatePerSecond)
	assert.Equal(t, 1, cfg.Burst)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.MaxSnapshots)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rate_per_second: 0.5
burst: 2
request_timeout: 45s
max_snapshots: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.RatePerSecond)
	assert.Equal(t, 2, cfg.Burst)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.MaxSnapshots)
	// Unset keys keep their defaults.
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHRONOVISTA_CONCURRENCY", "8")
	t.Setenv("CHRONOVISTA_USER_AGENT", "test-agent/1.0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "test-agent/1.0", cfg.UserAgent)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rate", func(c *Config) { c.RatePerSecond = 0 }},
		{"negative rate", func(c *Config) { c.RatePerSecond = -1 }},
		{"zero burst", func(c *Config) { c.Burst = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero max snapshots", func(c *Config) { c.MaxSnapshots = 0 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
