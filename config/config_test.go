package config

import (
	"os"
	"path/filepath"
	"testing"

	"caravan/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that an empty environment yields working defaults
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./data", cfg.Dataset.Dir)
	assert.True(t, cfg.Dataset.Strict, "strict mode is the default")
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.APIAddr())

	files := cfg.DatasetFiles()
	assert.Equal(t, "vehicles.json", files[core.FamilyVehicle])
	assert.Equal(t, "transport_operations.json", files[core.FamilyTransportOperation])
}

// TestLoad_EnvOverrides tests CARAVAN_* environment variable overrides
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CARAVAN_DATASET_DIR", "/srv/caravan/data")
	t.Setenv("CARAVAN_API_PORT", "9090")
	t.Setenv("CARAVAN_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/caravan/data", cfg.Dataset.Dir)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestLoad_ConfigFile tests loading from a YAML config file
func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: warn
dataset:
  dir: ./fixtures
  strict: false
  vehicles_file: fleet.yaml
api:
  port: 8888
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "./fixtures", cfg.Dataset.Dir)
	assert.False(t, cfg.Dataset.Strict)
	assert.Equal(t, "fleet.yaml", cfg.DatasetFiles()[core.FamilyVehicle])
	assert.Equal(t, "drivers.json", cfg.DatasetFiles()[core.FamilyDriver], "unset keys keep defaults")
	assert.Equal(t, 8888, cfg.API.Port)
}

// TestLoad_MissingConfigFile tests that a named but absent file is an error
func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}

// TestValidate_Failures tests the rejection of unusable values
func TestValidate_Failures(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"empty dataset dir", func(c *Config) { c.Dataset.Dir = "" }},
		{"port zero", func(c *Config) { c.API.Port = 0 }},
		{"port too high", func(c *Config) { c.API.Port = 70000 }},
		{"negative rate limit", func(c *Config) { c.API.RateLimit = -1 }},
		{"rate limit without burst", func(c *Config) { c.API.RateLimit = 10; c.API.RateBurst = 0 }},
		{"zero read timeout", func(c *Config) { c.API.ReadTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
