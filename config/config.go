// Package config loads and validates the Caravan service configuration.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"caravan/core"
)

// Config holds all configuration for the Caravan service.
type Config struct {
	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Dataset struct {
		// Dir is the directory holding the per-family record files
		// (CARAVAN_DATASET_DIR, default: ./data).
		Dir string `mapstructure:"dir"`
		// Strict rejects the whole dataset on any invalid record instead
		// of skipping it.
		Strict bool `mapstructure:"strict"`
		// Per-family file names inside Dir. JSON by default; .yaml/.yml
		// files are accepted too.
		OrganizationsFile       string `mapstructure:"organizations_file"`
		VehiclesFile            string `mapstructure:"vehicles_file"`
		DriversFile             string `mapstructure:"drivers_file"`
		TransportOperationsFile string `mapstructure:"transport_operations_file"`
	} `mapstructure:"dataset"`

	API struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		// RateLimit is requests per second per client; RateBurst the burst
		// allowance. Zero disables rate limiting.
		RateLimit float64 `mapstructure:"rate_limit"`
		RateBurst int     `mapstructure:"rate_burst"`
		// Timeouts in seconds.
		ReadTimeout  int `mapstructure:"read_timeout"`
		WriteTimeout int `mapstructure:"write_timeout"`
	} `mapstructure:"api"`
}

// Load reads configuration from an optional config file plus CARAVAN_*
// environment overrides, applying defaults for everything unset.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("dataset.dir", "./data")
	v.SetDefault("dataset.strict", true)
	v.SetDefault("dataset.organizations_file", "organizations.json")
	v.SetDefault("dataset.vehicles_file", "vehicles.json")
	v.SetDefault("dataset.drivers_file", "drivers.json")
	v.SetDefault("dataset.transport_operations_file", "transport_operations.json")
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 50.0)
	v.SetDefault("api.rate_burst", 100)
	v.SetDefault("api.read_timeout", 15)
	v.SetDefault("api.write_timeout", 15)

	v.SetEnvPrefix("CARAVAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
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

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Dataset.Dir == "" {
		return fmt.Errorf("dataset directory must not be empty")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port %d", c.API.Port)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("rate burst must be positive when rate limiting is enabled")
	}
	if c.API.ReadTimeout < 1 || c.API.WriteTimeout < 1 {
		return fmt.Errorf("API timeouts must be positive")
	}
	return nil
}

// APIAddr returns the host:port the API server binds to.
func (c *Config) APIAddr() string {
	return net.JoinHostPort(c.API.Host, strconv.Itoa(c.API.Port))
}

// DatasetFiles returns the per-family file-name mapping for the loader.
func (c *Config) DatasetFiles() map[core.Family]string {
	return map[core.Family]string{
		core.FamilyOrganization:       c.Dataset.OrganizationsFile,
		core.FamilyVehicle:            c.Dataset.VehiclesFile,
		core.FamilyDriver:             c.Dataset.DriversFile,
		core.FamilyTransportOperation: c.Dataset.TransportOperationsFile,
	}
}
