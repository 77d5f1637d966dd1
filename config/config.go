package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Pricing  PricingConfig
	Forecast ForecastConfig
	Realtime RealtimeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DSN string `mapstructure:"dsn"`
}

// PricingConfig holds synthetic seeding and statistics configuration
type PricingConfig struct {
	// SeedStart is the first seeded day (YYYY-MM-DD). Empty means a trailing
	// one-year window ending today.
	SeedStart   string `mapstructure:"seed_start"`
	SeedDays    int    `mapstructure:"seed_days"`
	StatsWindow int    `mapstructure:"stats_window"` // records per statistics window
}

// ForecastConfig holds forecast model configuration
type ForecastConfig struct {
	HistoryDays int `mapstructure:"history_days"`
	HorizonDays int `mapstructure:"horizon_days"`
}

// RealtimeConfig holds the real-time simulator configuration
type RealtimeConfig struct {
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cropsight/")

	v.SetEnvPrefix("CROPSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SeedStartDate parses the configured seed start day. A zero time means the
// seeder should pick a trailing window ending today.
func (c *Config) SeedStartDate() (time.Time, error) {
	if c.Pricing.SeedStart == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, c.Pricing.SeedStart, time.UTC)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Storage defaults
	v.SetDefault("storage.dsn", "cropsight.db")

	// Pricing defaults: one seeded year ending today, 30-record statistics window
	v.SetDefault("pricing.seed_start", "")
	v.SetDefault("pricing.seed_days", 365)
	v.SetDefault("pricing.stats_window", 30)

	// Forecast defaults
	v.SetDefault("forecast.history_days", 90)
	v.SetDefault("forecast.horizon_days", 7)

	// Realtime defaults
	v.SetDefault("realtime.update_interval", "300s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storage.DSN == "" {
		return fmt.Errorf("storage DSN is required (set CROPSIGHT_STORAGE_DSN)")
	}

	if _, err := config.SeedStartDate(); err != nil {
		return fmt.Errorf("pricing seed_start must be a YYYY-MM-DD date, got: %s", config.Pricing.SeedStart)
	}

	if config.Pricing.SeedDays <= 0 {
		return fmt.Errorf("pricing seed_days must be positive, got: %d", config.Pricing.SeedDays)
	}

	if config.Forecast.HorizonDays <= 0 {
		return fmt.Errorf("forecast horizon_days must be positive, got: %d", config.Forecast.HorizonDays)
	}

	if config.Realtime.UpdateInterval <= 0 {
		return fmt.Errorf("realtime update_interval must be positive, got: %s", config.Realtime.UpdateInterval)
	}

	return nil
}
