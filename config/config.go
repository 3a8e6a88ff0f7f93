package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Settlement sweep schedule (cron spec)
	SweepCronSpec string

	// Stale report schedule (cron spec)
	StaleReportCronSpec string

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and environment variables
func load() (*Config, error) {
	// Missing .env is fine; real env vars win either way
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SweepCronSpec:       "*/5 * * * *",
		StaleReportCronSpec: "0 * * * *",
		Environment:         os.Getenv("ENVIRONMENT"),
	}

	if spec := os.Getenv("SWEEP_CRON_SPEC"); spec != "" {
		config.SweepCronSpec = spec
	}
	if spec := os.Getenv("STALE_REPORT_CRON_SPEC"); spec != "" {
		config.StaleReportCronSpec = spec
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
