// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Ingress cache
	CachePath    string // path to the cache file or database
	CacheBackend string // json, sqlite

	// Ephemeris
	VSOP87Dir string // directory with VSOP87 data files; empty = built-in theory

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Cache backend constants
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Load reads configuration from environment variables, first loading a
// .env file if one is present (a no-op when env vars are set directly).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.CacheBackend = getEnv("CACHE_BACKEND", BackendJSON)

	// The default cache path follows the backend so switching backends
	// doesn't reuse a file of the wrong format.
	defaultPath := "./data/ingress_cache.json"
	if cfg.CacheBackend == BackendSQLite {
		defaultPath = "./data/ingress_cache.db"
	}
	cfg.CachePath = getEnv("CACHE_PATH", defaultPath)

	cfg.VSOP87Dir = getEnv("VSOP87_DIR", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	switch c.CacheBackend {
	case BackendJSON, BackendSQLite:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be one of: json, sqlite; got %q", c.CacheBackend))
	}

	if c.CachePath == "" {
		errs = append(errs, errors.New("CACHE_PATH is required"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
