// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"landed-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Catalog contains product catalog configuration
	Catalog CatalogConfig `json:"catalog"`

	// Rates contains rate-table configuration
	Rates RatesConfig `json:"rates"`

	// Quote contains real-time quote configuration
	Quote QuoteConfig `json:"quote"`

	// Session contains session identity configuration
	Session SessionConfig `json:"session"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address"`

	// ReadTimeout for requests
	ReadTimeout time.Duration `json:"read_timeout"`

	// WriteTimeout for responses
	WriteTimeout time.Duration `json:"write_timeout"`

	// EnableMetrics exposes Prometheus metrics on /metrics
	EnableMetrics bool `json:"enable_metrics"`
}

// CatalogConfig contains product catalog settings
type CatalogConfig struct {
	// DSN is the Postgres connection string
	DSN string `json:"dsn"`

	// MigrateOnStart runs pending migrations at startup
	MigrateOnStart bool `json:"migrate_on_start"`
}

// RatesConfig contains rate-table settings
type RatesConfig struct {
	// Path is the rate-table HCL file; empty means the embedded default table
	Path string `json:"path,omitempty"`
}

// QuoteConfig contains real-time quote settings
type QuoteConfig struct {
	// ServiceURL is the base URL of the logistics calculation service
	ServiceURL string `json:"service_url"`

	// DebounceMs is the debounce window for parameter changes
	DebounceMs int `json:"debounce_ms"`

	// TimeoutSeconds bounds each remote calculation call
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SessionConfig contains session identity settings
type SessionConfig struct {
	// Path is where the session identifier is persisted
	Path string `json:"path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	sessionPath := filepath.Join(homeDir, ".landed-cost", "session")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:       ":8080",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  60 * time.Second,
			EnableMetrics: true,
		},
		Catalog: CatalogConfig{
			DSN:            "postgres://localhost:5432/landedcost?sslmode=disable",
			MigrateOnStart: true,
		},
		Rates: RatesConfig{},
		Quote: QuoteConfig{
			ServiceURL:     "http://localhost:8080",
			DebounceMs:     300,
			TimeoutSeconds: 15,
		},
		Session: SessionConfig{
			Path: sessionPath,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
