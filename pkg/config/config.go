// Package config loads application configuration from a JSON file with
// environment-variable overrides for secrets and deploy-specific values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
type Config struct {
	Server      ServerConfig      `json:"server"`
	Database    DatabaseConfig    `json:"database"`
	Geocoding   GeocodingConfig   `json:"geocoding"`
	AirportData AirportDataConfig `json:"airport_data"`
	Cache       CacheConfig       `json:"cache"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (prefer the
	// DIVERT_SCOPE_DB_PASSWORD environment variable over the config file)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// GeocodingConfig contains Nominatim geocoder settings.
type GeocodingConfig struct {
	// BaseURL is the Nominatim instance (default: the public OSM instance)
	BaseURL string `json:"base_url"`

	// RequestsPerSecond limits the geocoding call rate.
	// The public instance's policy maximum is 1.
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// AirportDataConfig contains OurAirports bulk import settings.
type AirportDataConfig struct {
	// BaseURL is the dataset location (default: the published snapshots)
	BaseURL string `json:"base_url"`

	// RefreshAfterDays is how stale stored airport data may get before the
	// server refetches the dataset (default: 30)
	RefreshAfterDays int `json:"refresh_after_days"`
}

// CacheConfig contains the TTLs of the three cache instances, in seconds.
type CacheConfig struct {
	// AircraftSpecsTTLSeconds for catalog lookups; specs rarely change
	// (default: 3600)
	AircraftSpecsTTLSeconds int `json:"aircraft_specs_ttl_seconds"`

	// GeocodingTTLSeconds for resolved addresses (default: 1800)
	GeocodingTTLSeconds int `json:"geocoding_ttl_seconds"`

	// SearchTTLSeconds for completed search results; airport data and
	// requested radii change, so keep this short (default: 300)
	SearchTTLSeconds int `json:"search_ttl_seconds"`
}

// Load reads configuration from a JSON file.
// A .env file in the working directory is loaded first so that secrets stay
// out of config files. If the config file doesn't exist, returns defaults.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; it's optional in production
	_ = godotenv.Load()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "divertscope",
			Username:     "divertscope",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Geocoding: GeocodingConfig{
			BaseURL:           "https://nominatim.openstreetmap.org",
			RequestsPerSecond: 1.0,
		},
		AirportData: AirportDataConfig{
			BaseURL:          "https://davidmegginson.github.io/ourairports-data",
			RefreshAfterDays: 30,
		},
		Cache: CacheConfig{
			AircraftSpecsTTLSeconds: 3600,
			GeocodingTTLSeconds:     1800,
			SearchTTLSeconds:        300,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
// This allows sensitive data like passwords to be kept out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("DIVERT_SCOPE_PORT"); port != "" {
		c.Server.Port = port
	}
	if host := os.Getenv("DIVERT_SCOPE_DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if password := os.Getenv("DIVERT_SCOPE_DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if geocodeURL := os.Getenv("DIVERT_SCOPE_GEOCODER_URL"); geocodeURL != "" {
		c.Geocoding.BaseURL = geocodeURL
	}
}
