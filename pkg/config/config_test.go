package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns valid defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Server defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}

	// Database defaults
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected default postgres port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("Expected max idle conns 5, got %d", cfg.Database.MaxIdleConns)
	}

	// Geocoding defaults respect the public Nominatim policy
	if cfg.Geocoding.RequestsPerSecond != 1.0 {
		t.Errorf("Expected 1 request/second, got %f", cfg.Geocoding.RequestsPerSecond)
	}

	// Airport data defaults
	if cfg.AirportData.RefreshAfterDays != 30 {
		t.Errorf("Expected 30 day refresh, got %d", cfg.AirportData.RefreshAfterDays)
	}

	// Cache TTLs: specs long, geocode medium, search short
	if cfg.Cache.AircraftSpecsTTLSeconds != 3600 {
		t.Errorf("Expected specs TTL 3600, got %d", cfg.Cache.AircraftSpecsTTLSeconds)
	}
	if cfg.Cache.GeocodingTTLSeconds != 1800 {
		t.Errorf("Expected geocode TTL 1800, got %d", cfg.Cache.GeocodingTTLSeconds)
	}
	if cfg.Cache.SearchTTLSeconds != 300 {
		t.Errorf("Expected search TTL 300, got %d", cfg.Cache.SearchTTLSeconds)
	}
}

// TestLoadNonExistentFile tests that Load returns default config when file doesn't exist.
func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Expected no error for non-existent file, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config, got nil")
	}
	// Verify it's actually the default config
	if cfg.Server.Port != "8080" {
		t.Error("Did not get default config for non-existent file")
	}
}

// TestLoadValidConfig tests loading a valid configuration file.
func TestLoadValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.json")

	testConfig := &Config{
		Server: ServerConfig{
			Port: "9090",
			Host: "127.0.0.1",
		},
		Database: DatabaseConfig{
			Host:     "db.example.com",
			Port:     5433,
			Database: "testdb",
			Username: "testuser",
		},
		Geocoding: GeocodingConfig{
			BaseURL:           "https://nominatim.internal",
			RequestsPerSecond: 5.0,
		},
		AirportData: AirportDataConfig{
			BaseURL:          "https://data.internal",
			RefreshAfterDays: 7,
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Expected db.example.com, got %s", cfg.Database.Host)
	}
	if cfg.Geocoding.BaseURL != "https://nominatim.internal" {
		t.Errorf("Expected custom geocoder URL, got %s", cfg.Geocoding.BaseURL)
	}
	if cfg.AirportData.RefreshAfterDays != 7 {
		t.Errorf("Expected 7 day refresh, got %d", cfg.AirportData.RefreshAfterDays)
	}
}

// TestLoadInvalidJSON tests error handling for malformed JSON.
func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.json")

	if err := os.WriteFile(configPath, []byte("{ invalid json }"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got: %v", err)
	}
}

// TestSaveConfig tests saving configuration to file.
func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved-config.json")

	cfg := DefaultConfig()
	cfg.Server.Port = "9999"
	cfg.Database.Database = "savetest"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Server.Port != "9999" {
		t.Errorf("Expected port 9999, got %s", loaded.Server.Port)
	}
	if loaded.Database.Database != "savetest" {
		t.Errorf("Expected database savetest, got %s", loaded.Database.Database)
	}
}

// TestSaveConfigCreatesDirectory tests that Save creates missing directories.
func TestSaveConfigCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to save config with nested directory: %v", err)
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Directory was not created")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

// TestEnvironmentOverrides tests environment variable overrides.
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DIVERT_SCOPE_PORT", "7777")
	t.Setenv("DIVERT_SCOPE_DB_HOST", "env-db-host")
	t.Setenv("DIVERT_SCOPE_DB_PASSWORD", "env-password")
	t.Setenv("DIVERT_SCOPE_GEOCODER_URL", "http://env-geocoder:8088")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	testCfg := DefaultConfig()
	testCfg.Server.Port = "8080"
	testCfg.Database.Host = "localhost"
	testCfg.Database.Password = "original-password"

	data, _ := json.Marshal(testCfg)
	os.WriteFile(configPath, data, 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != "7777" {
		t.Errorf("Expected port 7777 from env, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "env-db-host" {
		t.Errorf("Expected env-db-host from env, got %s", cfg.Database.Host)
	}
	if cfg.Database.Password != "env-password" {
		t.Errorf("Expected env-password from env, got %s", cfg.Database.Password)
	}
	if cfg.Geocoding.BaseURL != "http://env-geocoder:8088" {
		t.Errorf("Expected geocoder URL from env, got %s", cfg.Geocoding.BaseURL)
	}
}

// TestConfigRoundTrip tests saving and loading config preserves data.
func TestConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roundtrip.json")

	original := DefaultConfig()
	original.Server.Port = "3000"
	original.Geocoding.RequestsPerSecond = 2.5
	original.Cache.SearchTTLSeconds = 60

	if err := original.Save(configPath); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if loaded.Server.Port != original.Server.Port {
		t.Error("Port not preserved in round trip")
	}
	if loaded.Geocoding.RequestsPerSecond != original.Geocoding.RequestsPerSecond {
		t.Error("Geocoding rate not preserved in round trip")
	}
	if loaded.Cache.SearchTTLSeconds != original.Cache.SearchTTLSeconds {
		t.Error("Search TTL not preserved in round trip")
	}
}
