// Package db provides PostgreSQL-backed storage for airport records and
// aircraft specifications.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/unklstewy/divert-scope/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps a database connection with helper methods.
type DB struct {
	*sql.DB
	config config.DatabaseConfig
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		config: cfg,
	}

	return db, nil
}

// InitSchema creates or updates the database schema.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// GetStats returns database statistics for the status endpoint.
func (db *DB) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var airportCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM airports`,
	).Scan(&airportCount)
	if err != nil {
		return nil, err
	}
	stats["airports"] = airportCount

	var withRunwayCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM airports WHERE longest_runway_ft IS NOT NULL`,
	).Scan(&withRunwayCount)
	if err != nil {
		return nil, err
	}
	stats["airports_with_runway_data"] = withRunwayCount

	var aircraftCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM aircraft_specs`,
	).Scan(&aircraftCount)
	if err != nil {
		return nil, err
	}
	stats["aircraft_types"] = aircraftCount

	return stats, nil
}
