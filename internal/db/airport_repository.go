package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/geomath"
)

// maxQueryResults caps how many airports a single radius query returns.
const maxQueryResults = 100

// AirportRepository handles database operations for airport records.
// It implements the airport.Store contract consumed by the search engine.
type AirportRepository struct {
	db *DB
}

// NewAirportRepository creates a new airport repository.
func NewAirportRepository(db *DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// boundingBoxDegrees converts a nautical-mile radius to an approximate
// latitude/longitude half-width in degrees. One degree of latitude is about
// 60 nautical miles; the box over-selects near the poles, which is fine
// because the engine recomputes exact distances.
func boundingBoxDegrees(radiusNM float64) float64 {
	return radiusNM / 60.0
}

// QueryWithinRadius returns airports inside a lat/lon bounding box around
// center, ordered by great-circle distance, capped at 100 records. Airports
// without runway length data are excluded since they cannot be scored.
func (r *AirportRepository) QueryWithinRadius(ctx context.Context, center geomath.Coordinates, radiusNM float64) ([]airport.Airport, error) {
	radiusDeg := boundingBoxDegrees(radiusNM)

	rows, err := r.db.QueryContext(ctx,
		`SELECT icao_code, name, latitude, longitude, elevation_ft,
		        longest_runway_ft, runway_width_ft, surface_type,
		        weight_capacity_lbs, contact_info, last_updated
		 FROM airports
		 WHERE latitude BETWEEN $1 - $3 AND $1 + $3
		   AND longitude BETWEEN $2 - $3 AND $2 + $3
		   AND longest_runway_ft IS NOT NULL
		 ORDER BY 3959 * acos(
		     LEAST(1.0, GREATEST(-1.0,
		         cos(radians($1)) * cos(radians(latitude)) *
		         cos(radians(longitude) - radians($2)) +
		         sin(radians($1)) * sin(radians(latitude))
		     ))
		 )
		 LIMIT $4`,
		center.Latitude, center.Longitude, radiusDeg, maxQueryResults,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", airport.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var airports []airport.Airport
	for rows.Next() {
		apt, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", airport.ErrStorageUnavailable, err)
		}
		airports = append(airports, apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", airport.ErrStorageUnavailable, err)
	}

	return airports, nil
}

// GetByICAO retrieves a single airport by ICAO code.
// Returns nil with no error when the airport is not stored.
func (r *AirportRepository) GetByICAO(ctx context.Context, icao string) (*airport.Airport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT icao_code, name, latitude, longitude, elevation_ft,
		        longest_runway_ft, runway_width_ft, surface_type,
		        weight_capacity_lbs, contact_info, last_updated
		 FROM airports
		 WHERE icao_code = $1`,
		icao,
	)

	apt, err := scanAirport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", airport.ErrStorageUnavailable, err)
	}

	return &apt, nil
}

// UpsertAirport inserts or updates an airport record.
func (r *AirportRepository) UpsertAirport(ctx context.Context, apt airport.Airport) error {
	lastUpdated := apt.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO airports (
			icao_code, name, latitude, longitude, elevation_ft,
			longest_runway_ft, runway_width_ft, surface_type,
			weight_capacity_lbs, contact_info, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (icao_code) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			elevation_ft = EXCLUDED.elevation_ft,
			longest_runway_ft = EXCLUDED.longest_runway_ft,
			runway_width_ft = EXCLUDED.runway_width_ft,
			surface_type = EXCLUDED.surface_type,
			weight_capacity_lbs = EXCLUDED.weight_capacity_lbs,
			contact_info = EXCLUDED.contact_info,
			last_updated = EXCLUDED.last_updated`,
		apt.ICAOCode, apt.Name,
		apt.Coordinates.Latitude, apt.Coordinates.Longitude,
		apt.ElevationFt,
		nullableInt(apt.LongestRunwayFt),
		nullableInt(apt.RunwayWidthFt),
		apt.SurfaceType,
		nullableInt(apt.WeightCapacityLbs),
		nullableString(apt.ContactInfo),
		lastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert airport %s: %w", apt.ICAOCode, err)
	}

	return nil
}

// ImportAirports bulk-upserts a dataset inside a single transaction.
// Returns the number of airports written.
func (r *AirportRepository) ImportAirports(ctx context.Context, airports []airport.Airport) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO airports (
			icao_code, name, latitude, longitude, elevation_ft,
			longest_runway_ft, runway_width_ft, surface_type,
			weight_capacity_lbs, contact_info, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (icao_code) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			elevation_ft = EXCLUDED.elevation_ft,
			longest_runway_ft = EXCLUDED.longest_runway_ft,
			runway_width_ft = EXCLUDED.runway_width_ft,
			surface_type = EXCLUDED.surface_type,
			weight_capacity_lbs = EXCLUDED.weight_capacity_lbs,
			contact_info = EXCLUDED.contact_info,
			last_updated = EXCLUDED.last_updated`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, apt := range airports {
		lastUpdated := apt.LastUpdated
		if lastUpdated.IsZero() {
			lastUpdated = time.Now().UTC()
		}

		_, err := stmt.ExecContext(ctx,
			apt.ICAOCode, apt.Name,
			apt.Coordinates.Latitude, apt.Coordinates.Longitude,
			apt.ElevationFt,
			nullableInt(apt.LongestRunwayFt),
			nullableInt(apt.RunwayWidthFt),
			apt.SurfaceType,
			nullableInt(apt.WeightCapacityLbs),
			nullableString(apt.ContactInfo),
			lastUpdated,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to import airport %s: %w", apt.ICAOCode, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return count, nil
}

// DataStatus describes the freshness of the stored airport dataset.
type DataStatus struct {
	AirportCount int        `json:"airports_count"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	DataAgeDays  int        `json:"data_age_days"`
}

// GetDataStatus reports how many airports are stored and when the dataset
// was last refreshed.
func (r *AirportRepository) GetDataStatus(ctx context.Context) (DataStatus, error) {
	var status DataStatus
	var lastUpdated sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(last_updated) FROM airports`,
	).Scan(&status.AirportCount, &lastUpdated)
	if err != nil {
		return DataStatus{}, fmt.Errorf("failed to query data status: %w", err)
	}

	if lastUpdated.Valid {
		t := lastUpdated.Time.UTC()
		status.LastUpdated = &t
		status.DataAgeDays = dataAgeDays(t, time.Now().UTC())
	}

	return status, nil
}

// NeedsRefresh reports whether the stored dataset is empty or older than
// maxAgeDays and should be refetched from the upstream source.
func (r *AirportRepository) NeedsRefresh(ctx context.Context, maxAgeDays int) (bool, error) {
	status, err := r.GetDataStatus(ctx)
	if err != nil {
		return false, err
	}

	if status.AirportCount == 0 || status.LastUpdated == nil {
		return true, nil
	}

	return status.DataAgeDays > maxAgeDays, nil
}

// dataAgeDays returns the whole number of days between updated and now.
func dataAgeDays(updated, now time.Time) int {
	age := now.Sub(updated)
	if age < 0 {
		return 0
	}
	return int(age.Hours() / 24)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAirport reads one airport row, mapping NULL columns to zero values.
func scanAirport(row rowScanner) (airport.Airport, error) {
	var apt airport.Airport
	var elevation, runwayLength, runwayWidth, weightCapacity sql.NullInt64
	var surfaceType, contactInfo sql.NullString
	var lastUpdated sql.NullTime

	err := row.Scan(
		&apt.ICAOCode, &apt.Name,
		&apt.Coordinates.Latitude, &apt.Coordinates.Longitude,
		&elevation, &runwayLength, &runwayWidth, &surfaceType,
		&weightCapacity, &contactInfo, &lastUpdated,
	)
	if err != nil {
		return airport.Airport{}, err
	}

	apt.ElevationFt = int(elevation.Int64)
	apt.LongestRunwayFt = int(runwayLength.Int64)
	apt.RunwayWidthFt = int(runwayWidth.Int64)
	apt.WeightCapacityLbs = int(weightCapacity.Int64)
	if surfaceType.Valid && surfaceType.String != "" {
		apt.SurfaceType = surfaceType.String
	} else {
		apt.SurfaceType = "unknown"
	}
	apt.ContactInfo = contactInfo.String
	if lastUpdated.Valid {
		apt.LastUpdated = lastUpdated.Time
	}

	return apt, nil
}

// nullableInt maps a zero value to SQL NULL. Zero means "unknown" for the
// optional airport columns.
func nullableInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
