package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/unklstewy/divert-scope/pkg/airport"
)

// AircraftRepository handles database operations for aircraft specifications.
// It implements the airport.Catalog contract consumed by the search engine.
type AircraftRepository struct {
	db *DB
}

// NewAircraftRepository creates a new aircraft specifications repository.
func NewAircraftRepository(db *DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// GetSpecs returns the specifications for an exact aircraft type string.
// The boolean reports whether the type exists in the catalog.
func (r *AircraftRepository) GetSpecs(ctx context.Context, aircraftType string) (airport.AircraftSpecs, bool, error) {
	var specs airport.AircraftSpecs
	var approachSpeed sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT aircraft_type, min_runway_length_ft, min_runway_width_ft,
		        max_weight_lbs, approach_speed_kts, category
		 FROM aircraft_specs
		 WHERE aircraft_type = $1`,
		aircraftType,
	).Scan(
		&specs.AircraftType, &specs.MinRunwayLengthFt, &specs.MinRunwayWidthFt,
		&specs.MaxWeightLbs, &approachSpeed, &specs.Category,
	)

	if err == sql.ErrNoRows {
		return airport.AircraftSpecs{}, false, nil
	}
	if err != nil {
		return airport.AircraftSpecs{}, false, fmt.Errorf("failed to query aircraft specs: %w", err)
	}

	specs.ApproachSpeedKts = int(approachSpeed.Int64)

	return specs, true, nil
}

// ListTypes returns all known aircraft type names, sorted alphabetically.
func (r *AircraftRepository) ListTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT aircraft_type FROM aircraft_specs ORDER BY aircraft_type`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	return types, rows.Err()
}

// UpsertSpecs inserts or updates one aircraft type's specifications.
func (r *AircraftRepository) UpsertSpecs(ctx context.Context, specs airport.AircraftSpecs) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO aircraft_specs (
			aircraft_type, min_runway_length_ft, min_runway_width_ft,
			max_weight_lbs, approach_speed_kts, category
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (aircraft_type) DO UPDATE SET
			min_runway_length_ft = EXCLUDED.min_runway_length_ft,
			min_runway_width_ft = EXCLUDED.min_runway_width_ft,
			max_weight_lbs = EXCLUDED.max_weight_lbs,
			approach_speed_kts = EXCLUDED.approach_speed_kts,
			category = EXCLUDED.category`,
		specs.AircraftType, specs.MinRunwayLengthFt, specs.MinRunwayWidthFt,
		specs.MaxWeightLbs, specs.ApproachSpeedKts, specs.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aircraft specs %s: %w", specs.AircraftType, err)
	}

	return nil
}

// Seed loads the reference aircraft catalog. Existing rows are updated so
// spec corrections propagate on restart.
func (r *AircraftRepository) Seed(ctx context.Context) error {
	for _, specs := range ReferenceAircraft() {
		if err := r.UpsertSpecs(ctx, specs); err != nil {
			return err
		}
	}

	return nil
}

// ReferenceAircraft returns the built-in aircraft specification catalog,
// covering common types from light singles through the A380.
func ReferenceAircraft() []airport.AircraftSpecs {
	return []airport.AircraftSpecs{
		// Light aircraft
		{
			AircraftType:      "Cessna 172",
			MinRunwayLengthFt: 1200,
			MinRunwayWidthFt:  50,
			MaxWeightLbs:      2550,
			ApproachSpeedKts:  65,
			Category:          airport.CategoryLight,
		},
		{
			AircraftType:      "Cessna 182",
			MinRunwayLengthFt: 1400,
			MinRunwayWidthFt:  50,
			MaxWeightLbs:      3100,
			ApproachSpeedKts:  70,
			Category:          airport.CategoryLight,
		},
		{
			AircraftType:      "Piper Cherokee",
			MinRunwayLengthFt: 1200,
			MinRunwayWidthFt:  50,
			MaxWeightLbs:      2450,
			ApproachSpeedKts:  68,
			Category:          airport.CategoryLight,
		},

		// Medium aircraft
		{
			AircraftType:      "King Air 350",
			MinRunwayLengthFt: 3300,
			MinRunwayWidthFt:  75,
			MaxWeightLbs:      15000,
			ApproachSpeedKts:  110,
			Category:          airport.CategoryMedium,
		},
		{
			AircraftType:      "Citation CJ4",
			MinRunwayLengthFt: 3560,
			MinRunwayWidthFt:  100,
			MaxWeightLbs:      17110,
			ApproachSpeedKts:  120,
			Category:          airport.CategoryMedium,
		},

		// Commercial aircraft
		{
			AircraftType:      "Boeing 737-800",
			MinRunwayLengthFt: 6000,
			MinRunwayWidthFt:  100,
			MaxWeightLbs:      174200,
			ApproachSpeedKts:  140,
			Category:          airport.CategoryHeavy,
		},
		{
			AircraftType:      "Airbus A320",
			MinRunwayLengthFt: 5090,
			MinRunwayWidthFt:  100,
			MaxWeightLbs:      169756,
			ApproachSpeedKts:  135,
			Category:          airport.CategoryHeavy,
		},
		{
			AircraftType:      "Boeing 777-300ER",
			MinRunwayLengthFt: 9800,
			MinRunwayWidthFt:  150,
			MaxWeightLbs:      775000,
			ApproachSpeedKts:  155,
			Category:          airport.CategoryHeavy,
		},
		{
			AircraftType:      "Airbus A380",
			MinRunwayLengthFt: 9800,
			MinRunwayWidthFt:  150,
			MaxWeightLbs:      1267000,
			ApproachSpeedKts:  165,
			Category:          airport.CategorySuper,
		},
	}
}
