package db

import (
	"database/sql"
	"testing"
	"time"
)

// TestBoundingBoxDegrees verifies the nautical-mile to degree conversion
// used for the radius query's bounding box.
func TestBoundingBoxDegrees(t *testing.T) {
	tests := []struct {
		name     string
		radiusNM float64
		want     float64
	}{
		{"60nm is one degree", 60, 1.0},
		{"default search radius", 100, 100.0 / 60.0},
		{"doubled radius doubles the box", 200, 200.0 / 60.0},
		{"zero radius", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boundingBoxDegrees(tt.radiusNM)
			if got != tt.want {
				t.Errorf("boundingBoxDegrees(%v) = %v, want %v", tt.radiusNM, got, tt.want)
			}
		})
	}
}

// TestDataAgeDays verifies data age calculation for the refresh policy.
func TestDataAgeDays(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updated time.Time
		want    int
	}{
		{"fresh data", now.Add(-1 * time.Hour), 0},
		{"one day old", now.Add(-25 * time.Hour), 1},
		{"at the refresh boundary", now.Add(-30 * 24 * time.Hour), 30},
		{"past the refresh boundary", now.Add(-31 * 24 * time.Hour), 31},
		{"future timestamp clamps to zero", now.Add(1 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dataAgeDays(tt.updated, now)
			if got != tt.want {
				t.Errorf("dataAgeDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestNullableColumns verifies zero-value to NULL mapping for the optional
// airport columns.
func TestNullableColumns(t *testing.T) {
	t.Run("zero int maps to NULL", func(t *testing.T) {
		if v := nullableInt(0); v.Valid {
			t.Error("Expected NULL for zero value")
		}
	})

	t.Run("non-zero int is preserved", func(t *testing.T) {
		v := nullableInt(7000)
		if !v.Valid {
			t.Fatal("Expected valid value")
		}
		if v.Int64 != 7000 {
			t.Errorf("Expected 7000, got %d", v.Int64)
		}
	})

	t.Run("empty string maps to NULL", func(t *testing.T) {
		if v := nullableString(""); v.Valid {
			t.Error("Expected NULL for empty string")
		}
	})

	t.Run("non-empty string is preserved", func(t *testing.T) {
		v := nullableString("Tower: 119.1")
		if !v.Valid || v.String != "Tower: 119.1" {
			t.Errorf("Expected preserved string, got %+v", v)
		}
	})
}

// fakeRow implements rowScanner with fixed column values.
type fakeRow struct {
	values []interface{}
}

func (f *fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = f.values[i].(string)
		case *float64:
			*v = f.values[i].(float64)
		case *sql.NullInt64:
			*v = f.values[i].(sql.NullInt64)
		case *sql.NullString:
			*v = f.values[i].(sql.NullString)
		case *sql.NullTime:
			*v = f.values[i].(sql.NullTime)
		}
	}
	return nil
}

// TestScanAirport verifies NULL handling when reading airport rows.
func TestScanAirport(t *testing.T) {
	updated := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("complete row", func(t *testing.T) {
		row := &fakeRow{values: []interface{}{
			"KTEB", "Teterboro", 40.8501, -74.0608,
			sql.NullInt64{Int64: 9, Valid: true},
			sql.NullInt64{Int64: 7000, Valid: true},
			sql.NullInt64{Int64: 150, Valid: true},
			sql.NullString{String: "asphalt", Valid: true},
			sql.NullInt64{Int64: 100000, Valid: true},
			sql.NullString{String: "Tower: 119.5", Valid: true},
			sql.NullTime{Time: updated, Valid: true},
		}}

		apt, err := scanAirport(row)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if apt.ICAOCode != "KTEB" {
			t.Errorf("Expected KTEB, got %s", apt.ICAOCode)
		}
		if apt.LongestRunwayFt != 7000 {
			t.Errorf("Expected 7000ft runway, got %d", apt.LongestRunwayFt)
		}
		if apt.SurfaceType != "asphalt" {
			t.Errorf("Expected asphalt, got %s", apt.SurfaceType)
		}
		if !apt.LastUpdated.Equal(updated) {
			t.Errorf("Expected %v, got %v", updated, apt.LastUpdated)
		}
	})

	t.Run("NULL optional columns map to zero values", func(t *testing.T) {
		row := &fakeRow{values: []interface{}{
			"1GA0", "Private Strip", 33.0, -84.0,
			sql.NullInt64{},
			sql.NullInt64{Int64: 1000, Valid: true},
			sql.NullInt64{},
			sql.NullString{},
			sql.NullInt64{},
			sql.NullString{},
			sql.NullTime{},
		}}

		apt, err := scanAirport(row)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if apt.RunwayWidthFt != 0 {
			t.Errorf("Expected unknown width (0), got %d", apt.RunwayWidthFt)
		}
		if apt.WeightCapacityLbs != 0 {
			t.Errorf("Expected unknown capacity (0), got %d", apt.WeightCapacityLbs)
		}
		if apt.SurfaceType != "unknown" {
			t.Errorf("Expected unknown surface placeholder, got %s", apt.SurfaceType)
		}
		if !apt.LastUpdated.IsZero() {
			t.Errorf("Expected zero LastUpdated, got %v", apt.LastUpdated)
		}
	})
}
