// Package airport defines the domain types shared across the system:
// airport records, aircraft specifications, search recommendations, and the
// collaborator contracts the search engine consumes.
package airport

import (
	"context"
	"errors"
	"time"

	"github.com/unklstewy/divert-scope/pkg/geomath"
)

var (
	// ErrUnknownAircraftType is returned when an aircraft type is not in the catalog.
	ErrUnknownAircraftType = errors.New("unknown aircraft type")

	// ErrStorageUnavailable is returned when the airport store cannot be queried.
	ErrStorageUnavailable = errors.New("airport storage unavailable")
)

// Aircraft categories, ordered by weight class.
const (
	CategoryLight  = "light"
	CategoryMedium = "medium"
	CategoryHeavy  = "heavy"
	CategorySuper  = "super"
)

// Airport holds the facts about one airfield the matcher cares about.
// Records are owned by the store; the engine treats them as read-only.
type Airport struct {
	// ICAOCode is the four-letter airport identifier (e.g., "KJFK").
	// Primary key for airport records.
	ICAOCode string `json:"icao_code"`

	// Name is the display name (e.g., "John F Kennedy International")
	Name string `json:"name"`

	// Coordinates is the airport reference point
	Coordinates geomath.Coordinates `json:"coordinates"`

	// ElevationFt is field elevation in feet MSL
	ElevationFt int `json:"elevation_ft"`

	// LongestRunwayFt is the length of the longest runway in feet.
	// Zero means no runway data; the store filters such records out.
	LongestRunwayFt int `json:"longest_runway_ft"`

	// RunwayWidthFt is the width of the longest runway in feet.
	// Zero means unknown; absence of data is not treated as failure.
	RunwayWidthFt int `json:"runway_width_ft"`

	// SurfaceType is a free-form surface tag (asphalt, grass, ...),
	// compared case-insensitively
	SurfaceType string `json:"surface_type"`

	// WeightCapacityLbs is the published weight bearing capacity.
	// Zero means unknown; capacity data is unreliable in source data.
	WeightCapacityLbs int `json:"weight_capacity_lbs,omitempty"`

	// ContactInfo is optional tower/FBO contact information
	ContactInfo string `json:"contact_info,omitempty"`

	// LastUpdated is when this record was last refreshed from source data
	LastUpdated time.Time `json:"last_updated"`
}

// AircraftSpecs describes one aircraft type's runway requirements.
type AircraftSpecs struct {
	// AircraftType is the catalog key (e.g., "Cessna 172")
	AircraftType string `json:"aircraft_type"`

	// MinRunwayLengthFt is the minimum runway length in feet
	MinRunwayLengthFt int `json:"min_runway_length_ft"`

	// MinRunwayWidthFt is the minimum runway width in feet
	MinRunwayWidthFt int `json:"min_runway_width_ft"`

	// MaxWeightLbs is the maximum takeoff weight in pounds
	MaxWeightLbs int `json:"max_weight_lbs"`

	// ApproachSpeedKts is the typical approach speed in knots
	ApproachSpeedKts int `json:"approach_speed_kts"`

	// Category is one of light, medium, heavy, super
	Category string `json:"category"`
}

// Recommendation is one ranked search result. It is derived per search call
// and never persisted.
type Recommendation struct {
	// Airport is the candidate airfield
	Airport *Airport `json:"airport"`

	// DistanceNM is the great-circle distance from the search point
	DistanceNM float64 `json:"distance_nm"`

	// BearingDegrees is the initial bearing toward the airport, [0, 360)
	BearingDegrees float64 `json:"bearing_degrees"`

	// CompatibilityScore is in [0, 1]; higher is a better physical match
	CompatibilityScore float64 `json:"compatibility_score"`

	// Warnings lists human-readable compatibility concerns, hard and soft.
	// Empty means the airport is fully compatible.
	Warnings []string `json:"warnings"`

	// EstimatedFlightTimeMinutes is a rough cruise-speed flight time
	EstimatedFlightTimeMinutes int `json:"estimated_flight_time_minutes"`
}

// Compatible reports whether the recommendation carries no warnings at all.
func (r Recommendation) Compatible() bool {
	return len(r.Warnings) == 0
}

// Store is the airport storage contract the search engine consumes.
type Store interface {
	// QueryWithinRadius returns airports within radiusNM of center, ordered
	// by increasing distance, capped at 100 results, excluding records with
	// no runway length data.
	QueryWithinRadius(ctx context.Context, center geomath.Coordinates, radiusNM float64) ([]Airport, error)
}

// Catalog is the aircraft specification catalog contract.
type Catalog interface {
	// GetSpecs returns the specs for an exact aircraft type string.
	// The boolean reports whether the type exists.
	GetSpecs(ctx context.Context, aircraftType string) (AircraftSpecs, bool, error)

	// ListTypes returns all known aircraft type names.
	ListTypes(ctx context.Context) ([]string, error)
}

// Geocoder turns a free-form address into coordinates.
type Geocoder interface {
	// Geocode resolves an address. The boolean reports whether a match was
	// found; an error indicates a transport or parse failure.
	Geocode(ctx context.Context, address string) (geomath.Coordinates, bool, error)
}
