// Package geomath provides great-circle distance and bearing calculations
// for aviation use, plus a validated geographic coordinate type.
//
// All distances are in nautical miles and all angles in decimal degrees,
// matching the units used throughout the rest of the system.
package geomath

import (
	"errors"
	"fmt"
	"math"
)

// Constants for coordinate calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// EarthRadiusNM is the Earth's mean radius in nautical miles
	EarthRadiusNM = 3440.065
)

// ErrInvalidCoordinates is returned when a latitude or longitude is outside
// its valid range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates represents a position on Earth's surface.
// Uses the WGS84 coordinate system (same as GPS).
//
// Construct values with NewCoordinates so the ranges are validated once;
// the zero value (0, 0) is a valid position in the Gulf of Guinea.
type Coordinates struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64 `json:"longitude"`
}

// NewCoordinates validates the latitude/longitude ranges and returns a
// Coordinates value. Returns an error wrapping ErrInvalidCoordinates if
// either component is out of range.
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	if latitude < -90 || latitude > 90 || math.IsNaN(latitude) {
		return Coordinates{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinates, latitude)
	}
	if longitude < -180 || longitude > 180 || math.IsNaN(longitude) {
		return Coordinates{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinates, longitude)
	}
	return Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

// String returns the coordinates in "lat,lon" form, round-trippable through
// the location resolver's direct parse.
func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
}

// ToRadians converts the coordinates to radians.
// Returns (latRad, lonRad).
func (c Coordinates) ToRadians() (float64, float64) {
	return c.Latitude * DegreesToRadians, c.Longitude * DegreesToRadians
}

// NormalizeBearing ensures a bearing is in the range [0, 360).
func NormalizeBearing(bearing float64) float64 {
	b := math.Mod(bearing, 360.0)
	if b < 0 {
		b += 360.0
	}
	return b
}

// DistanceNauticalMiles calculates the great-circle distance between two
// points using the Haversine formula.
//
// The result is symmetric in its arguments and zero exactly when the two
// points are equal.
func DistanceNauticalMiles(from, to Coordinates) float64 {
	lat1Rad, lon1Rad := from.ToRadians()
	lat2Rad, lon2Rad := to.ToRadians()

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusNM * math.Asin(math.Sqrt(h))
}

// Bearing calculates the initial bearing (forward azimuth) from one point to
// another along the great circle.
// Returns bearing in degrees [0, 360), where 0/360 = North, 90 = East,
// 180 = South, 270 = West.
//
// The bearing is undefined when from == to; 0 is returned in that degenerate
// case rather than NaN.
func Bearing(from, to Coordinates) float64 {
	if from == to {
		return 0
	}

	lat1, lon1 := from.ToRadians()
	lat2, lon2 := to.ToRadians()

	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * RadiansToDegrees

	return NormalizeBearing(bearing)
}
