// Package finder implements the airport search engine: location resolution,
// candidate evaluation, result ranking, and the bounded radius-expansion
// fallback when nothing compatible is found.
package finder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/cache"
	"github.com/unklstewy/divert-scope/pkg/geomath"
)

// UnresolvableLocationError is returned when a location string can neither be
// parsed as coordinates nor geocoded.
type UnresolvableLocationError struct {
	// Location is the input that failed to resolve
	Location string

	// Err is the underlying cause, nil when the geocoder simply had no match
	Err error
}

func (e *UnresolvableLocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve location %q: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("cannot resolve location %q", e.Location)
}

func (e *UnresolvableLocationError) Unwrap() error {
	return e.Err
}

// IsUnresolvableLocation reports whether err is an UnresolvableLocationError.
func IsUnresolvableLocation(err error) bool {
	var ule *UnresolvableLocationError
	return errors.As(err, &ule)
}

// Resolver turns free-form location strings into coordinates.
//
// Resolution order: a "lat,lon" string parses directly without any network
// call; anything else goes to the geocoder through a cache-aside lookup.
// A Resolver is safe for concurrent use; the geocode cache is its only
// shared mutable state.
type Resolver struct {
	geocoder airport.Geocoder

	// geocodeCache holds resolved addresses; nil disables caching
	geocodeCache *cache.Cache[geomath.Coordinates]
}

// NewResolver creates a resolver backed by the given geocoder.
// geocodeCache may be nil to disable geocode result caching.
func NewResolver(geocoder airport.Geocoder, geocodeCache *cache.Cache[geomath.Coordinates]) *Resolver {
	return &Resolver{
		geocoder:     geocoder,
		geocodeCache: geocodeCache,
	}
}

// Resolve turns a location string into coordinates.
//
// A string of exactly two comma-separated numbers is treated as "lat,lon"
// and validated directly. A numeric pair outside the valid ranges falls
// through to geocoding like any other free-form string (a street address can
// legitimately contain numbers a naive parse would misread). Everything else
// is handed to the geocoder; a no-match or transport failure surfaces as an
// UnresolvableLocationError.
func (r *Resolver) Resolve(ctx context.Context, location string) (geomath.Coordinates, error) {
	trimmed := strings.TrimSpace(location)

	if coords, ok := parseLatLon(trimmed); ok {
		return coords, nil
	}

	if trimmed == "" {
		return geomath.Coordinates{}, &UnresolvableLocationError{Location: location}
	}

	key := cache.GeocodeKey(trimmed)
	if r.geocodeCache != nil {
		if coords, ok := r.geocodeCache.Get(key); ok {
			return coords, nil
		}
	}

	coords, found, err := r.geocoder.Geocode(ctx, trimmed)
	if err != nil {
		return geomath.Coordinates{}, &UnresolvableLocationError{Location: location, Err: err}
	}
	if !found {
		return geomath.Coordinates{}, &UnresolvableLocationError{Location: location}
	}

	if r.geocodeCache != nil {
		r.geocodeCache.Set(key, coords)
	}
	return coords, nil
}

// parseLatLon attempts the direct "lat,lon" parse. It succeeds only when the
// input splits on a single comma into two floats that form valid coordinates.
func parseLatLon(s string) (geomath.Coordinates, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geomath.Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geomath.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geomath.Coordinates{}, false
	}

	coords, err := geomath.NewCoordinates(lat, lon)
	if err != nil {
		return geomath.Coordinates{}, false
	}
	return coords, true
}
