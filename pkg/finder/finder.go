package finder

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/cache"
	"github.com/unklstewy/divert-scope/pkg/geomath"
	"github.com/unklstewy/divert-scope/pkg/matcher"
)

const (
	// DefaultMaxDistanceNM is the search radius used when the caller passes
	// zero or a negative radius.
	DefaultMaxDistanceNM = 100.0

	// ExpansionThresholdNM bounds the radius-expansion fallback: a search
	// radius below this threshold doubles when no fully compatible airport
	// is found. The comparison happens before doubling, so a 150 nm request
	// still expands once to 300 nm.
	ExpansionThresholdNM = 200.0
)

// Result is the outcome of one search call.
type Result struct {
	// Recommendations are ranked ascending by (has-warnings, distance):
	// every fully compatible airport precedes every airport with warnings,
	// and nearer airports sort first within each group.
	Recommendations []airport.Recommendation `json:"recommendations"`

	// Center is the resolved search point
	Center geomath.Coordinates `json:"center"`

	// RadiusNM is the radius the result set was actually computed at,
	// after any expansion
	RadiusNM float64 `json:"radius_nm"`
}

// CompatibleCount returns the number of zero-warning recommendations.
func (r *Result) CompatibleCount() int {
	n := 0
	for _, rec := range r.Recommendations {
		if rec.Compatible() {
			n++
		}
	}
	return n
}

// Caches bundles the cache instances the finder consults. Any field may be
// nil to disable that cache; the finder itself never constructs caches, the
// composition root owns them.
type Caches struct {
	// Search holds completed search results (short TTL: airport data and
	// requested radii change)
	Search *cache.Cache[*Result]

	// Specs holds aircraft catalog lookups (long TTL: specs rarely change)
	Specs *cache.Cache[airport.AircraftSpecs]
}

// Finder orchestrates a search: resolve the location, look up the aircraft,
// fetch candidates from the store, evaluate each one, rank, and expand the
// radius when nothing fully compatible turns up.
//
// A Finder is safe for concurrent use. A single search runs synchronously
// end to end; its radius expansion is sequential within one call.
type Finder struct {
	store    airport.Store
	catalog  airport.Catalog
	resolver *Resolver
	caches   Caches
}

// NewFinder creates a search engine over the given collaborators.
func NewFinder(store airport.Store, catalog airport.Catalog, resolver *Resolver, caches Caches) *Finder {
	return &Finder{
		store:    store,
		catalog:  catalog,
		resolver: resolver,
		caches:   caches,
	}
}

// Find locates airports near a location that can accommodate the given
// aircraft type, ranked by compatibility group and distance.
//
// location is either a "lat,lon" pair or a free-form address. maxDistanceNM
// of zero or less selects DefaultMaxDistanceNM. When no candidate is fully
// compatible and the radius is below ExpansionThresholdNM, the search repeats
// with the radius doubled; the earlier partial result is discarded.
//
// Failure modes: an UnresolvableLocationError when the location cannot be
// resolved, airport.ErrUnknownAircraftType when the catalog has no such
// aircraft, and airport.ErrStorageUnavailable when the store cannot be
// queried.
func (f *Finder) Find(ctx context.Context, location, aircraftType string, maxDistanceNM float64) (*Result, error) {
	if maxDistanceNM <= 0 {
		maxDistanceNM = DefaultMaxDistanceNM
	}

	key := cache.SearchKey(location, aircraftType, maxDistanceNM)
	if f.caches.Search != nil {
		if res, ok := f.caches.Search.Get(key); ok {
			return res, nil
		}
	}

	center, err := f.resolver.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	specs, err := f.aircraftSpecs(ctx, aircraftType)
	if err != nil {
		return nil, err
	}

	radius := maxDistanceNM
	var recs []airport.Recommendation
	for {
		recs, err = f.searchOnce(ctx, center, specs, radius)
		if err != nil {
			return nil, err
		}
		if hasCompatible(recs) || radius >= ExpansionThresholdNM {
			break
		}
		radius *= 2
	}

	res := &Result{
		Recommendations: recs,
		Center:          center,
		RadiusNM:        radius,
	}
	if f.caches.Search != nil {
		f.caches.Search.Set(key, res)
	}
	return res, nil
}

// AircraftRequirements returns the catalog specs for an aircraft type.
func (f *Finder) AircraftRequirements(ctx context.Context, aircraftType string) (airport.AircraftSpecs, error) {
	return f.aircraftSpecs(ctx, aircraftType)
}

// SupportedAircraftTypes returns all aircraft types the catalog knows.
func (f *Finder) SupportedAircraftTypes(ctx context.Context) ([]string, error) {
	return f.catalog.ListTypes(ctx)
}

// aircraftSpecs looks up specs through the long-TTL cache.
func (f *Finder) aircraftSpecs(ctx context.Context, aircraftType string) (airport.AircraftSpecs, error) {
	if f.caches.Specs != nil {
		if specs, ok := f.caches.Specs.Get("specs:" + aircraftType); ok {
			return specs, nil
		}
	}

	specs, found, err := f.catalog.GetSpecs(ctx, aircraftType)
	if err != nil {
		return airport.AircraftSpecs{}, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if !found {
		return airport.AircraftSpecs{}, fmt.Errorf("%w: %q", airport.ErrUnknownAircraftType, aircraftType)
	}

	if f.caches.Specs != nil {
		f.caches.Specs.Set("specs:"+aircraftType, specs)
	}
	return specs, nil
}

// searchOnce evaluates all candidates within one radius and returns them
// ranked. The order of distance ties is whatever the store returned.
func (f *Finder) searchOnce(ctx context.Context, center geomath.Coordinates, specs airport.AircraftSpecs, radiusNM float64) ([]airport.Recommendation, error) {
	candidates, err := f.store.QueryWithinRadius(ctx, center, radiusNM)
	if err != nil {
		return nil, fmt.Errorf("airport query at %.0f nm failed: %w", radiusNM, err)
	}

	recs := make([]airport.Recommendation, 0, len(candidates))
	for i := range candidates {
		apt := candidates[i]

		distance := geomath.DistanceNauticalMiles(center, apt.Coordinates)
		bearing := geomath.Bearing(center, apt.Coordinates)
		_, warnings := matcher.Validate(apt, specs)
		score := matcher.Score(apt, specs)

		flightTime := 0
		if distance > 0 {
			cruise := float64(matcher.CruiseSpeedKts(specs.Category))
			flightTime = int(math.Round(distance / cruise * 60))
		}

		recs = append(recs, airport.Recommendation{
			Airport:                    &apt,
			DistanceNM:                 distance,
			BearingDegrees:             bearing,
			CompatibilityScore:         score,
			Warnings:                   warnings,
			EstimatedFlightTimeMinutes: flightTime,
		})
	}

	// Compatible airports first, then by distance. Stable so equidistant
	// candidates keep the store's ordering.
	sort.SliceStable(recs, func(i, j int) bool {
		wi, wj := len(recs[i].Warnings) > 0, len(recs[j].Warnings) > 0
		if wi != wj {
			return !wi
		}
		return recs[i].DistanceNM < recs[j].DistanceNM
	})

	return recs, nil
}

func hasCompatible(recs []airport.Recommendation) bool {
	for _, r := range recs {
		if r.Compatible() {
			return true
		}
	}
	return false
}
