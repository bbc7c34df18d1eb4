// Package matcher decides whether an airport can physically accommodate an
// aircraft and scores how good the match is.
//
// Both functions are pure: no state, no side effects, safe to call from any
// number of goroutines.
package matcher

import (
	"fmt"
	"strings"

	"github.com/unklstewy/divert-scope/pkg/airport"
)

// WidthToleranceFt absorbs measurement variation in published runway widths.
// A runway reported up to this many feet narrower than the aircraft's minimum
// is still accepted.
const WidthToleranceFt = 5

// DefaultCruiseSpeedKts is used for flight-time estimates when the aircraft
// category is unrecognized.
const DefaultCruiseSpeedKts = 180

// cruiseSpeeds maps aircraft category to a typical cruise speed in knots,
// used only for rough flight-time estimates.
var cruiseSpeeds = map[string]int{
	airport.CategoryLight:  120,
	airport.CategoryMedium: 200,
	airport.CategoryHeavy:  250,
	airport.CategorySuper:  280,
}

// surfaceScores maps lowercase surface tags to score multipliers.
// Unrecognized surfaces (including "unknown") score 0.8.
var surfaceScores = map[string]float64{
	"asphalt":  1.0,
	"concrete": 1.0,
	"paved":    1.0,
	"grass":    0.7,
	"gravel":   0.6,
	"dirt":     0.5,
}

// softSurfaces are the surface tags that draw a warning for heavy and super
// category aircraft. The warning never flips compatibility.
var softSurfaces = map[string]bool{
	"grass":  true,
	"dirt":   true,
	"gravel": true,
}

// Validate checks whether an airport can accommodate an aircraft.
// It returns the compatibility verdict and an ordered list of human-readable
// warnings.
//
// Runway length and (when known) runway width are hard constraints: failing
// either marks the airport incompatible. Weight capacity and soft surfaces
// only produce warnings because capacity data is unreliable and soft-field
// operations are an operational judgment call, not a physical impossibility.
func Validate(apt airport.Airport, specs airport.AircraftSpecs) (bool, []string) {
	var warnings []string
	compatible := true

	if apt.LongestRunwayFt < specs.MinRunwayLengthFt {
		compatible = false
		warnings = append(warnings, fmt.Sprintf(
			"Runway too short: %dft < %dft required",
			apt.LongestRunwayFt, specs.MinRunwayLengthFt,
		))
	}

	// Width is only checked when the airport reports one; zero means unknown.
	if apt.RunwayWidthFt != 0 && apt.RunwayWidthFt < specs.MinRunwayWidthFt-WidthToleranceFt {
		compatible = false
		warnings = append(warnings, fmt.Sprintf(
			"Runway too narrow: %dft < %dft required",
			apt.RunwayWidthFt, specs.MinRunwayWidthFt,
		))
	}

	if apt.WeightCapacityLbs != 0 && specs.MaxWeightLbs > apt.WeightCapacityLbs {
		warnings = append(warnings, fmt.Sprintf(
			"Weight capacity may be exceeded: %dlbs > %dlbs",
			specs.MaxWeightLbs, apt.WeightCapacityLbs,
		))
	}

	surface := strings.ToLower(apt.SurfaceType)
	if softSurfaces[surface] &&
		(specs.Category == airport.CategoryHeavy || specs.Category == airport.CategorySuper) {
		warnings = append(warnings, fmt.Sprintf(
			"Soft surface (%s) may not be suitable for %s aircraft",
			apt.SurfaceType, specs.Category,
		))
	}

	return compatible, warnings
}

// Score computes a compatibility score in [0, 1].
//
// The score combines a runway-length multiplier with a surface multiplier.
// Length below the requirement is penalized linearly; margin above the
// requirement ramps from 0.8 at exactly-sufficient to 1.0 at 150%, with no
// further bonus beyond that. Width and weight are deliberately excluded:
// they surface as warnings from Validate instead.
func Score(apt airport.Airport, specs airport.AircraftSpecs) float64 {
	lengthRatio := float64(apt.LongestRunwayFt) / float64(specs.MinRunwayLengthFt)

	var lengthMult float64
	switch {
	case lengthRatio < 1.0:
		lengthMult = lengthRatio
	case lengthRatio > 1.5:
		lengthMult = 1.0
	default:
		lengthMult = 0.8 + 0.2*(lengthRatio-1.0)/0.5
	}

	surfaceMult, ok := surfaceScores[strings.ToLower(apt.SurfaceType)]
	if !ok {
		surfaceMult = 0.8
	}

	score := lengthMult * surfaceMult
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// CruiseSpeedKts returns the assumed cruise speed in knots for an aircraft
// category, falling back to DefaultCruiseSpeedKts for unrecognized categories.
func CruiseSpeedKts(category string) int {
	if kts, ok := cruiseSpeeds[category]; ok {
		return kts
	}
	return DefaultCruiseSpeedKts
}
