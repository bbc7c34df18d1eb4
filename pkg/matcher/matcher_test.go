package matcher

import (
	"math"
	"strings"
	"testing"

	"github.com/unklstewy/divert-scope/pkg/airport"
)

func cessna172() airport.AircraftSpecs {
	return airport.AircraftSpecs{
		AircraftType:      "Cessna 172",
		MinRunwayLengthFt: 1200,
		MinRunwayWidthFt:  50,
		MaxWeightLbs:      2550,
		ApproachSpeedKts:  65,
		Category:          airport.CategoryLight,
	}
}

func boeing777() airport.AircraftSpecs {
	return airport.AircraftSpecs{
		AircraftType:      "Boeing 777-300ER",
		MinRunwayLengthFt: 9800,
		MinRunwayWidthFt:  150,
		MaxWeightLbs:      775000,
		ApproachSpeedKts:  155,
		Category:          airport.CategoryHeavy,
	}
}

// TestValidate tests the hard and soft compatibility checks.
func TestValidate(t *testing.T) {
	t.Run("Fully compatible airport", func(t *testing.T) {
		apt := airport.Airport{
			ICAOCode:        "KTST",
			LongestRunwayFt: 3000,
			RunwayWidthFt:   75,
			SurfaceType:     "asphalt",
		}
		compatible, warnings := Validate(apt, cessna172())
		if !compatible {
			t.Error("Expected compatible")
		}
		if len(warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", warnings)
		}
	})

	t.Run("Runway too short is a hard failure", func(t *testing.T) {
		apt := airport.Airport{
			ICAOCode:        "KTST",
			LongestRunwayFt: 1000,
			RunwayWidthFt:   75,
			SurfaceType:     "asphalt",
		}
		compatible, warnings := Validate(apt, cessna172())
		if compatible {
			t.Error("Expected incompatible")
		}
		if len(warnings) == 0 {
			t.Fatal("Expected at least one warning")
		}
		if !strings.Contains(warnings[0], "1000ft") || !strings.Contains(warnings[0], "1200ft") {
			t.Errorf("Expected warning naming both lengths, got %q", warnings[0])
		}
	})

	t.Run("Width tolerance of 5 ft", func(t *testing.T) {
		// 46 ft against a 50 ft requirement is within tolerance
		apt := airport.Airport{LongestRunwayFt: 3000, RunwayWidthFt: 46, SurfaceType: "asphalt"}
		if compatible, warnings := Validate(apt, cessna172()); !compatible || len(warnings) != 0 {
			t.Errorf("Expected compatible within tolerance, got compatible=%v warnings=%v", compatible, warnings)
		}

		// 44 ft is beyond the 5 ft tolerance
		apt.RunwayWidthFt = 44
		if compatible, _ := Validate(apt, cessna172()); compatible {
			t.Error("Expected incompatible beyond tolerance")
		}
	})

	t.Run("Unknown width is not a failure", func(t *testing.T) {
		apt := airport.Airport{LongestRunwayFt: 3000, RunwayWidthFt: 0, SurfaceType: "asphalt"}
		if compatible, warnings := Validate(apt, cessna172()); !compatible || len(warnings) != 0 {
			t.Errorf("Expected compatible with unknown width, got compatible=%v warnings=%v", compatible, warnings)
		}
	})

	t.Run("Weight capacity is a soft warning", func(t *testing.T) {
		apt := airport.Airport{
			LongestRunwayFt:   12000,
			RunwayWidthFt:     200,
			SurfaceType:       "concrete",
			WeightCapacityLbs: 500000,
		}
		compatible, warnings := Validate(apt, boeing777())
		if !compatible {
			t.Error("Expected weight issue to stay compatible")
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Weight capacity") {
			t.Errorf("Expected one weight warning, got %v", warnings)
		}
	})

	t.Run("Soft surface warns for heavy aircraft only", func(t *testing.T) {
		apt := airport.Airport{
			LongestRunwayFt: 12000,
			RunwayWidthFt:   200,
			SurfaceType:     "Grass", // case-insensitive
		}
		compatible, warnings := Validate(apt, boeing777())
		if !compatible {
			t.Error("Expected soft surface to stay compatible")
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Soft surface") {
			t.Errorf("Expected one surface warning, got %v", warnings)
		}

		// Light aircraft on grass draws no warning
		apt.LongestRunwayFt = 3000
		apt.RunwayWidthFt = 75
		if _, warnings := Validate(apt, cessna172()); len(warnings) != 0 {
			t.Errorf("Expected no warnings for light aircraft on grass, got %v", warnings)
		}
	})

	t.Run("Short and narrow stacks multiple warnings", func(t *testing.T) {
		apt := airport.Airport{LongestRunwayFt: 800, RunwayWidthFt: 30, SurfaceType: "asphalt"}
		compatible, warnings := Validate(apt, cessna172())
		if compatible {
			t.Error("Expected incompatible")
		}
		if len(warnings) != 2 {
			t.Errorf("Expected 2 warnings, got %v", warnings)
		}
	})
}

// TestScore tests the compatibility scoring curve.
func TestScore(t *testing.T) {
	specs := cessna172() // min runway 1200 ft

	tests := []struct {
		name    string
		runway  int
		surface string
		want    float64
	}{
		{"Insufficient length is the raw ratio", 600, "asphalt", 0.5},
		{"Exactly sufficient starts the ramp at 0.8", 1200, "asphalt", 0.8},
		{"Midway up the ramp", 1500, "asphalt", 0.9},
		{"Ramp tops out at 150%", 1800, "asphalt", 1.0},
		{"No bonus beyond 150%", 5000, "asphalt", 1.0},
		{"Grass multiplier", 1800, "grass", 0.7},
		{"Gravel multiplier", 1800, "gravel", 0.6},
		{"Dirt multiplier", 1800, "dirt", 0.5},
		{"Unknown surface multiplier", 1800, "unknown", 0.8},
		{"Unrecognized surface multiplier", 1800, "lava", 0.8},
		{"Case-insensitive surface", 1800, "ASPHALT", 1.0},
		{"Short grass compounds penalties", 600, "grass", 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apt := airport.Airport{LongestRunwayFt: tt.runway, SurfaceType: tt.surface}
			got := Score(apt, specs)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("Always in [0, 1]", func(t *testing.T) {
		for _, runway := range []int{0, 100, 1200, 1800, 100000} {
			for surface := range map[string]bool{"asphalt": true, "grass": true, "lava": true} {
				apt := airport.Airport{LongestRunwayFt: runway, SurfaceType: surface}
				s := Score(apt, specs)
				if s < 0 || s > 1 {
					t.Errorf("Score(%d, %s) = %v, outside [0, 1]", runway, surface, s)
				}
			}
		}
	})

	t.Run("Longer runway scores strictly higher below the cap", func(t *testing.T) {
		grass1000 := airport.Airport{LongestRunwayFt: 1000, SurfaceType: "grass"}
		grass1400 := airport.Airport{LongestRunwayFt: 1400, SurfaceType: "grass"}
		if Score(grass1000, specs) >= Score(grass1400, specs) {
			t.Error("Expected 1400 ft runway to outscore 1000 ft runway")
		}
	})
}

// TestCruiseSpeedKts tests the category speed table.
func TestCruiseSpeedKts(t *testing.T) {
	tests := []struct {
		category string
		want     int
	}{
		{airport.CategoryLight, 120},
		{airport.CategoryMedium, 200},
		{airport.CategoryHeavy, 250},
		{airport.CategorySuper, 280},
		{"experimental", 180},
		{"", 180},
	}

	for _, tt := range tests {
		if got := CruiseSpeedKts(tt.category); got != tt.want {
			t.Errorf("CruiseSpeedKts(%q) = %d, want %d", tt.category, got, tt.want)
		}
	}
}
