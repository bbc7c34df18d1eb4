package ourairports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/geomath"
)

// runway is one row of runways.csv reduced to the fields the matcher uses.
type runway struct {
	LengthFt int
	WidthFt  int
	Surface  string
}

// surfaceTags normalizes the dataset's ad-hoc surface codes to the tags the
// scoring table understands. Unmapped codes pass through lowercased.
var surfaceTags = map[string]string{
	"asp":   "asphalt",
	"asph":  "asphalt",
	"con":   "concrete",
	"conc":  "concrete",
	"pem":   "concrete", // partially concrete/asphalt
	"turf":  "grass",
	"grs":   "grass",
	"grass": "grass",
	"grv":   "gravel",
	"gvl":   "gravel",
	"dirt":  "dirt",
	"":      "unknown",
}

// NormalizeSurface maps an OurAirports surface code to a canonical tag.
func NormalizeSurface(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if tag, ok := surfaceTags[normalized]; ok {
		return tag
	}
	return normalized
}

// parseAirports reads airports.csv rows into Airport records with placeholder
// runway data (filled in by mergeRunways). Rows with missing identifiers or
// coordinates, invalid coordinates, or unwanted types are skipped, never
// fatal: the dataset always contains some noise.
func parseAirports(data []byte, wantedTypes map[string]bool) ([]airport.Airport, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)

	required := []string{"ident", "type", "name", "latitude_deg", "longitude_deg", "elevation_ft"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("airports.csv missing column %q", name)
		}
	}

	now := time.Now().UTC()
	var airports []airport.Airport
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		if !wantedTypes[field(row, col, "type")] {
			continue
		}

		ident := field(row, col, "ident")
		if ident == "" {
			continue
		}

		lat, err1 := strconv.ParseFloat(field(row, col, "latitude_deg"), 64)
		lon, err2 := strconv.ParseFloat(field(row, col, "longitude_deg"), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		coords, err := geomath.NewCoordinates(lat, lon)
		if err != nil {
			continue
		}

		airports = append(airports, airport.Airport{
			ICAOCode:    ident,
			Name:        field(row, col, "name"),
			Coordinates: coords,
			ElevationFt: safeInt(field(row, col, "elevation_ft")),
			SurfaceType: "unknown",
			LastUpdated: now,
		})
	}

	return airports, nil
}

// parseRunways reads runways.csv into a map of airport ident to runways.
func parseRunways(data []byte) (map[string][]runway, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)

	required := []string{"airport_ident", "length_ft", "width_ft", "surface"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("runways.csv missing column %q", name)
		}
	}

	runways := make(map[string][]runway)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		ident := field(row, col, "airport_ident")
		if ident == "" {
			continue
		}

		runways[ident] = append(runways[ident], runway{
			LengthFt: safeInt(field(row, col, "length_ft")),
			WidthFt:  safeInt(field(row, col, "width_ft")),
			Surface:  NormalizeSurface(field(row, col, "surface")),
		})
	}

	return runways, nil
}

// mergeRunways attaches each airport's longest runway and drops airports with
// no usable runway data.
func mergeRunways(airports []airport.Airport, runways map[string][]runway) []airport.Airport {
	merged := make([]airport.Airport, 0, len(airports))

	for _, apt := range airports {
		rws, ok := runways[apt.ICAOCode]
		if !ok || len(rws) == 0 {
			continue
		}

		longest := rws[0]
		for _, rw := range rws[1:] {
			if rw.LengthFt > longest.LengthFt {
				longest = rw
			}
		}

		if longest.LengthFt <= MinRunwayLengthFt {
			continue
		}

		apt.LongestRunwayFt = longest.LengthFt
		apt.RunwayWidthFt = longest.WidthFt
		apt.SurfaceType = longest.Surface
		merged = append(merged, apt)
	}

	return merged
}

// columnIndex maps header names to column positions.
func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

// field returns the named column of a row, or "" when the row is short.
func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// safeInt converts a CSV numeric field to int, tolerating decimals and
// returning 0 for anything unparseable.
func safeInt(s string) int {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
