package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/unklstewy/divert-scope/internal/db"
	"github.com/unklstewy/divert-scope/pkg/cache"
	"github.com/unklstewy/divert-scope/pkg/config"
	"github.com/unklstewy/divert-scope/pkg/finder"
	"github.com/unklstewy/divert-scope/pkg/geocode"
	"github.com/unklstewy/divert-scope/pkg/geomath"
)

// Diversion Airport Finder CLI
// Runs a one-off search against the local database and prints ranked results.

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	location := flag.String("location", "", "Search location: \"lat,lon\" or a place name")
	aircraftType := flag.String("aircraft", "", "Aircraft type (e.g. \"Cessna 172\")")
	radiusNM := flag.Float64("radius", 0, "Maximum search distance in nautical miles (default 100)")
	listTypes := flag.Bool("list-aircraft", false, "List supported aircraft types and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	airportRepo := db.NewAirportRepository(database)
	aircraftRepo := db.NewAircraftRepository(database)

	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:           cfg.Geocoding.BaseURL,
		RequestsPerSecond: cfg.Geocoding.RequestsPerSecond,
	})
	geocodeCache := cache.New[geomath.Coordinates](30 * time.Minute)
	resolver := finder.NewResolver(geocoder, geocodeCache)
	searchEngine := finder.NewFinder(airportRepo, aircraftRepo, resolver, finder.Caches{})

	if *listTypes {
		types, err := searchEngine.SupportedAircraftTypes(ctx)
		if err != nil {
			log.Fatalf("Failed to list aircraft types: %v", err)
		}
		fmt.Println("Supported aircraft types:")
		for _, t := range types {
			fmt.Printf("  %s\n", t)
		}
		return
	}

	if *location == "" || *aircraftType == "" {
		fmt.Fprintln(os.Stderr, "Both -location and -aircraft are required")
		flag.Usage()
		os.Exit(1)
	}

	result, err := searchEngine.Find(ctx, *location, *aircraftType, *radiusNM)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("Search center: %s (radius %.0fnm)\n", result.Center.String(), result.RadiusNM)
	fmt.Printf("Aircraft: %s\n\n", *aircraftType)

	if len(result.Recommendations) == 0 {
		fmt.Println("No airports found within range.")
		return
	}

	fmt.Printf("%-6s %-32s %8s %8s %7s %7s  %s\n",
		"ICAO", "NAME", "DIST", "BRG", "SCORE", "ETE", "WARNINGS")

	for _, rec := range result.Recommendations {
		warnings := "-"
		if len(rec.Warnings) > 0 {
			warnings = strings.Join(rec.Warnings, "; ")
		}

		name := rec.Airport.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}

		fmt.Printf("%-6s %-32s %6.1fnm %6.0f° %7.2f %5dmin  %s\n",
			rec.Airport.ICAOCode,
			name,
			rec.DistanceNM,
			rec.BearingDegrees,
			rec.CompatibilityScore,
			rec.EstimatedFlightTimeMinutes,
			warnings,
		)
	}

	fmt.Printf("\n%d airports found, %d fully compatible\n",
		len(result.Recommendations), result.CompatibleCount())
}
