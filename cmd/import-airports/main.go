package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/unklstewy/divert-scope/internal/db"
	"github.com/unklstewy/divert-scope/pkg/config"
	"github.com/unklstewy/divert-scope/pkg/ourairports"
)

// OurAirports Data Importer
// Fetches the OurAirports dataset (airports.csv and runways.csv) and loads
// it into the local database. Safe to re-run; records are upserted.
//
// Dataset documentation: https://ourairports.com/data/

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	force := flag.Bool("force", false, "Import even if stored data is fresh")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  OurAirports Data Importer")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Connecting to database...")
	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Database connected")

	ctx := context.Background()
	if err := database.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Schema initialized")

	airportRepo := db.NewAirportRepository(database)

	if !*force {
		stale, err := airportRepo.NeedsRefresh(ctx, cfg.AirportData.RefreshAfterDays)
		if err != nil {
			log.Fatalf("Failed to check data freshness: %v", err)
		}
		if !stale {
			status, _ := airportRepo.GetDataStatus(ctx)
			log.Printf("Stored data is fresh (%d airports, %d days old), nothing to do",
				status.AirportCount, status.DataAgeDays)
			log.Println("Use -force to import anyway")
			return
		}
	}

	log.Printf("Fetching airport data from %s...", cfg.AirportData.BaseURL)
	start := time.Now()

	client := ourairports.NewClient(ourairports.Config{
		BaseURL: cfg.AirportData.BaseURL,
	})

	airports, err := client.FetchAirports(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch airport data: %v", err)
	}
	log.Printf("Fetched %d airports with runway data in %v", len(airports), time.Since(start).Round(time.Second))

	log.Println("Importing into database...")
	count, err := airportRepo.ImportAirports(ctx, airports)
	if err != nil {
		log.Fatalf("Failed to import airports: %v", err)
	}

	log.Printf("Imported %d airports in %v", count, time.Since(start).Round(time.Second))

	// Seed the aircraft catalog alongside the airport data
	aircraftRepo := db.NewAircraftRepository(database)
	if err := aircraftRepo.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed aircraft catalog: %v", err)
	}
	log.Printf("Aircraft catalog seeded (%d reference types)", len(db.ReferenceAircraft()))
}
