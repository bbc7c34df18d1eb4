// Divert Scope server
// Serves the diversion airport search REST API backed by PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/unklstewy/divert-scope/internal/api"
	"github.com/unklstewy/divert-scope/internal/db"
	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/cache"
	"github.com/unklstewy/divert-scope/pkg/config"
	"github.com/unklstewy/divert-scope/pkg/finder"
	"github.com/unklstewy/divert-scope/pkg/geocode"
	"github.com/unklstewy/divert-scope/pkg/geomath"
	"github.com/unklstewy/divert-scope/pkg/ourairports"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	seedOnly   = flag.Bool("seed-only", false, "Seed aircraft catalog and exit")
)

func main() {
	flag.Parse()

	log.Println("Starting Divert Scope server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.ReconnectWithRetry(cfg.Database, 5, 1*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	if err := database.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	airportRepo := db.NewAirportRepository(database)
	aircraftRepo := db.NewAircraftRepository(database)

	if err := aircraftRepo.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed aircraft catalog: %v", err)
	}
	log.Printf("Aircraft catalog seeded (%d reference types)", len(db.ReferenceAircraft()))

	if *seedOnly {
		log.Println("Seed-only mode, exiting")
		return
	}

	// Build the cache layer from configured TTLs
	geocodeCache := cache.New[geomath.Coordinates](secondsToDuration(cfg.Cache.GeocodingTTLSeconds))
	searchCache := cache.New[*finder.Result](secondsToDuration(cfg.Cache.SearchTTLSeconds))
	specsCache := cache.New[airport.AircraftSpecs](secondsToDuration(cfg.Cache.AircraftSpecsTTLSeconds))

	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:           cfg.Geocoding.BaseURL,
		RequestsPerSecond: cfg.Geocoding.RequestsPerSecond,
	})

	resolver := finder.NewResolver(geocoder, geocodeCache)
	searchEngine := finder.NewFinder(airportRepo, aircraftRepo, resolver, finder.Caches{
		Search: searchCache,
		Specs:  specsCache,
	})

	// Refresh airport data on startup if stale or missing
	refreshAirportData(ctx, cfg, airportRepo)

	srv := api.NewServer(searchEngine, airportRepo, func() bool {
		return db.HealthCheck(database)
	})

	// Background maintenance: cache sweeps and a daily data freshness check
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err = scheduler.AddFunc("*/10 * * * *", func() {
		evicted := geocodeCache.CleanupExpired() + searchCache.CleanupExpired() + specsCache.CleanupExpired()
		if evicted > 0 {
			log.Printf("Cache sweep evicted %d expired entries", evicted)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule cache sweep: %v", err)
	}

	_, err = scheduler.AddFunc("0 3 * * *", func() {
		refreshAirportData(context.Background(), cfg, airportRepo)
	})
	if err != nil {
		log.Fatalf("Failed to schedule data refresh: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// refreshAirportData refetches the OurAirports dataset when the stored copy
// is missing or older than the configured limit.
func refreshAirportData(ctx context.Context, cfg *config.Config, repo *db.AirportRepository) {
	stale, err := repo.NeedsRefresh(ctx, cfg.AirportData.RefreshAfterDays)
	if err != nil {
		log.Printf("Failed to check data freshness: %v", err)
		return
	}
	if !stale {
		return
	}

	log.Println("Airport data is stale or missing, fetching from OurAirports...")

	client := ourairports.NewClient(ourairports.Config{
		BaseURL: cfg.AirportData.BaseURL,
	})

	airports, err := client.FetchAirports(ctx)
	if err != nil {
		log.Printf("Failed to fetch airport data: %v", err)
		return
	}

	count, err := repo.ImportAirports(ctx, airports)
	if err != nil {
		log.Printf("Failed to import airport data: %v", err)
		return
	}

	log.Printf("Imported %d airports", count)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
