// Package api exposes the diversion airport search engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unklstewy/divert-scope/internal/db"
	"github.com/unklstewy/divert-scope/pkg/airport"
	"github.com/unklstewy/divert-scope/pkg/finder"
)

// Version is reported by the status endpoint.
const Version = "0.1.0"

// AirportDetails is the read-only airport lookup contract for the details
// endpoint. *db.AirportRepository satisfies it.
type AirportDetails interface {
	GetByICAO(ctx context.Context, icao string) (*airport.Airport, error)
	GetDataStatus(ctx context.Context) (db.DataStatus, error)
}

// HealthChecker reports whether the backing storage is reachable.
type HealthChecker func() bool

// Server holds the HTTP router and its dependencies.
type Server struct {
	router   *chi.Mux
	finder   *finder.Finder
	airports AirportDetails
	healthy  HealthChecker
}

// NewServer wires the search engine and airport store into a chi router.
// healthy may be nil, in which case the health endpoint always reports ok.
func NewServer(f *finder.Finder, airports AirportDetails, healthy HealthChecker) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		finder:   f,
		airports: airports,
		healthy:  healthy,
	}
	s.setupRoutes()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/aircraft", s.handleGetAircraftTypes)
		r.Get("/airport/{icao}", s.handleGetAirport)
		r.Get("/status", s.handleGetStatus)
	})

	r.Get("/health", s.handleHealth)
}

// searchRequest is the POST /api/search request body.
type searchRequest struct {
	Location      string  `json:"location"`
	AircraftType  string  `json:"aircraft_type"`
	MaxDistanceNM float64 `json:"max_distance_nm"`
}

// searchResponse is the POST /api/search success body.
type searchResponse struct {
	Recommendations []airport.Recommendation `json:"recommendations"`
	SearchLocation  searchLocation           `json:"search_location"`
	AircraftType    string                   `json:"aircraft_type"`
	SearchRadiusNM  float64                  `json:"search_radius_nm"`
	TotalFound      int                      `json:"total_found"`
	CompatibleCount int                      `json:"compatible_count"`
}

// searchLocation echoes the resolved center alongside the raw input.
type searchLocation struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	OriginalInput string  `json:"original_input"`
}

// errorResponse is the JSON error body shared by all endpoints.
type errorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// handleSearch runs a diversion airport search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	result, err := s.finder.Find(r.Context(), req.Location, req.AircraftType, req.MaxDistanceNM)
	if err != nil {
		s.respondSearchError(w, req, err)
		return
	}

	recommendations := result.Recommendations
	if recommendations == nil {
		recommendations = []airport.Recommendation{}
	}

	respondJSON(w, http.StatusOK, searchResponse{
		Recommendations: recommendations,
		SearchLocation: searchLocation{
			Latitude:      result.Center.Latitude,
			Longitude:     result.Center.Longitude,
			OriginalInput: req.Location,
		},
		AircraftType:    req.AircraftType,
		SearchRadiusNM:  result.RadiusNM,
		TotalFound:      len(recommendations),
		CompatibleCount: result.CompatibleCount(),
	})
}

// respondSearchError maps search failures to HTTP error responses.
func (s *Server) respondSearchError(w http.ResponseWriter, req searchRequest, err error) {
	switch {
	case finder.IsUnresolvableLocation(err):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid_location",
			Message: err.Error(),
			Details: map[string]interface{}{"location": req.Location},
		})
	case errors.Is(err, airport.ErrUnknownAircraftType):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid_aircraft",
			Message: err.Error(),
			Details: map[string]interface{}{"aircraft_type": req.AircraftType},
		})
	default:
		log.Printf("Search error for %q / %q: %v", req.Location, req.AircraftType, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "search_failed",
			Message: "Failed to search for airports",
		})
	}
}

// handleGetAircraftTypes lists the supported aircraft types.
func (s *Server) handleGetAircraftTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.finder.SupportedAircraftTypes(r.Context())
	if err != nil {
		log.Printf("Failed to list aircraft types: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "catalog_failed",
			Message: "Failed to retrieve aircraft types",
		})
		return
	}

	if types == nil {
		types = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"aircraft_types": types,
		"total_count":    len(types),
	})
}

// handleGetAirport returns the stored record for one airport.
func (s *Server) handleGetAirport(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))

	apt, err := s.airports.GetByICAO(r.Context(), icao)
	if err != nil {
		log.Printf("Failed to get airport %s: %v", icao, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "lookup_failed",
			Message: "Failed to retrieve airport details",
		})
		return
	}

	if apt == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: "Airport " + icao + " not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, apt)
}

// handleGetStatus reports dataset freshness and service version.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.airports.GetDataStatus(r.Context())
	if err != nil {
		log.Printf("Failed to get data status: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "status_failed",
			Message: "Failed to retrieve system status",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "operational",
		"data":    status,
		"version": Version,
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.healthy != nil && !s.healthy() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
