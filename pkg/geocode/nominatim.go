// Package geocode provides a client for the OpenStreetMap Nominatim
// geocoding API.
//
// API Documentation: https://nominatim.org/release-docs/latest/api/Search/
// Usage policy: absolute maximum of 1 request per second and a descriptive
// User-Agent identifying the application. The client enforces both.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/unklstewy/divert-scope/pkg/geomath"
)

const (
	// BaseURL is the public Nominatim instance
	BaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second

	// defaultUserAgent identifies this application per the Nominatim usage policy
	defaultUserAgent = "divert-scope/1.0 (github.com/unklstewy/divert-scope)"
)

// Client is a rate-limited Nominatim geocoding client.
// It implements the airport.Geocoder contract and is safe for concurrent use.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// Config contains configuration for the geocoding client.
type Config struct {
	// BaseURL overrides the public Nominatim instance (used for testing
	// and self-hosted instances)
	BaseURL string

	// UserAgent overrides the default User-Agent header
	UserAgent string

	// Timeout for HTTP requests (default: 10 seconds)
	Timeout time.Duration

	// RequestsPerSecond limits the API call rate (default: 1, the public
	// instance's policy maximum)
	RequestsPerSecond float64
}

// NewClient creates a new Nominatim client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1.0
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// nominatimResult is one entry in a Nominatim search response.
// Nominatim returns coordinates as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-form address to coordinates.
// Returns found=false when the service has no match for the address;
// transport failures, non-200 statuses, and unparseable responses return an
// error.
func (c *Client) Geocode(ctx context.Context, address string) (geomath.Coordinates, bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return geomath.Coordinates{}, false, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if len(results) == 0 {
		return geomath.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("failed to parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("failed to parse longitude %q: %w", results[0].Lon, err)
	}

	coords, err := geomath.NewCoordinates(lat, lon)
	if err != nil {
		return geomath.Coordinates{}, false, fmt.Errorf("geocoder returned invalid coordinates: %w", err)
	}

	return coords, true, nil
}
