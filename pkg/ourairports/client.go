// Package ourairports fetches bulk airport and runway data from the
// OurAirports community dataset.
//
// Data source: https://davidmegginson.github.io/ourairports-data
// The dataset is published as daily CSV snapshots; there is no API key and
// no rate limit, but the files are several tens of megabytes, so fetches use
// a generous timeout and retry on transient failures.
package ourairports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unklstewy/divert-scope/pkg/airport"
)

const (
	// BaseURL hosts the published CSV snapshots
	BaseURL = "https://davidmegginson.github.io/ourairports-data"

	// DefaultTimeout for the large CSV downloads
	DefaultTimeout = 60 * time.Second

	// MinRunwayLengthFt filters out heliports and data noise: airports whose
	// longest runway is at or below this length are dropped on import.
	MinRunwayLengthFt = 500
)

// defaultAirportTypes are the OurAirports type tags worth importing.
var defaultAirportTypes = map[string]bool{
	"small_airport":  true,
	"medium_airport": true,
	"large_airport":  true,
}

// Client fetches and parses OurAirports CSV data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// Config contains configuration for the OurAirports client.
type Config struct {
	// BaseURL overrides the published dataset location (used for testing)
	BaseURL string

	// Timeout for HTTP requests (default: 60 seconds)
	Timeout time.Duration

	// Retry controls transient-failure retry behavior
	Retry RetryConfig
}

// NewClient creates a new OurAirports client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retry: cfg.Retry,
	}
}

// FetchAirports downloads airports.csv and runways.csv, merges the longest
// runway into each airport, and returns records ready for storage. Airports
// without an identifier, without coordinates, of an unwanted type, or with a
// longest runway at or below MinRunwayLengthFt are dropped.
func (c *Client) FetchAirports(ctx context.Context) ([]airport.Airport, error) {
	airportsBody, err := RetryWithBackoff(ctx, c.retry, func() ([]byte, error) {
		return c.fetchCSV(ctx, "airports.csv")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airports.csv: %w", err)
	}

	runwaysBody, err := RetryWithBackoff(ctx, c.retry, func() ([]byte, error) {
		return c.fetchCSV(ctx, "runways.csv")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runways.csv: %w", err)
	}

	airports, err := parseAirports(airportsBody, defaultAirportTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse airports.csv: %w", err)
	}

	runways, err := parseRunways(runwaysBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse runways.csv: %w", err)
	}

	return mergeRunways(airports, runways), nil
}

// fetchCSV downloads one CSV file from the dataset.
func (c *Client) fetchCSV(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "divert-scope/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return body, nil
}
