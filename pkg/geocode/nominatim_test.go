package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(serverURL string) *Client {
	return NewClient(Config{
		BaseURL:           serverURL,
		RequestsPerSecond: 1000, // don't slow the test suite down
	})
}

// TestNewClient tests defaults.
func TestNewClient(t *testing.T) {
	c := NewClient(Config{})
	if c.baseURL != BaseURL {
		t.Errorf("Expected baseURL %s, got %s", BaseURL, c.baseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultTimeout, c.httpClient.Timeout)
	}
	if c.userAgent == "" {
		t.Error("Expected a default User-Agent")
	}
}

// TestGeocode tests the request/response handling.
func TestGeocode(t *testing.T) {
	t.Run("Successful match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "Boston, MA" {
				t.Errorf("Expected q=Boston, MA, got %q", got)
			}
			if got := r.URL.Query().Get("format"); got != "json" {
				t.Errorf("Expected format=json, got %q", got)
			}
			if ua := r.Header.Get("User-Agent"); ua == "" {
				t.Error("Expected a User-Agent header")
			}
			w.Write([]byte(`[{"lat":"42.3554334","lon":"-71.0605528","display_name":"Boston, Suffolk County, Massachusetts"}]`))
		}))
		defer server.Close()

		coords, found, err := testClient(server.URL).Geocode(context.Background(), "Boston, MA")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !found {
			t.Fatal("Expected a match")
		}
		if coords.Latitude != 42.3554334 || coords.Longitude != -71.0605528 {
			t.Errorf("Coordinates = %v, want (42.3554334, -71.0605528)", coords)
		}
	})

	t.Run("No match returns found=false without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, found, err := testClient(server.URL).Geocode(context.Background(), "xyzzy")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if found {
			t.Error("Expected no match")
		}
	})

	t.Run("Non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bandwidth exceeded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		if _, _, err := testClient(server.URL).Geocode(context.Background(), "Boston"); err == nil {
			t.Fatal("Expected error for 503 response")
		}
	})

	t.Run("Malformed JSON is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"`))
		}))
		defer server.Close()

		if _, _, err := testClient(server.URL).Geocode(context.Background(), "Boston"); err == nil {
			t.Fatal("Expected parse error")
		}
	})

	t.Run("Unparseable coordinate strings are an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lat":"forty-two","lon":"-71.0"}]`))
		}))
		defer server.Close()

		if _, _, err := testClient(server.URL).Geocode(context.Background(), "Boston"); err == nil {
			t.Fatal("Expected coordinate parse error")
		}
	})

	t.Run("Context cancellation aborts the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, _, err := testClient(server.URL).Geocode(ctx, "Boston"); err == nil {
			t.Fatal("Expected context deadline error")
		}
	})
}
