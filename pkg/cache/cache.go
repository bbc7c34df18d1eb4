// Package cache provides a thread-safe in-memory key/value cache with
// per-entry TTL expiry.
//
// The cache is intentionally not an eviction engine: there is no size bound
// and no LRU policy. Entries disappear when they expire, when they are
// deleted, or when a cleanup pass removes them. Reads self-heal, so the
// periodic cleanup is an optimization rather than a correctness requirement.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// entry pairs a cached value with its absolute expiry instant.
// The pair is always written and read together under the cache lock.
type entry[V any] struct {
	value  V
	expiry time.Time
}

// Cache is a thread-safe TTL cache mapping string keys to values of type V.
// All methods are safe for concurrent use from multiple goroutines; a single
// mutex guards the backing map.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	defaultTTL time.Duration

	// now is swappable for tests
	now func() time.Time
}

// New creates a cache whose Set method applies defaultTTL.
func New[V any](defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the cached value for key if the current time is strictly
// before its expiry. An expired entry behaves as absent and is evicted.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiry) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's default TTL, unconditionally
// overwriting any existing entry.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiry: c.now().Add(ttl)}
}

// Delete removes key from the cache and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear drops all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the current number of entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CleanupExpired removes all entries whose expiry has passed and returns the
// number removed. Intended for periodic maintenance; Get already treats
// expired entries as absent.
func (c *Cache[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// GeocodeKey builds the cache key for a geocoding lookup. Keys are
// case-insensitive on the address so "Boston" and " boston " collide.
func GeocodeKey(address string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(address))
}

// SearchKey builds the cache key for a completed airport search. It is a
// deterministic function of the normalized location, the aircraft type and
// the requested radius, so identical requests collide and distinct requests
// cannot.
func SearchKey(location, aircraftType string, radiusNM float64) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	return fmt.Sprintf("search:%s:%s:%g", loc, aircraftType, radiusNM)
}
