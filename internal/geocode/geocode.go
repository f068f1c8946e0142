// Package geocode resolves free-text addresses to coordinates. The core never
// parses addresses; this is a boundary collaborator.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Geocoding errors.
var (
	ErrNotFound    = errors.New("address not found")
	ErrUnavailable = errors.New("geocoding provider unavailable")
)

// Result is a resolved location.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Provider resolves free-text addresses.
type Provider interface {
	// Geocode resolves an address to coordinates and a display name.
	Geocode(ctx context.Context, address string) (Result, error)

	// Name returns the provider name for logging.
	Name() string
}

// CachedProvider decorates a Provider with a TTL cache, so repeated lookups
// of the same address skip the upstream call.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cachedResult
}

type cachedResult struct {
	result    Result
	expiresAt time.Time
}

// NewCachedProvider wraps a provider with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cachedResult),
	}
}

// Geocode serves from cache when fresh, otherwise delegates.
func (c *CachedProvider) Geocode(ctx context.Context, address string) (Result, error) {
	key := strings.ToLower(strings.TrimSpace(address))

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok && time.Now().Before(cached.expiresAt) {
		c.mu.Unlock()
		return cached.result, nil
	}
	c.mu.Unlock()

	result, err := c.inner.Geocode(ctx, address)
	if err != nil {
		// Not-found responses are not cached so transient misses can retry.
		return Result{}, err
	}

	c.mu.Lock()
	c.entries[key] = cachedResult{result: result, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return result, nil
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string {
	return fmt.Sprintf("cached(%s)", c.inner.Name())
}
