package route

import (
	"fmt"
	"strings"
	"sync"

	"itinerary-router/internal/models"
)

// Signature builds the canonical cache key for an ordered waypoint list:
// each coordinate rounded to 4 decimal places, concatenated in order.
// Identical sequences always produce the same key.
func Signature(waypoints []models.Coordinates) string {
	parts := make([]string, len(waypoints))
	for i, wp := range waypoints {
		parts[i] = fmt.Sprintf("%.4f,%.4f", models.RoundCoordinate(wp.Lat), models.RoundCoordinate(wp.Lng))
	}
	return strings.Join(parts, ";")
}

// KV is the cache surface the controller depends on. The default is the
// unbounded in-memory MemoryCache; a bounded LRU or persistent store can
// be swapped in without touching controller logic.
type KV interface {
	Get(key string) (models.RouteResult, bool)
	Set(key string, value models.RouteResult)
}

// MemoryCache is an unbounded, session-scoped route cache. Entries are
// write-once: identical keys always map to the same computed value, so a
// second write for an existing key is dropped.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]models.RouteResult
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]models.RouteResult)}
}

func (c *MemoryCache) Get(key string) (models.RouteResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	return result, ok
}

func (c *MemoryCache) Set(key string, value models.RouteResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = value
}

// Len returns the number of cached routes
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
