// Package cache implements the Cache Layer (§4.D): a bounded TTL+LRU-by-insert
// query cache, a single-slot memory-data freshness cache, and a debouncer
// coalescing persistence writes. Grounded on the teacher's in-memory cache
// adapters (mutex-guarded maps, no external cache dependency pulled in,
// since none of the example repos reach for an external cache for
// process-local state this small).
package cache

import (
	"context"
	"regexp"
	"sync"
	"time"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

type entry struct {
	value      []byte
	insertedAt time.Time
	expiresAt  time.Time
}

// QueryCache implements ports.QueryCache: bounded by maxSize, evicting the
// oldest-by-insert entry when full (access never refreshes insertion order).
type QueryCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	order      []string // insertion order, oldest first
	maxSize    int
	defaultTTL time.Duration
}

// NewQueryCache creates an empty query cache.
func NewQueryCache(maxSize int, defaultTTL time.Duration) *QueryCache {
	return &QueryCache{
		entries:    make(map[string]*entry, maxSize),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
	}
}

// Get implements ports.QueryCache. A lookup past expiresAt removes the
// entry and returns a miss.
func (c *QueryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeLocked(key)
		return nil, false
	}
	return e.value, true
}

// Set implements ports.QueryCache, evicting the oldest entry first if the
// cache is at capacity and key is new.
func (c *QueryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &entry{value: value, insertedAt: now, expiresAt: now.Add(ttl)}
	return nil
}

// InvalidatePattern implements ports.QueryCache: pattern is a regex matched
// against every key.
func (c *QueryCache) InvalidatePattern(_ context.Context, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return apperrors.NewValidation("invalid cache invalidation pattern %q: %v", pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if re.MatchString(key) {
			c.removeLocked(key)
		}
	}
	return nil
}

// Clear implements ports.QueryCache.
func (c *QueryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry, c.maxSize)
	c.order = nil
	return nil
}

// Len implements ports.QueryCache.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// removeLocked deletes key from both the entry map and the insertion-order
// slice. Caller holds c.mu.
func (c *QueryCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
