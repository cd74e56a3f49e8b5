package cache

import (
	"sync"
	"time"

	"github.com/danja/semem-go/application/ports"
)

// MemoryDataCache implements ports.MemoryDataCache: a single slot holding
// the Memory Store's working-set snapshot, invalidated on any mutation that
// writes through to the graph store (§4.D).
type MemoryDataCache struct {
	mu       sync.Mutex
	snapshot *ports.MemoryDataSnapshot
}

// NewMemoryDataCache creates an empty (unloaded) memory-data cache.
func NewMemoryDataCache() *MemoryDataCache {
	return &MemoryDataCache{}
}

// Get implements ports.MemoryDataCache.
func (c *MemoryDataCache) Get() (*ports.MemoryDataSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil, false
	}
	return c.snapshot, true
}

// Set implements ports.MemoryDataCache.
func (c *MemoryDataCache) Set(snapshot *ports.MemoryDataSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot.LoadedAt = time.Now()
	c.snapshot = snapshot
}

// Invalidate implements ports.MemoryDataCache.
func (c *MemoryDataCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}

// IsValid implements ports.MemoryDataCache: loaded AND (now - lastLoaded) <
// timeout.
func (c *MemoryDataCache) IsValid(now time.Time, timeout time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return false
	}
	return now.Sub(c.snapshot.LoadedAt) < timeout
}
