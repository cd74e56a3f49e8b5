package ports

import (
	"context"
	"time"
)

// QueryCache is the TTL+LRU cache described in §4.D, sized by a maximum
// entry count and evicting the oldest-by-insert entry when full.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidatePattern(ctx context.Context, pattern string) error
	Clear(ctx context.Context) error
	Len() int
}

// MemoryDataSnapshot is the single-slot cache's payload: parallel arrays
// describing the current in-memory state of short/long-term memory.
type MemoryDataSnapshot struct {
	ShortTermMemory []string
	LongTermMemory  []string
	Embeddings      map[string][]float64
	Timestamps      map[string]time.Time
	AccessCounts    map[string]int
	ConceptsList    map[string][]string
	LoadedAt        time.Time
}

// MemoryDataCache is the single-slot freshness cache over the Memory
// Store's working state (§4.D).
type MemoryDataCache interface {
	Get() (*MemoryDataSnapshot, bool)
	Set(snapshot *MemoryDataSnapshot)
	Invalidate()
	IsValid(now time.Time, timeout time.Duration) bool
}

// Debouncer coalesces repeated persistence requests into a single delayed
// call, canceling any pending timer on a new schedule (§4.D "Debounced
// persistence").
type Debouncer interface {
	Schedule(fn func(), delay time.Duration)
	Cancel()
}
