package cache

import (
	"testing"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDataCache_UnloadedIsInvalid(t *testing.T) {
	c := NewMemoryDataCache()
	assert.False(t, c.IsValid(time.Now(), time.Minute), "expected an empty cache to be invalid")
	_, ok := c.Get()
	assert.False(t, ok, "expected an empty cache to miss on Get")
}

func TestMemoryDataCache_FreshSetIsValidWithinTimeout(t *testing.T) {
	c := NewMemoryDataCache()
	c.Set(&ports.MemoryDataSnapshot{})

	assert.True(t, c.IsValid(time.Now(), time.Minute), "expected a freshly set snapshot to be valid")
	snap, ok := c.Get()
	require.True(t, ok, "expected Get to return the stored snapshot")
	assert.NotNil(t, snap)
}

func TestMemoryDataCache_StaleBeyondTimeoutIsInvalid(t *testing.T) {
	c := NewMemoryDataCache()
	c.Set(&ports.MemoryDataSnapshot{})

	assert.False(t, c.IsValid(time.Now().Add(time.Hour), time.Minute), "expected a snapshot older than the timeout to be invalid")
}

func TestMemoryDataCache_InvalidateClearsSlot(t *testing.T) {
	c := NewMemoryDataCache()
	c.Set(&ports.MemoryDataSnapshot{})
	c.Invalidate()

	assert.False(t, c.IsValid(time.Now(), time.Minute), "expected invalidation to clear the cached snapshot")
	_, ok := c.Get()
	assert.False(t, ok, "expected Get to miss after invalidation")
}
