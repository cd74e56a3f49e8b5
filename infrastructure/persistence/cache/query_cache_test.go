package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_SetThenGetHits(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok, "expected a cache hit")
	assert.Equal(t, "v", string(got))
}

func TestQueryCache_ExpiresThenMisses(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "expected expired entry to miss")
	assert.Zero(t, c.Len(), "expected expired entry to be evicted on lookup")
}

func TestQueryCache_EvictsOldestByInsertionWhenFull(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	// accessing "a" must not refresh its insertion order
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"), 0)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "expected oldest-by-insert entry \"a\" to be evicted")
	_, ok = c.Get(ctx, "b")
	assert.True(t, ok, "expected \"b\" to survive eviction")
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok, "expected newly inserted \"c\" to be present")
	assert.Equal(t, 2, c.Len(), "expected cache to stay at capacity 2")
}

func TestQueryCache_InvalidatePatternRemovesMatchingKeys(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "zpt:session:1", []byte("a"), 0)
	c.Set(ctx, "zpt:session:2", []byte("b"), 0)
	c.Set(ctx, "memory:query:1", []byte("c"), 0)

	require.NoError(t, c.InvalidatePattern(ctx, "^zpt:"))

	_, ok := c.Get(ctx, "zpt:session:1")
	assert.False(t, ok, "expected zpt:session:1 to be invalidated")
	_, ok = c.Get(ctx, "zpt:session:2")
	assert.False(t, ok, "expected zpt:session:2 to be invalidated")
	_, ok = c.Get(ctx, "memory:query:1")
	assert.True(t, ok, "expected memory:query:1 to survive an unrelated pattern")
}

func TestQueryCache_InvalidatePatternRejectsBadRegex(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	assert.Error(t, c.InvalidatePattern(context.Background(), "("), "expected invalid regex to return an error")
}

func TestQueryCache_ClearEmptiesCache(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	ctx := context.Background()
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)

	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len(), "expected Len()=0 after Clear")
}
