package services

import (
	"context"
	"testing"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	domainsvc "github.com/danja/semem-go/domain/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraphStore struct {
	interactions []*entities.Interaction
	concepts     []entities.Concept
}

func (f *fakeGraphStore) SaveInteraction(ctx context.Context, interaction *entities.Interaction) error {
	f.interactions = append(f.interactions, interaction)
	return nil
}
func (f *fakeGraphStore) SaveConcept(ctx context.Context, concept entities.Concept) error {
	f.concepts = append(f.concepts, concept)
	return nil
}
func (f *fakeGraphStore) Query(ctx context.Context, sparql string) ([]byte, error)  { return nil, nil }
func (f *fakeGraphStore) Update(ctx context.Context, sparql string) error           { return nil }
func (f *fakeGraphStore) SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error {
	return nil
}
func (f *fakeGraphStore) SaveSession(ctx context.Context, session *entities.NavigationSession) error {
	return nil
}
func (f *fakeGraphStore) LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	return nil, nil
}

// syncDebouncer runs scheduled work immediately, keeping tests deterministic.
type syncDebouncer struct{}

func (syncDebouncer) Schedule(fn func(), delay time.Duration) { fn() }
func (syncDebouncer) Cancel()                                 {}

func newTestMemoryStore(dataCache ports.MemoryDataCache) (*MemoryStore, *fakeGraphStore) {
	graph := &fakeGraphStore{}
	calc := domainsvc.NewCompositeSimilarityCalculator(domainsvc.DefaultWeights(), nil)
	store := NewMemoryStore(graph, nil, nil, syncDebouncer{}, dataCache, time.Minute, calc, MemoryStoreConfig{
		ShortTermCapacity:   50,
		SimilarityThreshold: 0,
		PromotionThreshold:  2,
		DecayRate:           0,
	}, nil)
	return store, graph
}

func TestMemoryStore_FreshInteractionRanksFirstForItsOwnQuery(t *testing.T) {
	store, _ := newTestMemoryStore(nil)
	ctx := context.Background()

	emb := valueobjects.NewEmbedding([]float64{1, 0, 0})
	interaction, err := store.AddInteraction(ctx, "what is relativity", "a theory of gravity", emb, []string{"relativity"})
	require.NoError(t, err)

	results := store.RetrieveRelevant(domainsvc.Query{Embedding: emb, Concepts: map[string]bool{"relativity": true}}, 1, "")
	require.Len(t, results, 1)
	assert.Equal(t, interaction.ID, results[0].ID, "expected the freshly added interaction to rank first")
}

func TestMemoryStore_AddInteractionWritesThrough(t *testing.T) {
	store, graph := newTestMemoryStore(nil)
	ctx := context.Background()

	_, err := store.AddInteraction(ctx, "p", "r", valueobjects.NewEmbedding([]float64{1, 0}), []string{"topic"})
	require.NoError(t, err)
	assert.Len(t, graph.interactions, 1, "expected the synchronous debouncer to persist immediately")
	assert.Len(t, graph.concepts, 1, "expected one concept write-through")
}

func TestMemoryStore_CachedSnapshot_RecomputesWhenStaleOrAbsent(t *testing.T) {
	store, _ := newTestMemoryStore(nil)
	ctx := context.Background()
	store.AddInteraction(ctx, "p", "r", valueobjects.NewEmbedding([]float64{1, 0}), nil)

	snap := store.CachedSnapshot()
	assert.Len(t, snap.ShortTermMemory, 1, "expected snapshot to reflect the one added interaction")
}

func TestMemoryStore_CachedSnapshot_ServesFreshCacheWithoutRecompute(t *testing.T) {
	dataCache := newFakeDataCache()
	store, _ := newTestMemoryStore(dataCache)
	ctx := context.Background()
	store.AddInteraction(ctx, "p", "r", valueobjects.NewEmbedding([]float64{1, 0}), nil)

	first := store.CachedSnapshot()
	// Overwrite the cached snapshot directly, bypassing the store, to prove
	// the second call serves the cached copy rather than recomputing.
	staleMarker := &ports.MemoryDataSnapshot{ShortTermMemory: []string{"stale-marker"}}
	dataCache.Set(staleMarker)

	second := store.CachedSnapshot()
	require.Len(t, second.ShortTermMemory, 1, "first was %+v", first)
	assert.Equal(t, "stale-marker", second.ShortTermMemory[0], "expected a fresh cache entry to be served verbatim")
}

func TestMemoryStore_AddInteractionInvalidatesDataCache(t *testing.T) {
	dataCache := newFakeDataCache()
	store, _ := newTestMemoryStore(dataCache)
	ctx := context.Background()

	dataCache.Set(&ports.MemoryDataSnapshot{ShortTermMemory: []string{"stale"}})
	store.AddInteraction(ctx, "p", "r", valueobjects.NewEmbedding([]float64{1, 0}), nil)

	assert.False(t, dataCache.IsValid(time.Now(), time.Hour), "expected AddInteraction to invalidate the memory-data cache")
}

// fakeDataCache is a minimal, always-fresh-once-set stand-in for
// ports.MemoryDataCache, avoiding a dependency on the real clock-based
// timeout semantics under test here.
type fakeDataCache struct {
	snapshot *ports.MemoryDataSnapshot
}

func newFakeDataCache() *fakeDataCache { return &fakeDataCache{} }

func (c *fakeDataCache) Get() (*ports.MemoryDataSnapshot, bool) {
	if c.snapshot == nil {
		return nil, false
	}
	return c.snapshot, true
}
func (c *fakeDataCache) Set(snapshot *ports.MemoryDataSnapshot) { c.snapshot = snapshot }
func (c *fakeDataCache) Invalidate()                            { c.snapshot = nil }
func (c *fakeDataCache) IsValid(now time.Time, timeout time.Duration) bool {
	return c.snapshot != nil
}
