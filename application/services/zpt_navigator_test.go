package services

import (
	"context"
	"testing"
	"time"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/danja/semem-go/infrastructure/persistence/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeNavGraphStore is a GraphStore stand-in that records navigation views
// and session writes, and serves a canned SPARQL JSON results body.
type fakeNavGraphStore struct {
	fakeGraphStore
	queryBody     []byte
	queryCalls    int
	savedViews    []entities.NavigationView
	savedSessions map[string]*entities.NavigationSession
}

func newFakeNavGraphStore(body []byte) *fakeNavGraphStore {
	return &fakeNavGraphStore{queryBody: body, savedSessions: make(map[string]*entities.NavigationSession)}
}

func (f *fakeNavGraphStore) Query(ctx context.Context, sparql string) ([]byte, error) {
	f.queryCalls++
	return f.queryBody, nil
}

func (f *fakeNavGraphStore) SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error {
	f.savedViews = append(f.savedViews, view)
	return nil
}

func (f *fakeNavGraphStore) SaveSession(ctx context.Context, session *entities.NavigationSession) error {
	f.savedSessions[session.ID] = session
	return nil
}

func (f *fakeNavGraphStore) LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	if s, ok := f.savedSessions[sessionID]; ok {
		return s, nil
	}
	return nil, nil
}

type fakeQueryBuilder struct{}

func (fakeQueryBuilder) Build(params valueobjects.Params) (string, error) {
	return "SELECT ?node WHERE { ?node a <http://example.org/Thing> }", nil
}

const sampleSPARQLResults = `{"results":{"bindings":[{"node":{"value":"http://example.org/n1"},"label":{"value":"Node One"}}]}}`

func newTestNavigator(graph *fakeNavGraphStore) *ZPTNavigator {
	qc := cache.NewQueryCache(100, time.Minute)
	return NewZPTNavigator(graph, qc, fakeQueryBuilder{}, NavigatorConfig{Endpoint: "http://example.org/sparql"}, zap.NewNop())
}

func TestZPTNavigator_Navigate_CacheMissWritesProvenance(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	nav := newTestNavigator(graph)
	ctx := context.Background()

	result, err := nav.Navigate(ctx, "", valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords})
	require.NoError(t, err)
	assert.False(t, result.FromCache, "expected the first call to miss the cache")
	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "http://example.org/n1", result.Nodes[0].URI)
	assert.Len(t, graph.savedViews, 1, "expected a cache miss to write one NavigationView")
}

func TestZPTNavigator_Navigate_CacheHitBypassesProvenanceWrite(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	nav := newTestNavigator(graph)
	ctx := context.Background()
	params := valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords}

	_, err := nav.Navigate(ctx, "s1", params)
	require.NoError(t, err)
	result, err := nav.Navigate(ctx, "s1", params)
	require.NoError(t, err)

	assert.True(t, result.FromCache, "expected the second identical call to hit the cache")
	assert.Equal(t, 1, graph.queryCalls, "expected only one underlying query execution")
	assert.Len(t, graph.savedViews, 1, "expected the cache hit to bypass the NavigationView write")
}

func TestZPTNavigator_Navigate_CacheHitStillRecordsSessionHistory(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	nav := newTestNavigator(graph)
	ctx := context.Background()
	params := valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords}

	nav.Navigate(ctx, "s1", params)
	nav.Navigate(ctx, "s1", params)

	session, err := nav.InitializeSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, session.Interactions, "expected both calls to be recorded in session history even though only one hit the graph store")
}

func TestZPTNavigator_InitializeSession_RestoresExistingSessionState(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	existing := entities.NewNavigationSession("existing-id")
	existing.CurrentState = valueobjects.Params{Zoom: valueobjects.ZoomEntity, Query: "last query"}
	graph.savedSessions["existing-id"] = existing

	nav := newTestNavigator(graph)
	restored, err := nav.InitializeSession(context.Background(), "existing-id")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.ZoomEntity, restored.CurrentState.Zoom)
	assert.Equal(t, "last query", restored.CurrentState.Query, "expected restored session to carry over its last ZPT state")
}

func TestZPTNavigator_InitializeSession_UnknownIDStartsFreshSession(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	nav := newTestNavigator(graph)

	session, err := nav.InitializeSession(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "never-seen", session.ID, "expected a fresh session to keep the requested id")
	assert.Zero(t, session.Interactions, "expected a fresh session to have no recorded interactions yet")
}

func TestZPTNavigator_SweepExpired_DropsIdleSessions(t *testing.T) {
	graph := newFakeNavGraphStore([]byte(sampleSPARQLResults))
	nav := newTestNavigator(graph)
	nav.cfg.SessionTimeout = time.Millisecond

	ctx := context.Background()
	_, err := nav.Navigate(ctx, "idle-session", valueobjects.Params{Zoom: valueobjects.ZoomUnit, Tilt: valueobjects.TiltKeywords})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	swept := nav.SweepExpired()
	assert.Equal(t, 1, swept, "expected exactly one idle session to be swept")
}
