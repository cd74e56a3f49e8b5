package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/entities"
	domainsvc "github.com/danja/semem-go/domain/services"
	"github.com/danja/semem-go/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errFake = errors.New("provider down")

type fakeEmbeddingProvider struct {
	dim int
	err error
}

func (f *fakeEmbeddingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float64, f.dim)
	vec[0] = 1
	return vec, nil
}
func (f *fakeEmbeddingProvider) Dimension() int { return f.dim }

type fakeChat struct{ response string }

func (f *fakeChat) GenerateResponse(ctx context.Context, prompt string, context []string) (string, error) {
	return f.response, nil
}

type fakeGraph struct {
	savedConcepts     []entities.Concept
	savedInteractions []*entities.Interaction
}

func (f *fakeGraph) SaveInteraction(ctx context.Context, interaction *entities.Interaction) error {
	f.savedInteractions = append(f.savedInteractions, interaction)
	return nil
}
func (f *fakeGraph) SaveConcept(ctx context.Context, concept entities.Concept) error {
	f.savedConcepts = append(f.savedConcepts, concept)
	return nil
}
func (f *fakeGraph) Query(ctx context.Context, sparql string) ([]byte, error) { return nil, nil }
func (f *fakeGraph) Update(ctx context.Context, sparql string) error          { return nil }
func (f *fakeGraph) SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error {
	return nil
}
func (f *fakeGraph) SaveSession(ctx context.Context, session *entities.NavigationSession) error {
	return nil
}
func (f *fakeGraph) LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	return nil, nil
}

type syncDebouncer struct{}

func (syncDebouncer) Schedule(fn func(), delay time.Duration) { fn() }
func (syncDebouncer) Cancel()                                 {}

func newTestEmbeddingService(t *testing.T, providerErr error) *services.EmbeddingService {
	t.Helper()
	svc, err := services.NewEmbeddingService(&fakeEmbeddingProvider{dim: 3, err: providerErr}, resilience.New(resilience.DefaultConfig("test"), nil), 3)
	require.NoError(t, err, "constructing embedding service")
	return svc
}

func newTestMemoryStore(graph ports.GraphStore) *services.MemoryStore {
	calc := domainsvc.NewCompositeSimilarityCalculator(domainsvc.DefaultWeights(), nil)
	return services.NewMemoryStore(graph, nil, nil, syncDebouncer{}, nil, 0, calc, services.MemoryStoreConfig{}, nil)
}

func TestTellHandler_RejectsEmptyContent(t *testing.T) {
	h := NewTellHandler(nil, nil, nil, nil, nil)
	result := h.Handle(context.Background(), TellCommand{Content: "", Type: ContentFact})
	assert.False(t, result.Success, "expected empty content to fail validation")
}

func TestTellHandler_ConceptTypeStoresDirectly(t *testing.T) {
	graph := &fakeGraph{}
	h := NewTellHandler(nil, nil, nil, graph, nil)

	result := h.Handle(context.Background(), TellCommand{Content: "Quantum Entanglement", Type: ContentConcept})
	require.True(t, result.Success, "expected a successful concept tell, got %+v", result)
	assert.Len(t, result.IDs, 1)
	assert.Len(t, graph.savedConcepts, 1, "expected the concept to be persisted directly")
}

func TestTellHandler_DocumentContentEmbedsExtractsAndStores(t *testing.T) {
	graph := &fakeGraph{}
	embedding := newTestEmbeddingService(t, nil)
	extractor := services.NewConceptExtractor(&fakeChat{response: `["einstein"]`}, zap.NewNop())
	memory := newTestMemoryStore(graph)

	h := NewTellHandler(embedding, extractor, memory, graph, nil)
	result := h.Handle(context.Background(), TellCommand{Content: "Einstein developed relativity", Type: ContentDocument})

	require.True(t, result.Success, "expected a successful document tell, got %+v", result)
	assert.Len(t, result.IDs, 1)
	assert.Len(t, graph.savedInteractions, 1, "expected one interaction write-through")
}

func TestTellHandler_EmbeddingFailureStillSucceedsWithPendingEmbedding(t *testing.T) {
	graph := &fakeGraph{}
	embedding := newTestEmbeddingService(t, errors.New("provider down"))
	memory := newTestMemoryStore(graph)

	h := NewTellHandler(embedding, nil, memory, graph, nil)
	result := h.Handle(context.Background(), TellCommand{Content: "some text", Type: ContentFact})

	assert.True(t, result.Success, "expected tell to succeed with a pending embedding when the provider fails, got %+v", result)
}

func TestTellHandler_RejectsUnsupportedContentType(t *testing.T) {
	h := NewTellHandler(nil, nil, nil, nil, nil)
	result := h.Handle(context.Background(), TellCommand{Content: "x", Type: "bogus"})
	assert.False(t, result.Success, "expected an unsupported content type to fail validation")
}
