package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	domainsvc "github.com/danja/semem-go/domain/services"
	"github.com/danja/semem-go/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFake = errors.New("provider down")

type fakeEmbeddingProvider struct{ dim int }

func (f *fakeEmbeddingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	vec := make([]float64, f.dim)
	vec[0] = 1
	return vec, nil
}
func (f *fakeEmbeddingProvider) Dimension() int { return f.dim }

type fakeChat struct {
	response string
	err      error
}

func (f *fakeChat) GenerateResponse(ctx context.Context, prompt string, context []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeGraph struct{}

func (fakeGraph) SaveInteraction(ctx context.Context, interaction *entities.Interaction) error {
	return nil
}
func (fakeGraph) SaveConcept(ctx context.Context, concept entities.Concept) error { return nil }
func (fakeGraph) Query(ctx context.Context, sparql string) ([]byte, error)        { return nil, nil }
func (fakeGraph) Update(ctx context.Context, sparql string) error                 { return nil }
func (fakeGraph) SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error {
	return nil
}
func (fakeGraph) SaveSession(ctx context.Context, session *entities.NavigationSession) error {
	return nil
}
func (fakeGraph) LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	return nil, nil
}

type syncDebouncer struct{}

func (syncDebouncer) Schedule(fn func(), delay time.Duration) { fn() }
func (syncDebouncer) Cancel()                                 {}

func newTestAskHandler(t *testing.T, chat ports.ChatProvider) (*AskHandler, *services.MemoryStore) {
	t.Helper()
	embedding, err := services.NewEmbeddingService(&fakeEmbeddingProvider{dim: 3}, resilience.New(resilience.DefaultConfig("test"), nil), 3)
	require.NoError(t, err)
	calc := domainsvc.NewCompositeSimilarityCalculator(domainsvc.DefaultWeights(), nil)
	memory := services.NewMemoryStore(fakeGraph{}, nil, nil, syncDebouncer{}, nil, 0, calc, services.MemoryStoreConfig{SimilarityThreshold: 0}, nil)
	return NewAskHandler(embedding, memory, chat, 5, nil), memory
}

func TestAskHandler_RetrievesContextAndSynthesizesAnswer(t *testing.T) {
	handler, memory := newTestAskHandler(t, &fakeChat{response: "a synthesized answer"})
	memory.AddInteraction(context.Background(), "what is relativity", "a theory of gravity", valueobjects.NewEmbedding([]float64{1, 0, 0}), []string{"relativity"})

	result := handler.Handle(context.Background(), AskQuery{Question: "what is relativity"})
	require.True(t, result.Success, "expected a successful synthesized answer, got %+v", result)
	assert.Equal(t, "a synthesized answer", result.Answer)
	assert.Len(t, result.ResultIDs, 1, "expected one retrieved interaction id")
}

func TestAskHandler_ChatFailureFallsBackToContextJoin(t *testing.T) {
	handler, memory := newTestAskHandler(t, &fakeChat{err: errFake})
	memory.AddInteraction(context.Background(), "q", "the retrieved response", valueobjects.NewEmbedding([]float64{1, 0, 0}), nil)

	result := handler.Handle(context.Background(), AskQuery{Question: "q"})
	assert.False(t, result.Success, "expected chat failure to mark the ask unsuccessful")
	assert.Equal(t, "the retrieved response", result.Answer, "expected the fallback answer to be the joined retrieved context")
	assert.NotEmpty(t, result.Error, "expected an error message on chat failure")
}

func TestAskHandler_FoldsInZPTNodesAsContextAndCorpuscles(t *testing.T) {
	handler, _ := newTestAskHandler(t, &fakeChat{response: "ok"})

	zpt := &services.NavigateResult{Nodes: []entities.KnowledgeNode{
		{URI: "http://example.org/n1", Label: "Node One", Content: "some content"},
	}}
	result := handler.Handle(context.Background(), AskQuery{Question: "q", ZPT: zpt})

	require.Len(t, result.CorpuscleURIs, 1)
	assert.Equal(t, "http://example.org/n1", result.CorpuscleURIs[0], "expected the ZPT node's URI to be folded into corpuscles")
}
