package commands

import (
	"context"
	"testing"

	"github.com/danja/semem-go/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAugmentHandler_RejectsEmptyTarget(t *testing.T) {
	h := NewAugmentHandler(nil, nil, nil, nil)
	result := h.Handle(context.Background(), AugmentCommand{Target: "", Operation: AugmentConcepts})
	assert.False(t, result.Success, "expected an empty target to fail validation")
}

func TestAugmentHandler_RejectsUnsupportedOperation(t *testing.T) {
	h := NewAugmentHandler(nil, nil, nil, nil)
	result := h.Handle(context.Background(), AugmentCommand{Target: "x", Operation: "bogus"})
	assert.False(t, result.Success, "expected an unsupported operation to fail validation")
}

func TestAugmentHandler_ConceptsOperationExtractsWithoutEmbedding(t *testing.T) {
	graph := &fakeGraph{}
	extractor := services.NewConceptExtractor(&fakeChat{response: `["relativity", "einstein"]`}, zap.NewNop())
	h := NewAugmentHandler(extractor, nil, graph, nil)

	result := h.Handle(context.Background(), AugmentCommand{Target: "some text", Operation: AugmentConcepts})
	require.True(t, result.Success, "expected success, got %+v", result)
	assert.Equal(t, 2, result.TotalConcepts)
	assert.Zero(t, result.TotalEmbeddings, "expected no embeddings for the plain concepts operation")
	assert.Len(t, graph.savedConcepts, 2, "expected both concepts to be persisted")
}

func TestAugmentHandler_ConceptEmbeddingsOperationEmbedsEach(t *testing.T) {
	graph := &fakeGraph{}
	extractor := services.NewConceptExtractor(&fakeChat{response: `["relativity", "einstein"]`}, zap.NewNop())
	embedding := newTestEmbeddingService(t, nil)
	h := NewAugmentHandler(extractor, embedding, graph, nil)

	result := h.Handle(context.Background(), AugmentCommand{Target: "some text", Operation: AugmentConceptEmbeddings})
	require.True(t, result.Success, "expected both concepts to be embedded, got %+v", result)
	assert.Equal(t, 2, result.TotalEmbeddings)
	assert.Len(t, result.ConceptsEmbedded, 2)
}

func TestAugmentHandler_EmbeddingFailurePerConceptIsNonFatal(t *testing.T) {
	graph := &fakeGraph{}
	extractor := services.NewConceptExtractor(&fakeChat{response: `["relativity"]`}, zap.NewNop())
	embedding := newTestEmbeddingService(t, errFake)
	h := NewAugmentHandler(extractor, embedding, graph, nil)

	result := h.Handle(context.Background(), AugmentCommand{Target: "some text", Operation: AugmentConceptEmbeddings})
	require.True(t, result.Success, "expected the overall augment to still succeed despite a per-concept embedding failure")
	assert.Zero(t, result.TotalEmbeddings)
	assert.Len(t, graph.savedConcepts, 1, "expected the concept to still be persisted without its embedding")
}
