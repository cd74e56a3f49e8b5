package commands

import (
	"context"
	"testing"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	"github.com/stretchr/testify/assert"
)

type fakeResearchCollaborator struct {
	result ports.ResearchResult
	err    error
}

func (f *fakeResearchCollaborator) Research(ctx context.Context, followUps []string) (ports.ResearchResult, error) {
	return f.result, f.err
}

func TestIterateHandler_CompleteOnFirstPassSkipsResearch(t *testing.T) {
	graph := &fakeGraph{}
	chat := &fakeChat{response: `{"completeness": 0.95, "reasoning": "thorough", "followUps": []}`}
	controller := services.NewIterationController(chat, &fakeResearchCollaborator{}, graph, nil, nil)
	h := NewIterateHandler(controller)

	result := h.Handle(context.Background(), "op-1", IterateCommand{
		Input:   services.IterationInput{Question: "what is relativity", InitialResponse: "a theory of gravity"},
		Options: services.DefaultIterationControllerConfig(),
	})

	assert.False(t, result.ErrorOccurred, "expected no error for an already-complete answer, got %+v", result)
	assert.Len(t, result.Iterations, 1, "expected a single analyze-only iteration")
	assert.Empty(t, graph.savedConcepts, "expected no follow-up questions to be persisted when none were generated")
}

func TestIterateHandler_ChatFailureFallsBackToInitialResponse(t *testing.T) {
	graph := &fakeGraph{}
	chat := &erroringChat{}
	controller := services.NewIterationController(chat, &fakeResearchCollaborator{}, graph, nil, nil)
	handler := NewIterateHandler(controller)

	result := handler.Handle(context.Background(), "op-2", IterateCommand{
		Input:   services.IterationInput{Question: "q", InitialResponse: "best-known answer"},
		Options: services.DefaultIterationControllerConfig(),
	})

	assert.Equal(t, "best-known answer", result.FinalAnswer, "expected the final answer to fall back to the initial response")
	assert.True(t, result.ErrorOccurred, "expected ErrorOccurred to be set when every analyze step fails")
}

type erroringChat struct{}

func (erroringChat) GenerateResponse(ctx context.Context, prompt string, context []string) (string, error) {
	return "", errFake
}
