package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeChatProvider struct {
	response string
	err      error
}

func (f *fakeChatProvider) GenerateResponse(ctx context.Context, prompt string, context []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestConceptExtractor_ExtractsJSONArrayWithLeadingProse(t *testing.T) {
	extractor := NewConceptExtractor(&fakeChatProvider{response: `[JSON] ["a", "b"]`}, zap.NewNop())

	got := extractor.Extract(context.Background(), "some text")

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestConceptExtractor_NoArrayYieldsEmptySlice(t *testing.T) {
	extractor := NewConceptExtractor(&fakeChatProvider{response: "No concepts"}, zap.NewNop())

	got := extractor.Extract(context.Background(), "some text")

	assert.Empty(t, got, "expected empty slice for prose with no JSON array")
}

func TestConceptExtractor_NeverErrorsOnChatFailure(t *testing.T) {
	extractor := NewConceptExtractor(&fakeChatProvider{err: errors.New("provider unavailable")}, zap.NewNop())

	got := extractor.Extract(context.Background(), "some text")

	assert.NotNil(t, got, "expected a non-nil slice on chat failure")
	assert.Empty(t, got)
}

func TestConceptExtractor_DeduplicatesAndNormalizesCase(t *testing.T) {
	extractor := NewConceptExtractor(&fakeChatProvider{response: `["Einstein", "einstein", " Princeton "]`}, zap.NewNop())

	got := extractor.Extract(context.Background(), "some text")

	assert.Equal(t, []string{"einstein", "princeton"}, got)
}

func TestConceptExtractor_FiltersShortTokens(t *testing.T) {
	extractor := NewConceptExtractor(&fakeChatProvider{response: `["a", "ok", "z"]`}, zap.NewNop())

	got := extractor.Extract(context.Background(), "some text")

	assert.Equal(t, []string{"ok"}, got)
}
