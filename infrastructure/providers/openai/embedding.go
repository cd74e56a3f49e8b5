// Package openai adapts github.com/openai/openai-go into
// application/ports.EmbeddingProvider, grounded on the reference pkg/embed
// OpenAI embedder (same client construction and batch-call shape), reduced
// to single-text embedding since the Embedding Service only ever embeds one
// interaction or query at a time.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// Provider implements ports.EmbeddingProvider over the OpenAI embeddings API.
type Provider struct {
	client openai.Client
	model  string
	dim    int
}

// New creates an OpenAI embedding provider. baseURL is optional, letting an
// OpenAI-compatible endpoint stand in (matches the provider registry's
// baseUrl? field).
func New(apiKey, model string, dim int, baseURL string) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Provider{
		client: openai.NewClient(opts...),
		model:  model,
		dim:    dim,
	}
}

// GenerateEmbedding implements ports.EmbeddingProvider.
func (p *Provider) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, apperrors.NewValidation("cannot embed empty text")
	}

	params := openai.EmbeddingNewParams{
		Model:          p.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Dimensions:     openai.Int(int64(p.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, apperrors.NewTransient("openai embedding request failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewProtocol("openai: empty embedding data in response")
	}
	return resp.Data[0].Embedding, nil
}

// Dimension implements ports.EmbeddingProvider.
func (p *Provider) Dimension() int { return p.dim }
