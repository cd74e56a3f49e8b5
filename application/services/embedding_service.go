// Package services implements the seven application-layer components
// (§4.A-G): Embedding Service, Concept Extractor, Provider Registry, Cache
// Layer coordination, Memory Store, ZPT Navigator, and Iteration
// Controller. Each wraps the corresponding domain/infrastructure pieces
// built elsewhere in the module into the operations §4 names.
package services

import (
	"context"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/valueobjects"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"github.com/danja/semem-go/pkg/resilience"
	"github.com/danja/semem-go/pkg/retry"
)

// EmbeddingService exposes embed/embedBatch/cosine/dimension over the
// active embedding provider selected once at startup from the Provider
// Registry (§4.A).
type EmbeddingService struct {
	provider ports.EmbeddingProvider
	breaker  *resilience.Breaker
	dim      int
}

// NewEmbeddingService binds a resolved embedding provider. dim must match
// the provider's configured dimension; a mismatch is a fatal config error
// per §4.A's "dimension mismatch vs configuration -> fatal".
func NewEmbeddingService(provider ports.EmbeddingProvider, breaker *resilience.Breaker, dim int) (*EmbeddingService, error) {
	if provider.Dimension() != dim {
		return nil, apperrors.NewConfig("embedding provider dimension %d does not match configured dimension %d", provider.Dimension(), dim)
	}
	return &EmbeddingService{provider: provider, breaker: breaker, dim: dim}, nil
}

// Embed produces a single embedding, retried with exponential backoff on
// transient provider failures (§4.A: 3 attempts, base 250ms).
func (s *EmbeddingService) Embed(ctx context.Context, text string) (valueobjects.Embedding, error) {
	vec, err := resilience.ExecuteCtx(ctx, s.breaker, func(ctx context.Context) ([]float64, error) {
		var out []float64
		err := retry.Do(ctx, retry.DefaultPolicy, apperrors.IsTransient, func(ctx context.Context) error {
			v, err := s.provider.GenerateEmbedding(ctx, text)
			if err != nil {
				return err
			}
			out = v
			return nil
		})
		return out, err
	})
	if err != nil {
		return valueobjects.Embedding{}, err
	}

	embedding := valueobjects.NewEmbedding(vec)
	if err := embedding.ValidateDimension(s.dim); err != nil {
		return valueobjects.Embedding{}, err
	}
	return embedding, nil
}

// EmbedBatch embeds each text independently; a single failure marks only
// that entry's embedding as pending rather than aborting the batch, so
// ingest of the remaining texts can proceed per §3's pending-embedding
// invariant.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([]valueobjects.Embedding, []error) {
	embeddings := make([]valueobjects.Embedding, len(texts))
	errs := make([]error, len(texts))
	for i, text := range texts {
		e, err := s.Embed(ctx, text)
		embeddings[i] = e
		errs[i] = err
	}
	return embeddings, errs
}

// Cosine delegates to the embedding value object's cosine similarity.
func (s *EmbeddingService) Cosine(a, b valueobjects.Embedding) float64 {
	return valueobjects.Cosine(a, b)
}

// Dimension returns the configured embedding dimension D.
func (s *EmbeddingService) Dimension() int { return s.dim }
