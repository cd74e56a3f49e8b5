// Package hashfallback provides a deterministic hash-based embedding
// generator, grounded on the reference SimpleEmbedding (word-hash +
// position-decay, normalized to unit length). It backs the lowest-priority
// provider registry entry so embed() always has somewhere to fall through
// to when every configured embedding provider is unreachable, rather than
// failing ingest outright.
package hashfallback

import (
	"context"
	"math"
	"strings"
)

// Provider is a deterministic, dependency-free embedding generator.
type Provider struct {
	dim int
}

// New creates a hash-based embedding provider of the given dimension.
func New(dim int) *Provider {
	return &Provider{dim: dim}
}

// GenerateEmbedding implements ports.EmbeddingProvider. Equal inputs always
// produce equal output, satisfying the embedding service's "identical
// inputs -> identical results" contract trivially (no network round trip
// to vary).
func (p *Provider) GenerateEmbedding(_ context.Context, text string) ([]float64, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	vector := make([]float64, p.dim)
	for i, word := range words {
		hash := wordHash(word)
		position := float64(i) / float64(len(words))
		weight := 1.0 / (1.0 + position)
		for j := 0; j < p.dim; j++ {
			idx := (hash + uint32(j)) % uint32(p.dim)
			vector[idx] += weight
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}
	return vector, nil
}

// Dimension implements ports.EmbeddingProvider.
func (p *Provider) Dimension() int { return p.dim }

func wordHash(s string) uint32 {
	hash := uint32(0)
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return hash
}
