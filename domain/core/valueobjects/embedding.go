package valueobjects

import (
	"math"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// Embedding is a fixed-dimension vector produced by an embedding provider.
// The zero value (nil Vector) represents "pending-embedding": an
// Interaction ingested before a vector could be produced.
type Embedding struct {
	Vector []float64
}

// NewEmbedding wraps a raw vector. An empty vector is valid and represents
// the pending-embedding state.
func NewEmbedding(vector []float64) Embedding {
	return Embedding{Vector: vector}
}

// IsPending reports whether this embedding has not been computed yet.
func (e Embedding) IsPending() bool {
	return len(e.Vector) == 0
}

// Dimension returns the vector length, or 0 if pending.
func (e Embedding) Dimension() int {
	return len(e.Vector)
}

// ValidateDimension checks the embedding matches the configured provider
// dimension D. A mismatch is a fatal config error per the embedding
// service's fail-mode contract.
func (e Embedding) ValidateDimension(d int) error {
	if e.IsPending() {
		return nil
	}
	if len(e.Vector) != d {
		return apperrors.NewConfig("embedding dimension %d does not match configured dimension %d", len(e.Vector), d)
	}
	return nil
}

// Cosine computes cosine similarity in [-1, 1] between two embeddings. A
// pending embedding on either side yields 0, since similarity search
// excludes pending-embedding interactions entirely — callers should check
// IsPending before relying on a meaningful score.
func Cosine(a, b Embedding) float64 {
	if a.IsPending() || b.IsPending() || len(a.Vector) != len(b.Vector) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a.Vector {
		dot += a.Vector[i] * b.Vector[i]
		magA += a.Vector[i] * a.Vector[i]
		magB += b.Vector[i] * b.Vector[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
