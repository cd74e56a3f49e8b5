package valueobjects

import (
	"math"
	"testing"
)

func TestCosine_IdenticalVectorsYieldOne(t *testing.T) {
	v := NewEmbedding([]float64{1, 2, 3})
	got := Cosine(v, v)
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected cosine(v,v)=1, got %v", got)
	}
}

func TestCosine_OrthogonalVectorsYieldZero(t *testing.T) {
	a := NewEmbedding([]float64{1, 0})
	b := NewEmbedding([]float64{0, 1})
	got := Cosine(a, b)
	if math.Abs(got) > 1e-9 {
		t.Fatalf("expected cosine of orthogonal vectors to be 0, got %v", got)
	}
}

func TestCosine_PendingEmbeddingYieldsZero(t *testing.T) {
	pending := Embedding{}
	other := NewEmbedding([]float64{1, 2, 3})
	if got := Cosine(pending, other); got != 0 {
		t.Fatalf("expected pending embedding to yield cosine 0, got %v", got)
	}
}

func TestEmbedding_ValidateDimension(t *testing.T) {
	v := NewEmbedding([]float64{1, 2, 3})
	if err := v.ValidateDimension(3); err != nil {
		t.Fatalf("expected matching dimension to validate, got %v", err)
	}
	if err := v.ValidateDimension(4); err == nil {
		t.Fatalf("expected mismatched dimension to fail validation")
	}

	pending := Embedding{}
	if err := pending.ValidateDimension(1536); err != nil {
		t.Fatalf("expected pending embedding to always validate, got %v", err)
	}
}
