package services

import (
	"testing"
	"time"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

func TestCompositeSimilarityCalculator_Score(t *testing.T) {
	calc := NewCompositeSimilarityCalculator(DefaultWeights(), NewDefaultTextAnalyzer())

	now := time.Now()
	candidate := entities.NewInteraction("prompt", "response", valueobjects.NewEmbedding([]float64{1, 0}), []string{"einstein", "princeton"})
	candidate.CreatedAt = now

	query := Query{
		Embedding: valueobjects.NewEmbedding([]float64{1, 0}),
		Concepts:  map[string]bool{"einstein": true, "princeton": true},
	}

	score := calc.Score(query, candidate, now)

	// cosine=1, jaccard=1, recency~1 at age 0 -> score ~= alpha+beta+gamma = 1.0
	if score < 0.99 || score > 1.01 {
		t.Fatalf("expected near-maximal score for identical embedding/concepts at zero age, got %v", score)
	}
}

func TestCompositeSimilarityCalculator_DecaysWithAge(t *testing.T) {
	calc := NewCompositeSimilarityCalculator(DefaultWeights(), NewDefaultTextAnalyzer())

	now := time.Now()
	fresh := entities.NewInteraction("p", "r", valueobjects.NewEmbedding([]float64{1, 0}), nil)
	fresh.CreatedAt = now

	old := entities.NewInteraction("p", "r", valueobjects.NewEmbedding([]float64{1, 0}), nil)
	old.CreatedAt = now.Add(-30 * 24 * time.Hour)

	query := Query{Embedding: valueobjects.NewEmbedding([]float64{1, 0})}

	freshScore := calc.Score(query, fresh, now)
	oldScore := calc.Score(query, old, now)

	if oldScore >= freshScore {
		t.Fatalf("expected older interaction to score lower: fresh=%v old=%v", freshScore, oldScore)
	}
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.Alpha != 0.6 || w.Beta != 0.25 || w.Gamma != 0.15 {
		t.Fatalf("unexpected default weights: %+v", w)
	}
}
