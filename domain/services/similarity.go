package services

import (
	"math"
	"time"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

// SimilarityCalculator scores a candidate interaction against a query,
// combining embedding cosine, concept Jaccard, and recency into the
// composite score retrieveRelevant ranks by (§4.E).
type SimilarityCalculator interface {
	Score(query Query, candidate *entities.Interaction, now time.Time) float64
}

// Query is the retrieval input: an embedded, concept-tagged prompt.
type Query struct {
	Embedding valueobjects.Embedding
	Concepts  map[string]bool
}

// Weights are the composite score's tunable constants (§9 Open Questions:
// not pinned in the source, exposed here with the documented defaults).
type Weights struct {
	Alpha     float64 // cosine weight
	Beta      float64 // concept Jaccard weight
	Gamma     float64 // recency weight
	DecayRate float64 // recencyBoost = exp(-DecayRate * ageSeconds)
}

// DefaultWeights matches §4.E: α=0.6, β=0.25, γ=0.15.
func DefaultWeights() Weights {
	return Weights{Alpha: 0.6, Beta: 0.25, Gamma: 0.15, DecayRate: 1.0 / (24 * 3600)}
}

// CompositeSimilarityCalculator is the default SimilarityCalculator.
type CompositeSimilarityCalculator struct {
	weights  Weights
	analyzer TextAnalyzer
}

// NewCompositeSimilarityCalculator builds a calculator with the given
// weights, falling back to DefaultWeights when zero-valued.
func NewCompositeSimilarityCalculator(weights Weights, analyzer TextAnalyzer) *CompositeSimilarityCalculator {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &CompositeSimilarityCalculator{weights: weights, analyzer: analyzer}
}

// Score computes score = α·cosine(qEmb, iEmb) + β·conceptJaccard(qConcepts,
// iConcepts) + γ·recencyBoost(ageSeconds). A pending-embedding candidate
// contributes 0 to the cosine term rather than being excluded here — callers
// filter pending-embedding interactions out of the candidate set before
// scoring, per the ingest-time contract.
func (c *CompositeSimilarityCalculator) Score(query Query, candidate *entities.Interaction, now time.Time) float64 {
	cosine := valueobjects.Cosine(query.Embedding, candidate.Embedding)
	jaccard := c.analyzer.JaccardSimilarity(query.Concepts, candidate.ConceptSet())
	recency := recencyBoost(candidate.AgeSeconds(now), c.weights.DecayRate)

	return c.weights.Alpha*cosine + c.weights.Beta*jaccard + c.weights.Gamma*recency
}

func recencyBoost(ageSeconds, decayRate float64) float64 {
	return math.Exp(-decayRate * ageSeconds)
}
