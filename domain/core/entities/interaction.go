package entities

import (
	"time"

	"github.com/danja/semem-go/domain/core/valueobjects"
	"github.com/google/uuid"
)

// Tier is the memory tier an Interaction currently lives in.
type Tier string

const (
	TierShort Tier = "short"
	TierLong  Tier = "long"
)

// Interaction is a recorded prompt/response exchange, the unit the Memory
// Store promotes, decays, and ranks.
type Interaction struct {
	ID               string
	Prompt           string
	Response         string
	Embedding        valueobjects.Embedding
	Concepts         []string
	CreatedAt        time.Time
	AccessCount      int
	LastAccessedAt   time.Time
	Tier             Tier
	SourceURI        string
	PendingEmbedding bool
}

// NewInteraction creates a short-term interaction with a freshly minted ID.
// PendingEmbedding is set when embedding is the zero value, matching the
// ingest-time contract: unavailable at ingest means excluded from
// similarity search until back-filled.
func NewInteraction(prompt, response string, embedding valueobjects.Embedding, concepts []string) *Interaction {
	now := time.Now()
	return &Interaction{
		ID:               uuid.NewString(),
		Prompt:           prompt,
		Response:         response,
		Embedding:        embedding,
		Concepts:         normalizeConcepts(concepts),
		CreatedAt:        now,
		AccessCount:      0,
		LastAccessedAt:   now,
		Tier:             TierShort,
		PendingEmbedding: embedding.IsPending(),
	}
}

// RecordAccess bumps the access count and last-accessed timestamp, the
// signal retrieveRelevant contributes toward promotion eligibility.
func (i *Interaction) RecordAccess() {
	i.AccessCount++
	i.LastAccessedAt = time.Now()
}

// AgeSeconds returns the elapsed time since creation, the input to the
// recency-decay term of the composite similarity score.
func (i *Interaction) AgeSeconds(now time.Time) float64 {
	return now.Sub(i.CreatedAt).Seconds()
}

// ConceptSet returns the interaction's concepts as a set for Jaccard
// comparison.
func (i *Interaction) ConceptSet() map[string]bool {
	set := make(map[string]bool, len(i.Concepts))
	for _, c := range i.Concepts {
		set[c] = true
	}
	return set
}

func normalizeConcepts(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		n := valueobjects.NormalizeConceptLabel(c)
		if len(n) < 2 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
