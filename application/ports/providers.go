package ports

import "context"

// ProviderCapability tags what a provider entry can be selected for.
type ProviderCapability string

const (
	CapabilityChat      ProviderCapability = "chat"
	CapabilityEmbedding ProviderCapability = "embedding"
)

// ChatProvider generates a completion for a prompt, optionally given prior
// context, per §6's outbound "Chat provider" contract. Implementations
// must accept long prompts (>= 8K tokens input).
type ChatProvider interface {
	GenerateResponse(ctx context.Context, prompt string, context []string) (string, error)
}

// EmbeddingProvider produces a fixed-dimension vector for text.
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// ResearchCollaborator is the external encyclopedic/search endpoint the
// Iteration Controller's research step delegates to (§4.G).
type ResearchCollaborator interface {
	Research(ctx context.Context, followUps []string) (ResearchResult, error)
}

// ResearchResult is the research collaborator's structured response.
type ResearchResult struct {
	Success               bool
	EntitiesPerQuestion   map[string]int
	ConceptsPerQuestion   map[string]int
	Details               []string
}
