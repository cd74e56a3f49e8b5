// Package research provides the default ports.ResearchCollaborator
// implementation used when no external encyclopedic endpoint is
// configured (spec.md §4.G names the collaborator as out-of-scope,
// "e.g., an encyclopedic endpoint wrapper"). Lacking a concrete external
// service in the reference stack, this adapter performs research by
// re-querying the same chat provider and concept extractor the rest of
// the engine already uses, then reports the entity/concept yield per
// follow-up the way a real collaborator would.
package research

import (
	"context"
	"fmt"

	"github.com/danja/semem-go/application/ports"
)

const researchPromptTemplate = `Answer the following question concisely and
factually, naming specific people, places, organizations, and dates where
relevant:

%s`

// ConceptExtractor is the subset of application/services.ConceptExtractor
// this package depends on, kept as a narrow local interface so the
// infrastructure layer does not import application/services.
type ConceptExtractor interface {
	Extract(ctx context.Context, text string) []string
}

// Collaborator implements ports.ResearchCollaborator by asking the chat
// provider to answer each follow-up directly and extracting concepts from
// its answer to stand in for "entities/concepts found".
type Collaborator struct {
	chat     ports.ChatProvider
	concepts ConceptExtractor
}

// New wires the collaborator's dependencies.
func New(chat ports.ChatProvider, concepts ConceptExtractor) *Collaborator {
	return &Collaborator{chat: chat, concepts: concepts}
}

// Research implements ports.ResearchCollaborator (§4.G). A follow-up is
// counted as failed only if every question produced an empty answer;
// partial success still reports success=true, matching a real research
// endpoint's best-effort semantics.
func (c *Collaborator) Research(ctx context.Context, followUps []string) (ports.ResearchResult, error) {
	result := ports.ResearchResult{
		EntitiesPerQuestion: make(map[string]int),
		ConceptsPerQuestion: make(map[string]int),
	}

	for _, q := range followUps {
		answer, err := c.chat.GenerateResponse(ctx, fmt.Sprintf(researchPromptTemplate, q), nil)
		if err != nil || answer == "" {
			result.ConceptsPerQuestion[q] = 0
			result.EntitiesPerQuestion[q] = 0
			continue
		}

		labels := c.concepts.Extract(ctx, answer)
		result.ConceptsPerQuestion[q] = len(labels)
		result.EntitiesPerQuestion[q] = len(labels) // no separate entity recognizer; concepts double as the entity count
		result.Details = append(result.Details, fmt.Sprintf("%s: %s", q, answer))
		result.Success = true
	}

	return result, nil
}
