package ports

import (
	"context"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
)

// GraphStore is the port onto the RDF triple store — the system of record
// the teacher's NodeRepository/EdgeRepository/GraphRepository trio played
// for DynamoDB, narrowed to the operations the Memory Store and ZPT
// Navigator actually issue against a SPARQL 1.1 endpoint.
type GraphStore interface {
	// SaveInteraction mirrors an interaction into the content graph as a
	// typed node (§3 Persistence).
	SaveInteraction(ctx context.Context, interaction *entities.Interaction) error

	// SaveConcept mirrors a concept node, idempotent on its URI.
	SaveConcept(ctx context.Context, concept entities.Concept) error

	// Query executes a read-only SPARQL query (application/sparql-query)
	// and returns the raw JSON bindings payload.
	Query(ctx context.Context, sparql string) ([]byte, error)

	// Update executes a SPARQL update (application/sparql-update).
	Update(ctx context.Context, sparql string) error

	// SaveNavigationView inserts a NavigationView provenance record into
	// the navigation graph. Failures are logged by the caller and are
	// never fatal (§4.F).
	SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error

	// SaveSession mirrors session state (current ZPT params, history) to
	// the session graph as a JSON blob plus typed triples.
	SaveSession(ctx context.Context, session *entities.NavigationSession) error

	// LoadSession restores session state by id. A parse failure or
	// missing session returns (nil, nil): the caller creates a new
	// session rather than treating this as an error (§4.F).
	LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error)
}

// VectorIndex is the optional embedded ANN accelerator layered in front of
// GraphStore for retrieveRelevant, per §9's "replace parallel arrays ...
// with a vector index" design note. A GraphStore-only deployment is valid;
// VectorIndex is additive.
type VectorIndex interface {
	Upsert(ctx context.Context, id string, embedding valueobjects.Embedding, metadata map[string]string) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, embedding valueobjects.Embedding, k int) ([]VectorMatch, error)
}

// VectorMatch is one nearest-neighbor result.
type VectorMatch struct {
	ID       string
	Score    float64
	Metadata map[string]string
}
