package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	apperrors "github.com/danja/semem-go/pkg/errors"
)

// GraphStore implements ports.GraphStore over a SPARQL 1.1 endpoint,
// grounded on the same Client this package already wraps. Session and
// navigation-view state is round-tripped as a single JSON literal per
// subject rather than decomposed into typed triples: it is private engine
// bookkeeping, not corpus content, so there is no reasoning gained from
// exposing its shape to other SPARQL consumers.
type GraphStore struct {
	client      *Client
	builder     *Builder
	contentG    string
	navigationG string
	sessionG    string
}

// NewGraphStore wires a Client against the three named graphs the engine
// partitions content, navigation provenance, and session state across
// (§6 graphs.{content,navigation,session}).
func NewGraphStore(client *Client, contentGraph, navigationGraph, sessionGraph string) *GraphStore {
	return &GraphStore{
		client:      client,
		builder:     NewBuilder(contentGraph),
		contentG:    contentGraph,
		navigationG: navigationGraph,
		sessionG:    sessionGraph,
	}
}

func interactionURI(id string) string {
	return "http://hyperdata.it/semem/interaction/" + id
}

// SaveInteraction implements ports.GraphStore.
func (g *GraphStore) SaveInteraction(ctx context.Context, interaction *entities.Interaction) error {
	uri := interactionURI(interaction.ID)
	update := fmt.Sprintf(`%sINSERT DATA {
  GRAPH <%s> {
    <%s> a ragno:Unit ;
         rdfs:label "%s" ;
         semem:content "%s" ;
         semem:response "%s" ;
         dcterms:created "%s"^^xsd:dateTime ;
         semem:tier "%s" ;
         semem:accessCount %d .
  }
}`, prefixBlock, g.contentG, uri,
		EscapeLiteral(truncateLabel(interaction.Prompt)),
		EscapeLiteral(interaction.Prompt),
		EscapeLiteral(interaction.Response),
		interaction.CreatedAt.Format(time.RFC3339),
		interaction.Tier,
		interaction.AccessCount)

	if err := g.client.Update(ctx, update); err != nil {
		return err
	}

	for _, concept := range interaction.Concepts {
		link := fmt.Sprintf(`%sINSERT DATA {
  GRAPH <%s> {
    <%s> ragno:connectsTo <%s> .
  }
}`, prefixBlock, g.contentG, uri, valueobjects.ConceptURI(concept))
		if err := g.client.Update(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

// SaveConcept implements ports.GraphStore.
func (g *GraphStore) SaveConcept(ctx context.Context, concept entities.Concept) error {
	update := fmt.Sprintf(`%sINSERT DATA {
  GRAPH <%s> {
    <%s> a ragno:Attribute ;
         rdfs:label "%s" ;
         ragno:attributeType "concept" .
  }
}`, prefixBlock, g.contentG, concept.URI, EscapeLiteral(concept.Label))
	return g.client.Update(ctx, update)
}

// Query implements ports.GraphStore.
func (g *GraphStore) Query(ctx context.Context, sparql string) ([]byte, error) {
	return g.client.Query(ctx, sparql)
}

// Update implements ports.GraphStore.
func (g *GraphStore) Update(ctx context.Context, sparql string) error {
	return g.client.Update(ctx, sparql)
}

// SaveNavigationView implements ports.GraphStore. Failures are reported to
// the caller, who treats them as non-fatal per §4.F: provenance is
// best-effort, navigation results are never blocked on it.
func (g *GraphStore) SaveNavigationView(ctx context.Context, sessionURI string, view entities.NavigationView) error {
	update := fmt.Sprintf(`%sINSERT DATA {
  GRAPH <%s> {
    <%s> prov:generated [
      a prov:Activity ;
      zpt:zoom "%s" ;
      zpt:tilt "%s" ;
      semem:resultCount %d ;
      semem:fromCache %t ;
      semem:responseTimeMs %d ;
      prov:endedAtTime "%s"^^xsd:dateTime
    ] .
  }
}`, prefixBlock, g.navigationG, sessionURI,
		view.ZPTParams.Zoom, view.ZPTParams.Tilt, view.ResultCount, view.FromCache,
		view.ResponseTime.Milliseconds(), view.Timestamp.Format(time.RFC3339))
	return g.client.Update(ctx, update)
}

// sessionDTO is the JSON shape a NavigationSession round-trips through a
// single semem:sessionState literal.
type sessionDTO struct {
	ID           string                      `json:"id"`
	URI          string                      `json:"uri"`
	CreatedAt    time.Time                   `json:"createdAt"`
	LastActivity time.Time                   `json:"lastActivity"`
	CurrentState valueobjects.Params         `json:"currentState"`
	Interactions int                         `json:"interactions"`
	History      []entities.NavigationView   `json:"history"`
}

// SaveSession implements ports.GraphStore.
func (g *GraphStore) SaveSession(ctx context.Context, session *entities.NavigationSession) error {
	dto := sessionDTO{
		ID:           session.ID,
		URI:          session.URI,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
		CurrentState: session.CurrentState,
		Interactions: session.Interactions,
		History:      session.History,
	}
	blob, err := json.Marshal(dto)
	if err != nil {
		return apperrors.NewInternal("marshal session state", err)
	}

	update := fmt.Sprintf(`%sDELETE WHERE { GRAPH <%s> { <%s> semem:sessionState ?old } };
%sINSERT DATA {
  GRAPH <%s> {
    <%s> a semem:NavigationSession ;
         semem:sessionState "%s" .
  }
}`, prefixBlock, g.sessionG, session.URI,
		prefixBlock, g.sessionG, session.URI, EscapeLiteral(string(blob)))
	return g.client.Update(ctx, update)
}

// sparqlResults is the minimal shape of a SPARQL JSON results document this
// store needs to read back.
type sparqlResults struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// LoadSession implements ports.GraphStore. A parse failure or missing
// session returns (nil, nil): the caller starts a fresh session rather than
// treating an unreadable blob as fatal (§4.F).
func (g *GraphStore) LoadSession(ctx context.Context, sessionID string) (*entities.NavigationSession, error) {
	uri := entities.NewNavigationSession(sessionID).URI // pure string derivation, no side effect on state
	query := fmt.Sprintf(`%sSELECT ?state WHERE { GRAPH <%s> { <%s> semem:sessionState ?state } }`,
		prefixBlock, g.sessionG, uri)

	body, err := g.client.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	var parsed sparqlResults
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil
	}
	if len(parsed.Results.Bindings) == 0 {
		return nil, nil
	}
	binding, ok := parsed.Results.Bindings[0]["state"]
	if !ok {
		return nil, nil
	}

	var dto sessionDTO
	if err := json.Unmarshal([]byte(binding.Value), &dto); err != nil {
		return nil, nil
	}

	return &entities.NavigationSession{
		ID:           dto.ID,
		URI:          dto.URI,
		CreatedAt:    dto.CreatedAt,
		LastActivity: dto.LastActivity,
		CurrentState: dto.CurrentState,
		Interactions: dto.Interactions,
		History:      dto.History,
	}, nil
}

func truncateLabel(s string) string {
	const maxLen = 80
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
