// Package memory implements storage.type=memory: a pure in-process
// ports.GraphStore with no real persistence, grounded on the teacher's
// in-memory repository fakes used ahead of a real backing store. It is the
// zero-dependency backend the config's default points at, so the engine
// runs without any endpoint configured.
package memory

import (
	"context"
	"sync"

	"github.com/danja/semem-go/domain/core/entities"
	apperrors "github.com/danja/semem-go/pkg/errors"
)

// GraphStore implements ports.GraphStore entirely in process memory.
type GraphStore struct {
	mu       sync.RWMutex
	interactions map[string]*entities.Interaction
	concepts     map[string]entities.Concept
	views        []entities.NavigationView
	sessions     map[string]*entities.NavigationSession
}

// New creates an empty in-memory graph store.
func New() *GraphStore {
	return &GraphStore{
		interactions: make(map[string]*entities.Interaction),
		concepts:     make(map[string]entities.Concept),
		sessions:     make(map[string]*entities.NavigationSession),
	}
}

// SaveInteraction implements ports.GraphStore.
func (g *GraphStore) SaveInteraction(_ context.Context, interaction *entities.Interaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *interaction
	g.interactions[interaction.ID] = &cp
	return nil
}

// SaveConcept implements ports.GraphStore.
func (g *GraphStore) SaveConcept(_ context.Context, concept entities.Concept) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.concepts[concept.URI] = concept
	return nil
}

// Query implements ports.GraphStore. There is no SPARQL engine behind this
// backend; any query issued against it is a configuration mistake.
func (g *GraphStore) Query(_ context.Context, _ string) ([]byte, error) {
	return nil, apperrors.NewConfig("storage.type=memory does not support SPARQL queries")
}

// Update implements ports.GraphStore, symmetric with Query.
func (g *GraphStore) Update(_ context.Context, _ string) error {
	return apperrors.NewConfig("storage.type=memory does not support SPARQL updates")
}

// SaveNavigationView implements ports.GraphStore.
func (g *GraphStore) SaveNavigationView(_ context.Context, _ string, view entities.NavigationView) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.views = append(g.views, view)
	return nil
}

// SaveSession implements ports.GraphStore.
func (g *GraphStore) SaveSession(_ context.Context, session *entities.NavigationSession) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *session
	g.sessions[session.ID] = &cp
	return nil
}

// LoadSession implements ports.GraphStore. A missing session is a
// cache-style miss, not an error: the caller starts a fresh one.
func (g *GraphStore) LoadSession(_ context.Context, sessionID string) (*entities.NavigationSession, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Interactions returns a snapshot of every stored interaction, the access
// path the Memory Store's retrieveRelevant scans for this backend.
func (g *GraphStore) Interactions() []*entities.Interaction {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*entities.Interaction, 0, len(g.interactions))
	for _, i := range g.interactions {
		cp := *i
		out = append(out, &cp)
	}
	return out
}
