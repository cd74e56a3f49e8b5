// Package jsonstore implements storage.type=json: a file-backed
// ports.GraphStore that persists its full state as a single JSON document,
// grounded on the teacher's config file atomic-write pattern (write to a
// temp file, rename over the target) applied here to data instead of
// config.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/danja/semem-go/domain/core/entities"
	apperrors "github.com/danja/semem-go/pkg/errors"
)

type document struct {
	Interactions map[string]*entities.Interaction        `json:"interactions"`
	Concepts     map[string]entities.Concept              `json:"concepts"`
	Views        []entities.NavigationView                `json:"views"`
	Sessions     map[string]*entities.NavigationSession    `json:"sessions"`
}

func emptyDocument() *document {
	return &document{
		Interactions: make(map[string]*entities.Interaction),
		Concepts:     make(map[string]entities.Concept),
		Sessions:     make(map[string]*entities.NavigationSession),
	}
}

// GraphStore implements ports.GraphStore by persisting a single JSON
// document to disk after every mutation.
type GraphStore struct {
	mu   sync.Mutex
	path string
	doc  *document
}

// New loads an existing document from path, or starts an empty one if the
// file does not yet exist.
func New(path string) (*GraphStore, error) {
	g := &GraphStore{path: path, doc: emptyDocument()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return g, nil
	}
	if err != nil {
		return nil, apperrors.NewInternal("read json store", err)
	}
	if len(data) == 0 {
		return g, nil
	}
	if err := json.Unmarshal(data, g.doc); err != nil {
		return nil, apperrors.NewInternal("parse json store", err)
	}
	return g, nil
}

// flush writes the document to path atomically: write to a sibling temp
// file, then rename over the target. Caller holds g.mu.
func (g *GraphStore) flush() error {
	data, err := json.MarshalIndent(g.doc, "", "  ")
	if err != nil {
		return apperrors.NewInternal("marshal json store", err)
	}
	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.NewInternal("write json store temp file", err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return apperrors.NewInternal("rename json store into place", err)
	}
	return nil
}

// SaveInteraction implements ports.GraphStore.
func (g *GraphStore) SaveInteraction(_ context.Context, interaction *entities.Interaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *interaction
	g.doc.Interactions[interaction.ID] = &cp
	return g.flush()
}

// SaveConcept implements ports.GraphStore.
func (g *GraphStore) SaveConcept(_ context.Context, concept entities.Concept) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.Concepts[concept.URI] = concept
	return g.flush()
}

// Query implements ports.GraphStore; this backend has no SPARQL engine.
func (g *GraphStore) Query(_ context.Context, _ string) ([]byte, error) {
	return nil, apperrors.NewConfig("storage.type=json does not support SPARQL queries")
}

// Update implements ports.GraphStore, symmetric with Query.
func (g *GraphStore) Update(_ context.Context, _ string) error {
	return apperrors.NewConfig("storage.type=json does not support SPARQL updates")
}

// SaveNavigationView implements ports.GraphStore.
func (g *GraphStore) SaveNavigationView(_ context.Context, _ string, view entities.NavigationView) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.Views = append(g.doc.Views, view)
	return g.flush()
}

// SaveSession implements ports.GraphStore.
func (g *GraphStore) SaveSession(_ context.Context, session *entities.NavigationSession) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := *session
	g.doc.Sessions[session.ID] = &cp
	return g.flush()
}

// LoadSession implements ports.GraphStore.
func (g *GraphStore) LoadSession(_ context.Context, sessionID string) (*entities.NavigationSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.doc.Sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Interactions returns a snapshot of every stored interaction.
func (g *GraphStore) Interactions() []*entities.Interaction {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*entities.Interaction, 0, len(g.doc.Interactions))
	for _, i := range g.doc.Interactions {
		cp := *i
		out = append(out, &cp)
	}
	return out
}

// DefaultPath resolves a relative json storage path under the current
// working directory, matching storage.options.jsonPath.
func DefaultPath(configured string) string {
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Clean(configured)
}
