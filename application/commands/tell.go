// Package commands implements the three inbound operations that mutate
// state (tell, augment, iterate), grounded on the teacher's
// application/commands/handlers CQRS shape: a Command struct with
// Validate(), handled by a dependency-injected Handler's Handle(ctx, cmd)
// method returning a result struct, never an error across the operation
// boundary (§7).
package commands

import (
	"context"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/entities"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"go.uber.org/zap"
)

// ContentType enumerates tell's accepted content classifications (§6).
type ContentType string

const (
	ContentDocument   ContentType = "document"
	ContentInteraction ContentType = "interaction"
	ContentConcept    ContentType = "concept"
	ContentFact       ContentType = "fact"
)

// TellCommand is tell(content, type, metadata).
type TellCommand struct {
	Content  string
	Type     ContentType
	Metadata map[string]string
}

// Validate checks the command is well-formed.
func (c TellCommand) Validate() error {
	if c.Content == "" {
		return apperrors.NewValidation("tell: content must not be empty")
	}
	switch c.Type {
	case ContentDocument, ContentInteraction, ContentConcept, ContentFact:
	default:
		return apperrors.NewValidation("tell: unsupported content type %q", c.Type)
	}
	return nil
}

// TellResult is tell's {success, ids} return shape (§6).
type TellResult struct {
	Success bool
	IDs     []string
	Error   string
}

// TellHandler handles TellCommand.
type TellHandler struct {
	embedding *services.EmbeddingService
	concepts  *services.ConceptExtractor
	memory    *services.MemoryStore
	graph     ports.GraphStore
	logger    *zap.Logger
}

// NewTellHandler wires the handler's dependencies.
func NewTellHandler(embedding *services.EmbeddingService, concepts *services.ConceptExtractor, memory *services.MemoryStore, graph ports.GraphStore, logger *zap.Logger) *TellHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TellHandler{embedding: embedding, concepts: concepts, memory: memory, graph: graph, logger: logger}
}

// Handle ingests content per its type: a bare concept is stored directly;
// document/interaction/fact content is embedded, concept-extracted, and
// recorded as an Interaction (§3, §4.E).
func (h *TellHandler) Handle(ctx context.Context, cmd TellCommand) *TellResult {
	if err := cmd.Validate(); err != nil {
		return &TellResult{Success: false, Error: err.Error()}
	}

	if cmd.Type == ContentConcept {
		concept := entities.NewConcept(cmd.Content)
		if err := h.graph.SaveConcept(ctx, concept); err != nil {
			h.logger.Error("tell: concept persistence failed", zap.Error(err))
			return &TellResult{Success: false, Error: err.Error()}
		}
		return &TellResult{Success: true, IDs: []string{concept.URI}}
	}

	embedding, err := h.embedding.Embed(ctx, cmd.Content)
	if err != nil {
		// §3: unavailable at ingest -> mark pending-embedding rather than
		// failing the tell outright.
		h.logger.Warn("tell: embedding unavailable, marking pending", zap.Error(err))
	}

	var extracted []string
	if h.concepts != nil {
		extracted = h.concepts.Extract(ctx, cmd.Content)
	}

	interaction, err := h.memory.AddInteraction(ctx, cmd.Content, "", embedding, extracted)
	if err != nil {
		return &TellResult{Success: false, Error: err.Error()}
	}
	return &TellResult{Success: true, IDs: []string{interaction.ID}}
}
