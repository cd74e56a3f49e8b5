package commands

import (
	"context"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/entities"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"go.uber.org/zap"
)

// AugmentOperation enumerates augment's accepted operations (§6).
type AugmentOperation string

const (
	AugmentConcepts          AugmentOperation = "concepts"
	AugmentConceptEmbeddings AugmentOperation = "concept_embeddings"
)

// AugmentCommand is augment(target, operation, options).
type AugmentCommand struct {
	Target    string
	Operation AugmentOperation
	Options   map[string]string
}

func (c AugmentCommand) Validate() error {
	if c.Target == "" {
		return apperrors.NewValidation("augment: target must not be empty")
	}
	switch c.Operation {
	case AugmentConcepts, AugmentConceptEmbeddings:
	default:
		return apperrors.NewValidation("augment: unsupported operation %q", c.Operation)
	}
	return nil
}

// AugmentResult is augment's {augmentationType, totalConcepts,
// totalEmbeddings, conceptsEmbedded[]} return shape (§6).
type AugmentResult struct {
	Success           bool
	AugmentationType  AugmentOperation
	TotalConcepts     int
	TotalEmbeddings   int
	ConceptsEmbedded  []string
	Error             string
}

// AugmentHandler handles AugmentCommand.
type AugmentHandler struct {
	concepts  *services.ConceptExtractor
	embedding *services.EmbeddingService
	graph     ports.GraphStore
	logger    *zap.Logger
}

// NewAugmentHandler wires the handler's dependencies.
func NewAugmentHandler(concepts *services.ConceptExtractor, embedding *services.EmbeddingService, graph ports.GraphStore, logger *zap.Logger) *AugmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AugmentHandler{concepts: concepts, embedding: embedding, graph: graph, logger: logger}
}

// Handle extracts concepts from target, optionally embedding each one when
// operation=concept_embeddings (§4.B, §4.A, §6).
func (h *AugmentHandler) Handle(ctx context.Context, cmd AugmentCommand) *AugmentResult {
	if err := cmd.Validate(); err != nil {
		return &AugmentResult{Success: false, Error: err.Error()}
	}

	labels := h.concepts.Extract(ctx, cmd.Target)
	result := &AugmentResult{Success: true, AugmentationType: cmd.Operation, TotalConcepts: len(labels)}

	for _, label := range labels {
		concept := entities.NewConcept(label)

		if cmd.Operation == AugmentConceptEmbeddings {
			embedding, err := h.embedding.Embed(ctx, label)
			if err != nil {
				h.logger.Warn("augment: concept embedding failed", zap.String("concept", label), zap.Error(err))
			} else {
				concept = concept.WithEmbedding(embedding)
				result.TotalEmbeddings++
				result.ConceptsEmbedded = append(result.ConceptsEmbedded, label)
			}
		}

		if err := h.graph.SaveConcept(ctx, concept); err != nil {
			h.logger.Warn("augment: concept persistence failed", zap.String("concept", label), zap.Error(err))
		}
	}

	return result
}
