// Package queries implements the two inbound read operations (ask,
// navigate), mirroring the teacher's application/queries handler shape:
// read-only, returning a result struct rather than throwing across the
// operation boundary (§7).
package queries

import (
	"context"
	"strings"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/application/services"
	domainsvc "github.com/danja/semem-go/domain/services"
	"go.uber.org/zap"
)

// AskQuery is ask(question, zpt?) (§6). ZPT is optional; when nil, only
// the Memory Store's similarity retrieval is consulted.
type AskQuery struct {
	Question string
	ZPT      *services.NavigateResult // pre-computed navigation, if the caller already navigated
}

// AskResult is ask's {answer, results[], corpuscles[]} return shape (§6).
type AskResult struct {
	Success      bool
	Answer       string
	ResultIDs    []string
	CorpuscleURIs []string
	Error        string
}

// AskHandler handles AskQuery.
type AskHandler struct {
	embedding *services.EmbeddingService
	memory    *services.MemoryStore
	chat      ports.ChatProvider
	contextWindow int
	logger    *zap.Logger
}

// NewAskHandler wires the handler's dependencies. contextWindow defaults to
// 5 (§6 memory.contextWindow) when <= 0.
func NewAskHandler(embedding *services.EmbeddingService, memory *services.MemoryStore, chat ports.ChatProvider, contextWindow int, logger *zap.Logger) *AskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if contextWindow <= 0 {
		contextWindow = 5
	}
	return &AskHandler{embedding: embedding, memory: memory, chat: chat, contextWindow: contextWindow, logger: logger}
}

// Handle embeds the question, retrieves the top relevant interactions from
// the Memory Store, optionally folds in a prior navigate call's
// corpuscles, and asks the chat provider to synthesize an answer from that
// context (§4.A, §4.E, §6).
func (h *AskHandler) Handle(ctx context.Context, q AskQuery) *AskResult {
	embedding, err := h.embedding.Embed(ctx, q.Question)
	if err != nil {
		h.logger.Warn("ask: question embedding unavailable, retrieving without a query embedding", zap.Error(err))
	}

	query := domainsvc.Query{Embedding: embedding, Concepts: map[string]bool{}}
	matches := h.memory.RetrieveRelevant(query, h.contextWindow, "")

	contextLines := make([]string, 0, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		contextLines = append(contextLines, m.Response)
		ids = append(ids, m.ID)
	}

	var corpuscles []string
	if q.ZPT != nil {
		for _, node := range q.ZPT.Nodes {
			contextLines = append(contextLines, node.Label+": "+node.Content)
			corpuscles = append(corpuscles, node.URI)
		}
	}

	answer, err := h.chat.GenerateResponse(ctx, q.Question, contextLines)
	if err != nil {
		h.logger.Warn("ask: chat synthesis failed, falling back to best retrieved context", zap.Error(err))
		return &AskResult{
			Success:       false,
			Answer:        strings.Join(contextLines, "\n"),
			ResultIDs:     ids,
			CorpuscleURIs: corpuscles,
			Error:         err.Error(),
		}
	}

	return &AskResult{Success: true, Answer: answer, ResultIDs: ids, CorpuscleURIs: corpuscles}
}
