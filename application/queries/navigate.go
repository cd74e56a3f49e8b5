package queries

import (
	"context"

	"github.com/danja/semem-go/application/services"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	"go.uber.org/zap"
)

// NavigateQuery is navigate(params) (§6): a zoom/pan/tilt request against
// an existing or fresh navigation session.
type NavigateQuery struct {
	SessionID string
	Params    valueobjects.Params
}

// NavigateResult is navigate's {success, results[], metadata} return shape
// (§6).
type NavigateResult struct {
	Success      bool
	Nodes        []entities.KnowledgeNode
	FromCache    bool
	ResponseTime int64 // milliseconds, for JSON-friendly transport
	Error        string
}

// NavigateHandler handles NavigateQuery.
type NavigateHandler struct {
	navigator *services.ZPTNavigator
	logger    *zap.Logger
}

// NewNavigateHandler wires the handler's dependency.
func NewNavigateHandler(navigator *services.ZPTNavigator, logger *zap.Logger) *NavigateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigateHandler{navigator: navigator, logger: logger}
}

// Handle wraps ZPTNavigator.Navigate, flattening its result to the
// transport boundary shape (§4.F, §6).
func (h *NavigateHandler) Handle(ctx context.Context, q NavigateQuery) *NavigateResult {
	result, err := h.navigator.Navigate(ctx, q.SessionID, q.Params)
	if err != nil {
		h.logger.Warn("navigate failed", zap.Error(err))
		return &NavigateResult{Success: false, Error: err.Error()}
	}
	return &NavigateResult{
		Success:      true,
		Nodes:        result.Nodes,
		FromCache:    result.FromCache,
		ResponseTime: result.ResponseTime.Milliseconds(),
	}
}
