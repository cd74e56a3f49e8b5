package commands

import (
	"context"

	"github.com/danja/semem-go/application/services"
)

// IterateCommand is iterate(input, options) (§6).
type IterateCommand struct {
	Input   services.IterationInput
	Options services.IterationControllerConfig
}

// IterateResult is iterate's {finalAnswer, iterations[], metadata} return
// shape (§6). On failure, the final answer falls back to the best prior
// artifact and ErrorOccurred is set (§7 "User-visible behavior").
type IterateResult struct {
	FinalAnswer   string
	Iterations    []IterationStepView
	ErrorOccurred bool
}

// IterationStepView mirrors ports.IterationStep for the transport boundary.
type IterationStepView struct {
	Index             int
	CompletenessScore float64
	Reasoning         string
	FollowUps         []string
	Success           bool
	Answer            string
}

// IterateHandler handles IterateCommand.
type IterateHandler struct {
	controller *services.IterationController
}

// NewIterateHandler wires the handler's dependency.
func NewIterateHandler(controller *services.IterationController) *IterateHandler {
	return &IterateHandler{controller: controller}
}

// Handle runs processIterations and flattens the result to the transport
// boundary shape.
func (h *IterateHandler) Handle(ctx context.Context, operationID string, cmd IterateCommand) *IterateResult {
	result, err := h.controller.ProcessIterations(ctx, operationID, cmd.Input, cmd.Options)
	if err != nil {
		return &IterateResult{FinalAnswer: cmd.Input.InitialResponse, ErrorOccurred: true}
	}

	steps := make([]IterationStepView, 0, len(result.Iterations))
	for _, s := range result.Iterations {
		steps = append(steps, IterationStepView{
			Index:             s.Index,
			CompletenessScore: s.CompletenessScore,
			Reasoning:         s.Reasoning,
			FollowUps:         s.FollowUps,
			Success:           s.Success,
			Answer:            s.Answer,
		})
	}
	return &IterateResult{FinalAnswer: result.FinalAnswer, Iterations: steps, ErrorOccurred: result.ErrorOccurred}
}
