// Package ports defines the interfaces the application layer depends on
// and infrastructure adapters satisfy — the hexagonal boundary the teacher
// repo's application/ports package draws between domain logic and its
// DynamoDB/EventBridge/WebSocket adapters, reused here for a SPARQL store,
// an embedded cache, and pluggable LLM/embedding providers.
package ports

import (
	"context"
	"time"
)

// IterationStatus is the state of one iteration-controller run.
type IterationStatus string

const (
	IterationStatusRunning   IterationStatus = "running"
	IterationStatusCompleted IterationStatus = "completed"
	IterationStatusFailed    IterationStatus = "failed"
)

// IterationRecord captures one processIterations run for inspection and
// resumability, one entry per analyze/generateFollowUps/research/synthesize
// cycle.
type IterationRecord struct {
	OperationID string
	Status      IterationStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Iterations  []IterationStep
	Error       string
}

// IterationStep is a single pass through the state machine in §4.G.
type IterationStep struct {
	Index             int
	CompletenessScore float64
	Reasoning         string
	FollowUps         []string
	Success           bool
	Answer            string
}

// IterationStore persists iteration-controller runs so a caller can poll
// long-running refinement loops, and supports cleanup of stale entries.
type IterationStore interface {
	Store(ctx context.Context, record *IterationRecord) error
	Get(ctx context.Context, operationID string) (*IterationRecord, error)
	Update(ctx context.Context, operationID string, record *IterationRecord) error
	Delete(ctx context.Context, operationID string) error
	CleanupExpired(ctx context.Context, olderThan time.Duration) error
}
