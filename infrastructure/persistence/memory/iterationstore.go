package memory

import (
	"context"
	"sync"
	"time"

	"github.com/danja/semem-go/application/ports"
	apperrors "github.com/danja/semem-go/pkg/errors"
)

// IterationStore implements ports.IterationStore entirely in process
// memory, the same zero-dependency default posture as GraphStore in this
// package; operation records are only needed for the lifetime of a single
// poll cycle, not across restarts.
type IterationStore struct {
	mu      sync.RWMutex
	records map[string]*ports.IterationRecord
}

// NewIterationStore creates an empty in-memory iteration store.
func NewIterationStore() *IterationStore {
	return &IterationStore{records: make(map[string]*ports.IterationRecord)}
}

// Store implements ports.IterationStore.
func (s *IterationStore) Store(_ context.Context, record *ports.IterationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.OperationID] = &cp
	return nil
}

// Get implements ports.IterationStore.
func (s *IterationStore) Get(_ context.Context, operationID string) (*ports.IterationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[operationID]
	if !ok {
		return nil, apperrors.NewNotFound("iteration record %q not found", operationID)
	}
	cp := *r
	return &cp, nil
}

// Update implements ports.IterationStore.
func (s *IterationStore) Update(_ context.Context, operationID string, record *ports.IterationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	cp.OperationID = operationID
	s.records[operationID] = &cp
	return nil
}

// Delete implements ports.IterationStore.
func (s *IterationStore) Delete(_ context.Context, operationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, operationID)
	return nil
}

// CleanupExpired implements ports.IterationStore, dropping any record
// whose StartedAt is older than olderThan.
func (s *IterationStore) CleanupExpired(_ context.Context, olderThan time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	for id, r := range s.records {
		if r.StartedAt.Before(cutoff) {
			delete(s.records, id)
		}
	}
	return nil
}
