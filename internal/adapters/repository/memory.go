package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/pkg/metrics"
)

// MemoryStore is the in-memory Store implementation: an append-only slice
// behind a RWMutex. Snapshots are copies, so readers never see a batch that
// is still being appended and aggregation can run lock-free on its copy.
type MemoryStore struct {
	mu     sync.RWMutex
	events []model.CheckinEvent
	closed bool
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithInitialCapacity pre-sizes the backing slice for known workloads.
func WithInitialCapacity(capacity int) MemoryOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.events = make([]model.CheckinEvent, 0, capacity)
		}
	}
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(_ context.Context, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores the whole batch under one lock acquisition. Ids are
// assigned here; the caller's slice is never retained.
func (s *MemoryStore) Append(ctx context.Context, batch []model.CheckinEvent) (int, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	for _, e := range batch {
		e.ID = uuid.NewString()
		s.events = append(s.events, e)
	}

	metrics.RecordStoreAppendLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreSize(len(s.events))
	return len(batch), nil
}

// All returns a copy of the stored events in insertion order.
func (s *MemoryStore) All(ctx context.Context) ([]model.CheckinEvent, error) {
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	snapshot := make([]model.CheckinEvent, len(s.events))
	copy(snapshot, s.events)

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return snapshot, nil
}

// Count returns the number of stored events.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Close marks the store closed; later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
