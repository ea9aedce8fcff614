// Package repository defines the checkin event store interface and errors.
package repository

import (
	"context"

	"github.com/tracklite/checkind/internal/domain/model"
)

// Store provides append-only access to stored checkin events.
// Events are immutable once appended and keep insertion order, which the
// read side relies on for deterministic tie-breaking.
type Store interface {
	// Append persists the whole batch atomically and assigns ids.
	// Either every event lands or none does; returns the stored count.
	Append(ctx context.Context, batch []model.CheckinEvent) (int, error)

	// All returns a snapshot of every stored event in insertion order.
	// Callers own the returned slice and may not observe later appends.
	All(ctx context.Context) ([]model.CheckinEvent, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) int
}
