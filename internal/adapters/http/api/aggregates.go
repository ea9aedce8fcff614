// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/tracklite/checkind/internal/domain/types"
)

// AggregateDependencies defines the interface for group-by reads.
type AggregateDependencies interface {
	AggregateByUser(ctx context.Context) ([]types.UserAggregateRow, error)
	AggregateByDay(ctx context.Context) ([]types.DailySummary, error)
}

// AggregateHandler handles the group-by endpoints.
type AggregateHandler struct {
	deps AggregateDependencies
}

// NewAggregateHandler creates a new aggregate handler.
func NewAggregateHandler(deps AggregateDependencies) *AggregateHandler {
	return &AggregateHandler{deps: deps}
}

// HandleByUser handles GET /checkins/by-user requests.
// An empty store answers with an empty array, never an error.
func (h *AggregateHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.by_user"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.AggregateByUser(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if rows == nil {
		rows = []types.UserAggregateRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleDaily handles GET /checkins/daily requests.
func (h *AggregateHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	const op = "api.daily"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.AggregateByDay(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if rows == nil {
		rows = []types.DailySummary{}
	}
	writeJSON(w, http.StatusOK, rows)
}
