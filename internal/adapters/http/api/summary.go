// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tracklite/checkind/internal/domain/aggregate"
	"github.com/tracklite/checkind/internal/domain/types"
)

// SummaryDependencies defines the interface for user summary lookups.
type SummaryDependencies interface {
	UserSummary(ctx context.Context, user string) (types.UserSummary, error)
}

// SummaryHandler handles user summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleUserSummary handles GET /checkins/user-summary?user=NAME requests.
// A user with zero events is a 404, not an empty summary.
func (h *SummaryHandler) HandleUserSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	summary, err := h.deps.UserSummary(r.Context(), user)
	if err != nil {
		if errors.Is(err, aggregate.ErrNoCheckins) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
