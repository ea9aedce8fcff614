// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tracklite/checkind/internal/domain/paging"
	"github.com/tracklite/checkind/internal/domain/types"
)

// ListDependencies defines the interface for paginated checkin reads.
type ListDependencies interface {
	ListCheckins(ctx context.Context, page, size int) (types.Page[types.Checkin], error)
	FilterCheckins(ctx context.Context, page, size int, filter paging.Filter) (types.Page[types.Checkin], error)
}

// CheckinsHandler handles paginated list requests.
type CheckinsHandler struct {
	deps   ListDependencies
	bounds PageBounds
}

// NewCheckinsHandler creates a new checkins handler.
func NewCheckinsHandler(deps ListDependencies, bounds PageBounds) *CheckinsHandler {
	return &CheckinsHandler{deps: deps, bounds: bounds}
}

// HandleList handles GET /checkins?page=N&size=M requests.
func (h *CheckinsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_checkins"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	page, size, err := h.pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := h.deps.ListCheckins(r.Context(), page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleFiltered handles GET /checkins/by-date requests with optional
// start_date, end_date and user filters.
func (h *CheckinsHandler) HandleFiltered(w http.ResponseWriter, r *http.Request) {
	const op = "api.filter_checkins"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	page, size, err := h.pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	var filter paging.Filter
	if filter.StartDate, err = parseDateParam(r, "start_date"); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if filter.EndDate, err = parseDateParam(r, "end_date"); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	filter.User = r.URL.Query().Get("user")

	result, err := h.deps.FilterCheckins(r.Context(), page, size, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// pageParams reads page and size, applying defaults and the exposed size
// window. page must be >= 1; size outside [Min, Max] is rejected rather
// than silently clamped, matching the original API contract.
func (h *CheckinsHandler) pageParams(r *http.Request) (page, size int, err error) {
	const op = "api.page_params"

	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, NewKind(op, ErrBadRequest)
		}
	}

	size = h.bounds.Default
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < h.bounds.Min || size > h.bounds.Max {
			return 0, 0, NewKind(op, ErrBadRequest)
		}
	}
	return page, size, nil
}
