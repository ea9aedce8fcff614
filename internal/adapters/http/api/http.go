// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/paging"
	"github.com/tracklite/checkind/internal/domain/types"
	"github.com/tracklite/checkind/internal/ingest"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the stored checkins.
	ListCheckins(ctx context.Context, page, size int) (types.Page[types.Checkin], error)
	FilterCheckins(ctx context.Context, page, size int, filter paging.Filter) (types.Page[types.Checkin], error)
	UserSummary(ctx context.Context, user string) (types.UserSummary, error)
	AggregateByUser(ctx context.Context) ([]types.UserAggregateRow, error)
	AggregateByDay(ctx context.Context) ([]types.DailySummary, error)

	// Ingest submits a raw batch for all-or-nothing storage.
	Ingest(ctx context.Context, records []model.RawRecord) (ingest.Result, error)
}

// PageBounds carries the API-layer limits on the size query parameter.
// The paging core itself accepts any size >= 1; clamping to the exposed
// window is this layer's job.
type PageBounds struct {
	Default int
	Min     int
	Max     int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	checkinsHandler *CheckinsHandler
	summaryHandler  *SummaryHandler
	aggrHandler     *AggregateHandler
	bulkHandler     *BulkHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, bounds PageBounds) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		checkinsHandler: NewCheckinsHandler(deps, bounds),
		summaryHandler:  NewSummaryHandler(deps),
		aggrHandler:     NewAggregateHandler(deps),
		bulkHandler:     NewBulkHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/checkins/user-summary", MetricsMiddleware(s.summaryHandler.HandleUserSummary, "user_summary"))
	mux.HandleFunc("/checkins/by-user", MetricsMiddleware(s.aggrHandler.HandleByUser, "by_user"))
	mux.HandleFunc("/checkins/daily", MetricsMiddleware(s.aggrHandler.HandleDaily, "daily"))
	mux.HandleFunc("/checkins/by-date", MetricsMiddleware(s.checkinsHandler.HandleFiltered, "by_date"))
	mux.HandleFunc("/checkins/bulk", MetricsMiddleware(s.bulkHandler.HandleBulkIngest, "bulk"))
	mux.HandleFunc("/checkins", MetricsMiddleware(s.checkinsHandler.HandleList, "checkins"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseDateParam reads an optional date query parameter. Full datetimes are
// accepted and collapsed to their calendar date, mirroring the date-only
// comparison the filter performs.
func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, NewKind("api.parse_"+key, ErrBadRequest)
}
