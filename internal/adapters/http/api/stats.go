// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsProvider exposes the service's runtime counters: lifecycle state,
// active store driver and total stored checkins.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service-state snapshot.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests with a JSON snapshot of the
// provider's counters. Reading the snapshot also refreshes the store
// size gauge, so /stats doubles as a cheap poke for monitoring.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
