// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/timeparse"
	"github.com/tracklite/checkind/internal/ingest"
)

// BulkDependencies defines the interface for batch ingestion.
type BulkDependencies interface {
	Ingest(ctx context.Context, records []model.RawRecord) (ingest.Result, error)
}

// BulkHandler handles batch ingestion requests.
type BulkHandler struct {
	deps BulkDependencies
}

// NewBulkHandler creates a new bulk ingestion handler.
func NewBulkHandler(deps BulkDependencies) *BulkHandler {
	return &BulkHandler{deps: deps}
}

type bulkRequest struct {
	Records []rawRecord `json:"records"`
}

type rawRecord struct {
	User      string  `json:"user"`
	Timestamp string  `json:"timestamp"`
	Hours     float64 `json:"hours"`
	Project   string  `json:"project"`
}

func (r rawRecord) validate() error {
	switch {
	case r.User == "":
		return errors.New("user is required")
	case r.Timestamp == "":
		return errors.New("timestamp is required")
	case r.Hours < 0:
		return errors.New("hours must not be negative")
	}
	return nil
}

type bulkResponse struct {
	Stored int `json:"stored"`
}

type rejectionResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Record  int    `json:"record"`
	Raw     string `json:"raw,omitempty"`
}

// HandleBulkIngest handles POST /checkins/bulk requests. The batch is
// all-or-nothing: one unparseable timestamp rejects every record with a
// 422 naming the offender, and nothing is stored.
func (h *BulkHandler) HandleBulkIngest(w http.ResponseWriter, r *http.Request) {
	const op = "api.bulk_ingest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	records := make([]model.RawRecord, 0, len(req.Records))
	for i, rec := range req.Records {
		if err := rec.validate(); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
				Code:    "invalid_record",
				Message: err.Error(),
				Record:  i,
			})
			return
		}
		records = append(records, model.RawRecord{
			User:         rec.User,
			RawTimestamp: rec.Timestamp,
			Hours:        rec.Hours,
			Project:      rec.Project,
		})
	}

	result, err := h.deps.Ingest(r.Context(), records)
	if err != nil {
		var recErr *ingest.RecordError
		if errors.As(err, &recErr) {
			resp := rejectionResponse{
				Code:    "unparseable_timestamp",
				Message: recErr.Error(),
				Record:  recErr.Index,
			}
			var parseErr *timeparse.ParseError
			if errors.As(err, &parseErr) {
				resp.Raw = parseErr.Raw
			}
			writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, bulkResponse{Stored: result.Stored})
}
