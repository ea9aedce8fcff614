package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tracklite/checkind/internal/domain/aggregate"
	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/paging"
	"github.com/tracklite/checkind/internal/domain/timeparse"
	"github.com/tracklite/checkind/internal/domain/types"
	"github.com/tracklite/checkind/internal/ingest"
	"github.com/tracklite/checkind/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// Mock implementations for testing
type mockDependencies struct {
	page        types.Page[types.Checkin]
	listErr     error
	summary     types.UserSummary
	summaryErr  error
	byUser      []types.UserAggregateRow
	daily       []types.DailySummary
	ingestRes   ingest.Result
	ingestErr   error
	gotFilter   paging.Filter
	gotPage     int
	gotSize     int
	gotRecords  []model.RawRecord
	gotUser     string
}

func (m *mockDependencies) ListCheckins(ctx context.Context, page, size int) (types.Page[types.Checkin], error) {
	m.gotPage, m.gotSize = page, size
	return m.page, m.listErr
}

func (m *mockDependencies) FilterCheckins(ctx context.Context, page, size int, filter paging.Filter) (types.Page[types.Checkin], error) {
	m.gotPage, m.gotSize, m.gotFilter = page, size, filter
	return m.page, m.listErr
}

func (m *mockDependencies) UserSummary(ctx context.Context, user string) (types.UserSummary, error) {
	m.gotUser = user
	return m.summary, m.summaryErr
}

func (m *mockDependencies) AggregateByUser(ctx context.Context) ([]types.UserAggregateRow, error) {
	return m.byUser, nil
}

func (m *mockDependencies) AggregateByDay(ctx context.Context) ([]types.DailySummary, error) {
	return m.daily, nil
}

func (m *mockDependencies) Ingest(ctx context.Context, records []model.RawRecord) (ingest.Result, error) {
	m.gotRecords = records
	return m.ingestRes, m.ingestErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func defaultBounds() PageBounds {
	return PageBounds{Default: 10, Min: 10, Max: 100}
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, defaultBounds())
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps)

		Convey("Then the health endpoint serves metrics", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint answers JSON", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "started")
		})

		Convey("And unknown paths fall through to 404", func() {
			req := httptest.NewRequest("GET", "/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCheckinsHandler_List(t *testing.T) {
	Convey("Given a checkins list endpoint", t, func() {
		deps := &mockDependencies{
			page: types.Page[types.Checkin]{Items: []types.Checkin{}, Total: 0, Page: 1, Size: 10, Pages: 0},
		}
		mux := newTestMux(deps)

		Convey("When no paging params are given", func() {
			req := httptest.NewRequest("GET", "/checkins", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then defaults apply", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotPage, ShouldEqual, 1)
				So(deps.gotSize, ShouldEqual, 10)
			})
		})

		Convey("When explicit params are given", func() {
			req := httptest.NewRequest("GET", "/checkins?page=3&size=25", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.gotPage, ShouldEqual, 3)
			So(deps.gotSize, ShouldEqual, 25)
		})

		Convey("When page is zero", func() {
			req := httptest.NewRequest("GET", "/checkins?page=0", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When size is below the window", func() {
			req := httptest.NewRequest("GET", "/checkins?size=5", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When size is above the window", func() {
			req := httptest.NewRequest("GET", "/checkins?size=101", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCheckinsHandler_Filtered(t *testing.T) {
	Convey("Given the by-date endpoint", t, func() {
		deps := &mockDependencies{
			page: types.Page[types.Checkin]{Items: []types.Checkin{}},
		}
		mux := newTestMux(deps)

		Convey("When date and user filters are given", func() {
			req := httptest.NewRequest("GET", "/checkins/by-date?start_date=2024-01-01&end_date=2024-01-31&user=alice", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the filter reaches the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotFilter.User, ShouldEqual, "alice")
				So(deps.gotFilter.StartDate, ShouldNotBeNil)
				So(deps.gotFilter.StartDate.Format(time.DateOnly), ShouldEqual, "2024-01-01")
				So(deps.gotFilter.EndDate.Format(time.DateOnly), ShouldEqual, "2024-01-31")
			})
		})

		Convey("When a datetime is passed as a bound", func() {
			req := httptest.NewRequest("GET", "/checkins/by-date?start_date=2024-01-01T09:30:00Z", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.gotFilter.StartDate.Format(time.DateOnly), ShouldEqual, "2024-01-01")
		})

		Convey("When a bound is garbage", func() {
			req := httptest.NewRequest("GET", "/checkins/by-date?start_date=yesterday", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSummaryHandler(t *testing.T) {
	Convey("Given the user-summary endpoint", t, func() {
		deps := &mockDependencies{
			summary: types.UserSummary{
				User:         "alice",
				TotalHours:   12.5,
				ProjectCount: 2,
				Projects:     []string{"apollo", "zephyr"},
			},
		}
		mux := newTestMux(deps)

		Convey("When the user exists", func() {
			req := httptest.NewRequest("GET", "/checkins/user-summary?user=alice", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the summary is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got types.UserSummary
				So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
				So(got.User, ShouldEqual, "alice")
				So(got.TotalHours, ShouldEqual, 12.5)
				So(got.Projects, ShouldResemble, []string{"apollo", "zephyr"})
			})
		})

		Convey("When the user has no checkins", func() {
			deps.summaryErr = fmt.Errorf("user %q: %w", "ghost", aggregate.ErrNoCheckins)
			req := httptest.NewRequest("GET", "/checkins/user-summary?user=ghost", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the user param is missing", func() {
			req := httptest.NewRequest("GET", "/checkins/user-summary", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAggregateHandler(t *testing.T) {
	Convey("Given the aggregate endpoints", t, func() {
		deps := &mockDependencies{
			byUser: []types.UserAggregateRow{
				{User: "alice", TotalHours: 8, ProjectCount: 2},
				{User: "bob", TotalHours: 4, ProjectCount: 1},
			},
			daily: []types.DailySummary{
				{Date: "2024-01-01", TotalHours: 12, DistinctUserCount: 2},
			},
		}
		mux := newTestMux(deps)

		Convey("When asking for the per-user rollup", func() {
			req := httptest.NewRequest("GET", "/checkins/by-user", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var rows []types.UserAggregateRow
			So(json.NewDecoder(w.Body).Decode(&rows), ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].User, ShouldEqual, "alice")
		})

		Convey("When asking for the daily rollup", func() {
			req := httptest.NewRequest("GET", "/checkins/daily", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "distinct_user_count")
		})

		Convey("When the store is empty", func() {
			deps.byUser = nil
			req := httptest.NewRequest("GET", "/checkins/by-user", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the body is an empty array, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestBulkHandler(t *testing.T) {
	Convey("Given the bulk ingestion endpoint", t, func() {
		deps := &mockDependencies{ingestRes: ingest.Result{Stored: 2}}
		mux := newTestMux(deps)

		Convey("When a valid batch is posted", func() {
			body := `{"records":[
				{"user":"alice","timestamp":"2024-01-01T09:00:00","hours":4,"project":"apollo"},
				{"user":"bob","timestamp":"5 марта 2024 14:30","hours":3.5,"project":"zephyr"}
			]}`
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the batch is stored", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(deps.gotRecords, ShouldHaveLength, 2)
				So(deps.gotRecords[1].RawTimestamp, ShouldEqual, "5 марта 2024 14:30")
				var resp bulkResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Stored, ShouldEqual, 2)
			})
		})

		Convey("When a record's timestamp cannot be parsed", func() {
			deps.ingestErr = &ingest.RecordError{
				Index: 1,
				Err:   &timeparse.ParseError{Raw: "sometime around lunch"},
			}
			body := `{"records":[
				{"user":"alice","timestamp":"2024-01-01","hours":4},
				{"user":"bob","timestamp":"sometime around lunch","hours":3}
			]}`
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then a 422 names the offending record", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				var resp rejectionResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "unparseable_timestamp")
				So(resp.Record, ShouldEqual, 1)
				So(resp.Raw, ShouldEqual, "sometime around lunch")
			})
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader("not json"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the batch is empty", func() {
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader(`{"records":[]}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a record is missing its user", func() {
			body := `{"records":[{"user":"","timestamp":"2024-01-01","hours":1}]}`
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When the store fails", func() {
			deps.ingestErr = fmt.Errorf("append: %w", errStorageTest)
			body := `{"records":[{"user":"alice","timestamp":"2024-01-01","hours":1}]}`
			req := httptest.NewRequest("POST", "/checkins/bulk", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

var errStorageTest = fmt.Errorf("disk full")

func TestRawRecord_Validate(t *testing.T) {
	Convey("Given raw record validation", t, func() {
		Convey("A complete record passes", func() {
			rec := rawRecord{User: "alice", Timestamp: "2024-01-01", Hours: 1}
			So(rec.validate(), ShouldBeNil)
		})

		Convey("Zero hours is allowed", func() {
			rec := rawRecord{User: "alice", Timestamp: "2024-01-01", Hours: 0}
			So(rec.validate(), ShouldBeNil)
		})

		Convey("Negative hours is rejected", func() {
			rec := rawRecord{User: "alice", Timestamp: "2024-01-01", Hours: -1}
			So(rec.validate(), ShouldNotBeNil)
		})

		Convey("A missing timestamp is rejected", func() {
			rec := rawRecord{User: "alice", Hours: 1}
			So(rec.validate(), ShouldNotBeNil)
		})
	})
}
