package loader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tracklite/checkind/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestParseRecords(t *testing.T) {
	Convey("Given CSV input", t, func() {
		Convey("When the file has a header row", func() {
			in := "user,timestamp,hours,project\n" +
				"alice,2024-01-01T09:00:00,4,apollo\n" +
				"bob,5 марта 2024 14:30,3.5,zephyr\n"
			records, err := parseRecords(strings.NewReader(in))

			Convey("Then the header is skipped and rows are kept verbatim", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].User, ShouldEqual, "alice")
				So(records[0].Hours, ShouldEqual, 4.0)
				So(records[1].Timestamp, ShouldEqual, "5 марта 2024 14:30")
			})
		})

		Convey("When the file has no header row", func() {
			in := "alice,2024-01-01,2,apollo\n"
			records, err := parseRecords(strings.NewReader(in))
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
		})

		Convey("When hours is not a number", func() {
			in := "alice,2024-01-01,lots,apollo\n"
			_, err := parseRecords(strings.NewReader(in))
			So(err, ShouldNotBeNil)
		})

		Convey("When a row has the wrong number of fields", func() {
			in := "alice,2024-01-01,2\n"
			_, err := parseRecords(strings.NewReader(in))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestChunk(t *testing.T) {
	Convey("Given a record slice", t, func() {
		records := make([]Record, 25)

		Convey("When chunked by 10", func() {
			batches := chunk(records, 10)
			So(batches, ShouldHaveLength, 3)
			So(batches[0], ShouldHaveLength, 10)
			So(batches[2], ShouldHaveLength, 5)
		})

		Convey("When the batch size exceeds the input", func() {
			batches := chunk(records, 100)
			So(batches, ShouldHaveLength, 1)
		})

		Convey("When the batch size is nonsense", func() {
			batches := chunk(records, 0)
			So(batches, ShouldHaveLength, 25)
		})
	})
}

func TestSubmitBatches(t *testing.T) {
	Convey("Given a service accepting bulk batches", t, func() {
		var received int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			var req bulkRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for _, rec := range req.Records {
				if rec.Timestamp == "garbage" {
					w.WriteHeader(http.StatusUnprocessableEntity)
					_ = json.NewEncoder(w).Encode(rejection{
						Code: "unparseable_timestamp", Record: 0, Raw: rec.Timestamp,
					})
					return
				}
			}
			atomic.AddInt64(&received, int64(len(req.Records)))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(bulkResponse{Stored: len(req.Records)})
		}))
		defer srv.Close()

		config := &Config{
			BaseURL:   srv.URL,
			BatchSize: 2,
			Workers:   2,
			Timeout:   5 * time.Second,
		}

		Convey("When every batch is clean", func() {
			records := []Record{
				{User: "alice", Timestamp: "2024-01-01", Hours: 1},
				{User: "bob", Timestamp: "2024-01-02", Hours: 2},
				{User: "carol", Timestamp: "2024-01-03", Hours: 3},
			}
			stats := &Stats{}
			err := submitBatches(context.Background(), config, chunk(records, config.BatchSize), stats)

			Convey("Then every record is stored", func() {
				So(err, ShouldBeNil)
				So(stats.BatchesSubmitted, ShouldEqual, 2)
				So(stats.BatchesRejected, ShouldEqual, 0)
				So(stats.RecordsStored, ShouldEqual, 3)
				So(atomic.LoadInt64(&received), ShouldEqual, 3)
			})
		})

		Convey("When one batch carries a bad timestamp", func() {
			records := []Record{
				{User: "alice", Timestamp: "2024-01-01", Hours: 1},
				{User: "bob", Timestamp: "garbage", Hours: 2},
			}
			stats := &Stats{}
			err := submitBatches(context.Background(), config, chunk(records, 1), stats)

			Convey("Then only that batch is rejected", func() {
				So(err, ShouldBeNil)
				So(stats.BatchesSubmitted, ShouldEqual, 2)
				So(stats.BatchesRejected, ShouldEqual, 1)
				So(stats.RecordsStored, ShouldEqual, 1)
			})
		})
	})
}

func TestRunFailsOnRejectedBatch(t *testing.T) {
	Convey("Given a service that rejects every batch", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(rejection{
				Code: "unparseable_timestamp", Record: 0, Raw: "garbage",
			})
		}))
		defer srv.Close()

		dir := t.TempDir()
		path := filepath.Join(dir, "checkins.csv")
		content := "alice,garbage,1,apollo\n"
		So(os.WriteFile(path, []byte(content), 0600), ShouldBeNil)

		Convey("When running a load against it", func() {
			config := &Config{
				BaseURL:   srv.URL,
				InputFile: path,
				BatchSize: 10,
				Workers:   1,
				Timeout:   5 * time.Second,
			}
			err := Run(context.Background(), config)

			Convey("Then the run reports failure instead of exiting clean", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "rejected")
			})
		})
	})
}

func TestRunDry(t *testing.T) {
	Convey("Given an input file with a mix of timestamps", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "checkins.csv")
		content := "user,timestamp,hours,project\n" +
			"alice,2024-01-01T09:00:00,4,apollo\n" +
			"bob,sometime around lunch,3,zephyr\n"
		So(os.WriteFile(path, []byte(content), 0600), ShouldBeNil)

		Convey("When run in dry-run mode", func() {
			config := &Config{InputFile: path, DryRun: true, BatchSize: 10, Workers: 1}
			err := Run(context.Background(), config)

			Convey("Then it finishes without touching any service", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
