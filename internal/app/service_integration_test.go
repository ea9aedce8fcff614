package service_test

import (
	"context"
	"path/filepath"
	"testing"

	service "github.com/tracklite/checkind/internal/app"
	"github.com/tracklite/checkind/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_SQLiteDurability(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkins.db")

	Convey("Given a service over a sqlite store", t, func() {
		svc := service.New(service.WithStoreDriver(config.DriverSQLite, dbPath))
		So(svc.Start(ctx), ShouldBeNil)

		result, err := svc.Ingest(ctx, seedRecords())
		So(err, ShouldBeNil)
		So(result.Stored, ShouldEqual, 4)
		svc.Stop()

		Convey("When a fresh service reopens the same database", func() {
			reopened := service.New(service.WithStoreDriver(config.DriverSQLite, dbPath))
			So(reopened.Start(ctx), ShouldBeNil)
			defer reopened.Stop()

			page, err := reopened.ListCheckins(ctx, 1, 10)

			Convey("Then the ingested batch survived the restart", func() {
				So(err, ShouldBeNil)
				So(page.Total, ShouldEqual, 4)
			})

			Convey("And aggregates compute over the reloaded snapshot", func() {
				rows, err := reopened.AggregateByUser(ctx)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
			})
		})
	})
}
