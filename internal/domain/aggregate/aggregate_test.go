package aggregate_test

import (
	"errors"
	"testing"
	"time"

	aggregate "github.com/tracklite/checkind/internal/domain/aggregate"
	"github.com/tracklite/checkind/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(user string, ts time.Time, hours float64, project string) model.CheckinEvent {
	return model.CheckinEvent{User: user, Timestamp: ts, Hours: hours, Project: project}
}

func TestSummaryForUser(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	Convey("Given a snapshot with events for several users", t, func() {
		events := []model.CheckinEvent{
			event("alice", day1, 2.5, "atlas"),
			event("bob", day1, 4, "atlas"),
			event("alice", day2, 1.5, "borealis"),
			event("alice", day2, 3, "atlas"),
		}

		Convey("When summarizing alice", func() {
			summary, err := aggregate.SummaryForUser(events, "alice")

			Convey("Then hours sum over all her events", func() {
				So(err, ShouldBeNil)
				So(summary.TotalHours, ShouldAlmostEqual, 7.0)
			})

			Convey("And projects are distinct, in first-seen order", func() {
				So(summary.Projects, ShouldResemble, []string{"atlas", "borealis"})
				So(summary.ProjectCount, ShouldEqual, 2)
				So(summary.User, ShouldEqual, "alice")
			})
		})

		Convey("When summarizing a user with no events", func() {
			_, err := aggregate.SummaryForUser(events, "ghost")

			Convey("Then it should fail with ErrNoCheckins", func() {
				So(errors.Is(err, aggregate.ErrNoCheckins), ShouldBeTrue)
			})
		})
	})

	Convey("Given a user whose every event has zero hours", t, func() {
		events := []model.CheckinEvent{
			event("carol", day1, 0, "atlas"),
			event("carol", day2, 0, "atlas"),
		}

		Convey("When summarizing that user", func() {
			summary, err := aggregate.SummaryForUser(events, "carol")

			Convey("Then zero hours still counts as found", func() {
				So(err, ShouldBeNil)
				So(summary.TotalHours, ShouldEqual, 0.0)
				So(summary.ProjectCount, ShouldEqual, 1)
			})
		})
	})
}

func TestByUser(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	Convey("Given a snapshot with two users", t, func() {
		events := []model.CheckinEvent{
			event("alice", day, 2, "atlas"),
			event("bob", day, 3, "atlas"),
			event("alice", day, 4, "borealis"),
		}

		Convey("When aggregating by user", func() {
			rows := aggregate.ByUser(events)

			Convey("Then exactly one row per user comes back, first-seen order", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].User, ShouldEqual, "alice")
				So(rows[1].User, ShouldEqual, "bob")
			})

			Convey("And totals match each user's events", func() {
				So(rows[0].TotalHours, ShouldAlmostEqual, 6.0)
				So(rows[0].ProjectCount, ShouldEqual, 2)
				So(rows[1].TotalHours, ShouldAlmostEqual, 3.0)
				So(rows[1].ProjectCount, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty snapshot", t, func() {
		Convey("When aggregating by user", func() {
			rows := aggregate.ByUser(nil)

			Convey("Then the result is empty, not an error", func() {
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestByDay(t *testing.T) {
	Convey("Given events spread over two days", t, func() {
		events := []model.CheckinEvent{
			event("alice", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 2, "atlas"),
			event("bob", time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), 3, "atlas"),
			event("alice", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), 1, "borealis"),
			event("alice", time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), 1, "atlas"),
		}

		Convey("When aggregating by day", func() {
			rows := aggregate.ByDay(events)

			Convey("Then one row per calendar date comes back, ascending", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Date, ShouldEqual, "2024-01-01")
				So(rows[1].Date, ShouldEqual, "2024-01-02")
			})

			Convey("And each row counts distinct users, not events", func() {
				So(rows[0].TotalHours, ShouldAlmostEqual, 5.0)
				So(rows[0].DistinctUserCount, ShouldEqual, 2)
				So(rows[1].DistinctUserCount, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty snapshot", t, func() {
		Convey("When aggregating by day", func() {
			So(aggregate.ByDay(nil), ShouldBeEmpty)
		})
	})
}
