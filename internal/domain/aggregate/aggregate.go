// Package aggregate computes grouped summaries over a checkin snapshot.
//
// Every operation is a pure pass over the events it is handed: no caching, no
// incremental state. Results are deterministic for a fixed snapshot — group
// rows come out in first-seen order for users and ascending date order for
// days, and project lists keep first-seen order.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/types"
)

// SummaryForUser sums one user's hours and distinct projects.
// A user with zero events is ErrNoCheckins; events with zero hours still
// count as found.
func SummaryForUser(events []model.CheckinEvent, user string) (types.UserSummary, error) {
	summary := types.UserSummary{User: user}
	seen := make(map[string]struct{})
	found := false

	for _, e := range events {
		if e.User != user {
			continue
		}
		found = true
		summary.TotalHours += e.Hours
		if _, ok := seen[e.Project]; !ok {
			seen[e.Project] = struct{}{}
			summary.Projects = append(summary.Projects, e.Project)
		}
	}
	if !found {
		return types.UserSummary{}, fmt.Errorf("no checkins found for user %q: %w", user, ErrNoCheckins)
	}
	summary.ProjectCount = len(summary.Projects)
	return summary, nil
}

// ByUser produces one row per distinct user, in first-seen order.
// An empty snapshot yields an empty slice, not an error.
func ByUser(events []model.CheckinEvent) []types.UserAggregateRow {
	type bucket struct {
		hours    float64
		projects map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, e := range events {
		b, ok := buckets[e.User]
		if !ok {
			b = &bucket{projects: make(map[string]struct{})}
			buckets[e.User] = b
			order = append(order, e.User)
		}
		b.hours += e.Hours
		b.projects[e.Project] = struct{}{}
	}

	rows := make([]types.UserAggregateRow, 0, len(order))
	for _, user := range order {
		b := buckets[user]
		rows = append(rows, types.UserAggregateRow{
			User:         user,
			TotalHours:   b.hours,
			ProjectCount: len(b.projects),
		})
	}
	return rows
}

// ByDay produces one row per distinct calendar date, ascending.
// Dates derive from each timestamp's own location; no zone shifting.
func ByDay(events []model.CheckinEvent) []types.DailySummary {
	type bucket struct {
		hours float64
		users map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, e := range events {
		date := e.Date()
		b, ok := buckets[date]
		if !ok {
			b = &bucket{users: make(map[string]struct{})}
			buckets[date] = b
		}
		b.hours += e.Hours
		b.users[e.User] = struct{}{}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]types.DailySummary, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		rows = append(rows, types.DailySummary{
			Date:              date,
			TotalHours:        b.hours,
			DistinctUserCount: len(b.users),
		})
	}
	return rows
}
