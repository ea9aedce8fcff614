// Package paging filters, orders and slices checkin snapshots into pages.
package paging

import (
	"sort"
	"time"

	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/types"
)

// Filter narrows a snapshot before pagination. All fields are optional and
// combine with logical AND. Date bounds compare calendar dates only,
// inclusive on both ends; time-of-day is ignored.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	User      string
}

// Paginate applies filter, orders by timestamp descending with insertion
// order breaking ties, and returns the requested page.
//
// page must be >= 1 and size >= 1; bound validation against the API's
// [10,100] window belongs to the HTTP layer. A page past the end yields
// empty items with the same total and page count as page one.
func Paginate(events []model.CheckinEvent, page, size int, filter Filter) types.Page[model.CheckinEvent] {
	matched := make([]model.CheckinEvent, 0, len(events))
	for _, e := range events {
		if filter.matches(e) {
			matched = append(matched, e)
		}
	}

	// Stable keeps insertion order among equal timestamps, so repeated
	// calls against an unchanged snapshot page identically.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := len(matched)
	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}

	offset := (page - 1) * size
	items := []model.CheckinEvent{}
	if offset < total {
		end := offset + size
		if end > total {
			end = total
		}
		items = matched[offset:end]
	}

	return types.Page[model.CheckinEvent]{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pages,
	}
}

func (f Filter) matches(e model.CheckinEvent) bool {
	if f.User != "" && e.User != f.User {
		return false
	}
	date := e.Date()
	if f.StartDate != nil && date < f.StartDate.Format(time.DateOnly) {
		return false
	}
	if f.EndDate != nil && date > f.EndDate.Format(time.DateOnly) {
		return false
	}
	return true
}
