// Package model contains domain models passed between layers.
package model

import "time"

// CheckinEvent represents one recorded unit of work: a user, a canonical
// timestamp, a project and the hours spent on it.
// Events are immutable once stored; the store assigns the ID on append.
type CheckinEvent struct {
	ID        string    // opaque unique id, assigned by the store
	User      string    // who logged the event
	Timestamp time.Time // canonical instant, whole-second precision
	Hours     float64   // non-negative duration in hours
	Project   string    // project the hours were logged against
}

// RawRecord is an unvalidated checkin as supplied by a bulk source.
// The timestamp is the original free-form string and still has to pass
// through the normalizer before the record can become a CheckinEvent.
type RawRecord struct {
	User         string
	RawTimestamp string
	Hours        float64
	Project      string
}

// Date returns the calendar date of the event in the timestamp's own
// location, formatted as YYYY-MM-DD. Grouping and date-range filtering
// key off this value so day boundaries never shift across zones.
func (e CheckinEvent) Date() string {
	return e.Timestamp.Format(time.DateOnly)
}
