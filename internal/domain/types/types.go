// Package types contains common types used across the application
package types

import "time"

// Checkin mirrors the read shape of a stored checkin event.
type Checkin struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Hours     float64   `json:"hours"`
	Project   string    `json:"project"`
}

// UserSummary describes one user's checkin totals.
type UserSummary struct {
	User         string   `json:"user"`
	TotalHours   float64  `json:"total_hours"`
	ProjectCount int      `json:"project_count"`
	Projects     []string `json:"projects"`
}

// UserAggregateRow is the group-by-user shape: one row per distinct user,
// without the explicit project list.
type UserAggregateRow struct {
	User         string  `json:"user"`
	TotalHours   float64 `json:"total_hours"`
	ProjectCount int     `json:"project_count"`
}

// DailySummary describes one calendar day's checkin totals.
type DailySummary struct {
	Date              string  `json:"date"`
	TotalHours        float64 `json:"total_hours"`
	DistinctUserCount int     `json:"distinct_user_count"`
}

// Page is one slice of a filtered, ordered result set.
// Total counts all matches before slicing; Pages is ceil(Total/Size).
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}
