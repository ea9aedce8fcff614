package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrNoCheckins marks a user-summary lookup that matched zero events.
	// Empty results everywhere else are plain empty slices, never errors.
	ErrNoCheckins = errors.New("no checkins found")
)
