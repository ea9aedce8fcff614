package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStorage = errors.New("storage failure")
	ErrClosed  = errors.New("store closed")
)
