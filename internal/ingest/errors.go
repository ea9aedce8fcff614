package ingest

import "fmt"

// RecordError pins a batch failure to the record that caused it.
// It wraps the underlying cause, so errors.Is/As see through to the
// normalizer's ParseError and its preserved raw string.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
