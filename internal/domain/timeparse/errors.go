package timeparse

import "errors"

// ErrUnparsable is the sentinel kind for timestamps no strategy matched.
var ErrUnparsable = errors.New("unparsable timestamp")

// ParseError reports a timestamp that matched none of the parse strategies.
// Raw is the original input, preserved untouched for diagnostics.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "could not parse timestamp: " + e.Raw
}

// Unwrap lets callers match with errors.Is(err, ErrUnparsable).
func (e *ParseError) Unwrap() error {
	return ErrUnparsable
}
