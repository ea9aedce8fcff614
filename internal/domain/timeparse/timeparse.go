// Package timeparse normalizes free-form timestamp strings onto canonical
// whole-second instants.
//
// Input arrives from bulk sources in a mix of ISO-like layouts and localized
// human formats. The normalizer runs an ordered chain of parse strategies and
// rounds the first successful result to the nearest second, so that two events
// logged inside the same second always group onto the same instant.
package timeparse

import (
	"time"
)

// Strategy is one parse rule in the fallback chain.
// TryParse reports ok=false when the rule does not match; the chain then
// moves on to the next strategy.
type Strategy interface {
	TryParse(raw string) (time.Time, bool)
}

// Normalizer collapses heterogeneous timestamp strings onto canonical
// instants. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	strategies []Strategy
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithStrategies replaces the default parse chain. Strategies are attempted
// in the given order; the first match wins and no cross-validation happens
// between stages.
func WithStrategies(strategies ...Strategy) Option {
	return func(n *Normalizer) {
		if len(strategies) > 0 {
			n.strategies = strategies
		}
	}
}

// New constructs a Normalizer with the default chain: a permissive
// multi-layout parse first, then the Russian month-name fallback.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		strategies: []Strategy{
			genericStrategy{},
			russianStrategy{},
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses raw and rounds the result to the nearest second.
// When no strategy matches it returns a *ParseError carrying the original,
// unmodified input.
func (n *Normalizer) Normalize(raw string) (time.Time, error) {
	for _, s := range n.strategies {
		if t, ok := s.TryParse(raw); ok {
			return roundToSecond(t), nil
		}
	}
	return time.Time{}, &ParseError{Raw: raw}
}

// roundToSecond rounds half-up on the sub-second fraction and truncates the
// remainder. Adding a whole second before truncation lets the carry ripple
// through minute, hour and day boundaries.
func roundToSecond(t time.Time) time.Time {
	if t.Nanosecond() >= int(500*time.Millisecond) {
		t = t.Add(time.Second)
	}
	return t.Truncate(time.Second)
}
