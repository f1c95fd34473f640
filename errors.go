package gravitysim

import (
	"errors"
	"fmt"
)

// ErrDegenerateVector is returned by Vector2.Normalize when the vector has
// zero length and therefore no well-defined direction.
var ErrDegenerateVector = errors.New("gravitysim: degenerate vector")

// ErrEmptyOptions is wrapped by the error Options.Validate returns when a
// field holds an invalid value (for example a negative theta or a zero dt).
var ErrEmptyOptions = errors.New("gravitysim: invalid options")

// ErrEmptyPopulation exists for callers that want a named sentinel to
// compare against, but is never itself returned: a Step over an empty
// store is defined as a no-op, not an error.
var ErrEmptyPopulation = errors.New("gravitysim: no live particles")

// InvariantError reports a violation of one of the engine's structural
// invariants: a condition that should be impossible to reach given correct
// callers, as opposed to an expected, locally-recovered condition such as a
// refused subdivision or a degenerate interaction.
//
// Invariant violations are fatal to the step or build that discovers them,
// but are returned rather than panicked, since this package is meant to be
// embedded: an application calling Step should be able to recover and report
// the violation instead of crashing.
type InvariantError struct {
	// Component names the part of the engine that detected the violation,
	// e.g. "ParticleStore", "QuadTree", "SimulationEngine".
	Component string
	Err       error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("gravitysim: %s: invariant violation: %v", e.Component, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariantf(component, format string, args ...any) *InvariantError {
	return &InvariantError{Component: component, Err: fmt.Errorf(format, args...)}
}
