package change

import (
	"errors"
	"fmt"
)

// Sentinel errors for change streams.
var (
	// ErrMoveUnsupported is the cause carried by a panic when a Move event is consumed.
	ErrMoveUnsupported = errors.New("move events are not supported")

	// ErrGrammar is returned when an event stream violates the event grammar.
	ErrGrammar = errors.New("invalid change event sequence")

	// ErrIndexOutOfRange is returned when an event references a position that does not exist.
	ErrIndexOutOfRange = errors.New("change index out of range")
)

// MoveError is the panic value raised when a Move event reaches a consumer.
type MoveError struct {
	// Indices are the positions the offending event carried.
	Indices []int
}

// Error implements the error interface.
func (e *MoveError) Error() string {
	return fmt.Sprintf("%v: indices %v", ErrMoveUnsupported, e.Indices)
}

// Is allows errors.Is to match MoveError with ErrMoveUnsupported.
func (e *MoveError) Is(target error) bool {
	return target == ErrMoveUnsupported
}

// GrammarError describes where an event stream broke the grammar.
type GrammarError struct {
	// Position is the zero-based index of the offending event in the stream.
	Position int

	// Kind is the kind of the offending event.
	Kind Kind

	// Reason describes the violation.
	Reason string
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	return fmt.Sprintf("event %d (%s): %s", e.Position, e.Kind, e.Reason)
}

// Unwrap returns ErrGrammar.
func (e *GrammarError) Unwrap() error {
	return ErrGrammar
}
