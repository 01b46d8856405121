package script

import (
	"errors"
	"fmt"
)

// Errors for comparator scripts.
var (
	// ErrCompile is returned when a script does not compile.
	ErrCompile = errors.New("lua compile error")

	// ErrResult is returned when a script returns something other than a boolean.
	ErrResult = errors.New("lua comparator must return a boolean")

	// ErrClosed is returned when evaluating a closed comparator.
	ErrClosed = errors.New("lua comparator is closed")
)

// CompileError describes a script that failed to compile.
type CompileError struct {
	Source string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %q: %v", e.Source, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}
