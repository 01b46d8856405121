package filesource

import (
	"errors"
	"fmt"
)

// Errors for file sources.
var (
	// ErrWatching is returned when Watch is called on a source already being watched.
	ErrWatching = errors.New("file source is already watched")
)

// LoadError describes a file that could not be read or decoded. The source
// keeps its previous snapshot when a reload fails.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
