package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrUnknownCommand indicates a command the application does not understand.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a command with the wrong arguments.
	ErrUsage = errors.New("usage")
)

// InitError represents an error during application initialization.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// CommandError represents a failed command.
type CommandError struct {
	Command string
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
