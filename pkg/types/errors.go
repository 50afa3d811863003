// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrInvalidArgument indicates a construction or run parameter is invalid
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBrokenBarrier indicates the barrier entered broken state; the
	// current generation can never complete
	ErrBrokenBarrier = errors.New("barrier is broken")
)

// TaskError represents a failure of a single task's compute step.
// It is recovered at the worker boundary: the task contributes the
// fallback value instead, and the run still succeeds.
type TaskError struct {
	// TaskID is the id of the failed task
	TaskID int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.TaskID, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *TaskError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewTaskError creates a new task error
func NewTaskError(taskID int, cause error) *TaskError {
	return &TaskError{
		TaskID: taskID,
		Cause:  cause,
	}
}
