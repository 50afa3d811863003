// Package types defines core interfaces and types for the rendezvous library
package types

import (
	"context"
)

// Task defines a unit of work that produces one partial result
type Task interface {
	// Execute runs the task and returns its partial result
	Execute(ctx context.Context) (float64, error)

	// ID returns the task id, unique within a run
	ID() int
}
