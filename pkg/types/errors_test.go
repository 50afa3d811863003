package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskError(t *testing.T) {
	cause := errors.New("division by zero")
	err := NewTaskError(3, cause)

	assert.Equal(t, 3, err.TaskID)
	assert.Contains(t, err.Error(), "task 3")
	assert.Contains(t, err.Error(), "division by zero")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestTaskError_WrappedCause(t *testing.T) {
	cause := fmt.Errorf("compute step: %w", ErrInvalidArgument)
	err := NewTaskError(0, cause)

	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTaskError_As(t *testing.T) {
	var target *TaskError

	err := fmt.Errorf("worker boundary: %w", NewTaskError(7, errors.New("boom")))
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, 7, target.TaskID)
}

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w", ErrBrokenBarrier, errors.New("cohort member cancelled"))

	assert.ErrorIs(t, wrapped, ErrBrokenBarrier)
	assert.NotErrorIs(t, wrapped, ErrInvalidArgument)
}
