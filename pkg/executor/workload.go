package executor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/jzx17/rendezvous/pkg/types"
)

// ComputeTask is the stub workload: it folds a fixed input slice through a
// non-linear transform, then waits out an artificial delay to emulate
// uneven work durations across tasks.
type ComputeTask struct {
	id    int
	data  []float64
	delay time.Duration
	clock types.Clock
}

// NewComputeTask creates a compute task over an immutable input slice.
// A nil clock is resolved from the execution context at Execute time.
func NewComputeTask(id int, data []float64, delay time.Duration, clock types.Clock) *ComputeTask {
	return &ComputeTask{
		id:    id,
		data:  data,
		delay: delay,
		clock: clock,
	}
}

// ID returns the task id
func (t *ComputeTask) ID() int {
	return t.id
}

// Execute sums sqrt(x)*log1p(x) over the input, then sleeps the configured
// delay. Cancellation during the delay fails the task, not the barrier.
func (t *ComputeTask) Execute(ctx context.Context) (float64, error) {
	var acc float64
	for _, x := range t.data {
		acc += math.Sqrt(x) * math.Log1p(x)
	}

	if t.delay > 0 {
		clock := t.clock
		if clock == nil {
			clock = types.ClockFromContext(ctx)
		}
		timer := clock.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-timer.C():
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	return acc, nil
}

// generateData produces the input slice for one task: InputLength values
// in [ValueMin, ValueMax), offset by the task id so tasks are
// distinguishable but not meaningfully correlated.
func generateData(rnd *rand.Rand, taskID, length int, min, max float64) []float64 {
	data := make([]float64, length)
	for i := range data {
		data[i] = min + rnd.Float64()*(max-min) + float64(taskID)
	}
	return data
}

// randomDelay picks a delay within [min, max]
func randomDelay(rnd *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rnd.Int63n(int64(max-min)))
}
