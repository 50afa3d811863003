// Package executor runs cohorts of tasks that synchronize on a rendezvous
// barrier and aggregates their partial results exactly once per run.
package executor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jzx17/rendezvous/pkg/barrier"
	"github.com/jzx17/rendezvous/pkg/types"
)

// Config defines configuration for the executor
type Config struct {
	// InputLength is the number of input values generated per task
	InputLength int

	// ValueMin and ValueMax bound the generated input values
	ValueMin float64
	ValueMax float64

	// MinDelay and MaxDelay bound the artificial per-task delay
	MinDelay time.Duration
	MaxDelay time.Duration

	// Seed seeds input and delay generation; zero picks a time-based seed
	Seed int64

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Events receives observability events (optional)
	Events types.EventSink
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		InputLength: 1000,
		ValueMin:    0.1,
		ValueMax:    10.0,
		MinDelay:    100 * time.Millisecond,
		MaxDelay:    300 * time.Millisecond,
		Clock:       types.NewRealClock(),
	}
}

// RunResult is the outcome of a successful run
type RunResult struct {
	// RunID uniquely identifies the run
	RunID string

	// Combined is the aggregated result of all tasks
	Combined float64

	// Contributors is the number of partial results aggregated
	Contributors int
}

// Executor runs cohorts of tasks under barrier discipline
type Executor struct {
	config *Config
}

// New creates a new executor
func New(config *Config) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Clock == nil {
		config.Clock = types.NewRealClock()
	}
	return &Executor{config: config}
}

// Run generates taskCount stub workloads and executes them as one barrier
// cohort, returning the combined result
func (e *Executor) Run(ctx context.Context, taskCount int) (RunResult, error) {
	if taskCount <= 0 {
		return RunResult{}, fmt.Errorf("%w: task count must be positive, got %d", types.ErrInvalidArgument, taskCount)
	}

	seed := e.config.Seed
	if seed == 0 {
		seed = e.config.Clock.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	tasks := make([]types.Task, taskCount)
	for i := range tasks {
		data := generateData(rnd, i, e.config.InputLength, e.config.ValueMin, e.config.ValueMax)
		delay := randomDelay(rnd, e.config.MinDelay, e.config.MaxDelay)
		tasks[i] = NewComputeTask(i, data, delay, e.config.Clock)
	}

	return e.RunTasks(ctx, tasks)
}

// RunTasks executes caller-supplied tasks as one barrier cohort. Every task
// contributes exactly one partial result under its id: its computed value on
// success, or 0.0 on failure. The aggregation runs exactly once, after the
// last task has recorded its contribution and before any worker returns.
//
// A failed task degrades its own contribution but never fails the run. A
// broken barrier fails the run as a whole; no combined result is returned.
func (e *Executor) RunTasks(ctx context.Context, tasks []types.Task) (RunResult, error) {
	if len(tasks) == 0 {
		return RunResult{}, fmt.Errorf("%w: no tasks to run", types.ErrInvalidArgument)
	}

	runID := uuid.NewString()
	results := newResultSet(len(tasks))
	events := e.config.Events

	// contributors is written by the barrier action and read after all
	// workers join; the barrier provides the happens-before edge.
	var contributors int
	b, err := barrier.New(len(tasks), func() error {
		total, n := results.Combine()
		contributors = n
		events.Emit(types.BarrierAggregated{RunID: runID, Total: total, Contributors: n})
		return nil
	})
	if err != nil {
		return RunResult{}, err
	}

	awaitErrs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task types.Task) {
			defer wg.Done()

			partial, err := task.Execute(ctx)
			if err != nil {
				// Degrade to the fallback contribution so the cohort's
				// aggregation still completes.
				results.Put(task.ID(), 0.0)
				events.Emit(types.TaskFailed{RunID: runID, TaskID: task.ID(), Err: types.NewTaskError(task.ID(), err)})
			} else {
				results.Put(task.ID(), partial)
				events.Emit(types.TaskCompleted{RunID: runID, TaskID: task.ID(), Partial: partial})
			}

			awaitErrs[i] = b.Await(ctx)
		}(i, task)
	}
	wg.Wait()

	for _, err := range awaitErrs {
		if err != nil {
			events.Emit(types.RunFailed{RunID: runID, Err: err})
			return RunResult{RunID: runID}, err
		}
	}

	combined, ok := results.Combined()
	if !ok {
		// Every worker passed the barrier, so the action must have run.
		err := fmt.Errorf("%w: aggregation never ran", types.ErrBrokenBarrier)
		events.Emit(types.RunFailed{RunID: runID, Err: err})
		return RunResult{RunID: runID}, err
	}

	result := RunResult{RunID: runID, Combined: combined, Contributors: contributors}
	events.Emit(types.RunCompleted{RunID: runID, Combined: combined, Contributors: contributors})
	return result, nil
}
