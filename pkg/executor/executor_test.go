package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/rendezvous/pkg/types"
)

// stubTask is a deterministic task for executor tests
type stubTask struct {
	id int
	fn func(ctx context.Context) (float64, error)
}

func (s *stubTask) ID() int {
	return s.id
}

func (s *stubTask) Execute(ctx context.Context) (float64, error) {
	return s.fn(ctx)
}

// eventRecorder collects events emitted during a run
type eventRecorder struct {
	mu     sync.Mutex
	events []types.Event
}

func (r *eventRecorder) Sink() types.EventSink {
	return func(e types.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	}
}

func (r *eventRecorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.events...)
}

func TestRun_InvalidTaskCount(t *testing.T) {
	tests := []struct {
		name      string
		taskCount int
	}{
		{
			name:      "zero tasks",
			taskCount: 0,
		},
		{
			name:      "negative tasks",
			taskCount: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &eventRecorder{}
			e := New(&Config{Events: recorder.Sink()})

			_, err := e.Run(context.Background(), tt.taskCount)

			assert.ErrorIs(t, err, types.ErrInvalidArgument)
			assert.Empty(t, recorder.Events(), "no task may execute on invalid input")
		})
	}
}

func TestRunTasks_CombinesPartials(t *testing.T) {
	const taskCount = 4

	recorder := &eventRecorder{}
	e := New(&Config{Events: recorder.Sink()})

	tasks := make([]types.Task, taskCount)
	for i := range tasks {
		id := i
		tasks[i] = &stubTask{id: id, fn: func(ctx context.Context) (float64, error) {
			return float64(id) * 10.0, nil
		}}
	}

	result, err := e.RunTasks(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, 60.0, result.Combined)
	assert.Equal(t, taskCount, result.Contributors)
	assert.NotEmpty(t, result.RunID)

	// One completion event per task, carrying the task's own partial.
	partials := make(map[int]float64)
	for _, e := range recorder.Events() {
		if tc, ok := e.(types.TaskCompleted); ok {
			partials[tc.TaskID] = tc.Partial
		}
	}
	assert.Equal(t, map[int]float64{0: 0.0, 1: 10.0, 2: 20.0, 3: 30.0}, partials)
}

func TestRunTasks_TaskFailureContributesFallback(t *testing.T) {
	const taskCount = 3
	taskErr := errors.New("compute blew up")

	recorder := &eventRecorder{}
	e := New(&Config{Events: recorder.Sink()})

	tasks := make([]types.Task, taskCount)
	for i := range tasks {
		id := i
		tasks[i] = &stubTask{id: id, fn: func(ctx context.Context) (float64, error) {
			if id == 1 {
				return 0, taskErr
			}
			return float64(id) * 10.0, nil
		}}
	}

	result, err := e.RunTasks(context.Background(), tasks)
	require.NoError(t, err, "a single task failure must not fail the run")

	assert.Equal(t, 20.0, result.Combined)
	assert.Equal(t, taskCount, result.Contributors, "the failed task still contributes the fallback")

	var failures []types.TaskFailed
	for _, e := range recorder.Events() {
		if tf, ok := e.(types.TaskFailed); ok {
			failures = append(failures, tf)
		}
	}
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].TaskID)
	assert.ErrorIs(t, failures[0].Err, taskErr)

	var taskFailedErr *types.TaskError
	assert.ErrorAs(t, failures[0].Err, &taskFailedErr)
}

func TestRunTasks_AggregatesOnceAfterAllWrites(t *testing.T) {
	const taskCount = 6

	recorder := &eventRecorder{}
	e := New(&Config{Events: recorder.Sink()})

	tasks := make([]types.Task, taskCount)
	for i := range tasks {
		id := i
		tasks[i] = &stubTask{id: id, fn: func(ctx context.Context) (float64, error) {
			return 1.0, nil
		}}
	}

	_, err := e.RunTasks(context.Background(), tasks)
	require.NoError(t, err)

	events := recorder.Events()

	aggregatedAt := -1
	var aggregated types.BarrierAggregated
	for i, e := range events {
		if ba, ok := e.(types.BarrierAggregated); ok {
			require.Equal(t, -1, aggregatedAt, "aggregation must run exactly once")
			aggregatedAt = i
			aggregated = ba
		}
	}
	require.NotEqual(t, -1, aggregatedAt)

	// Every contribution is recorded by the time the aggregation runs.
	assert.Equal(t, taskCount, aggregated.Contributors)
	assert.Equal(t, float64(taskCount), aggregated.Total)

	for i, e := range events {
		switch e.(type) {
		case types.TaskCompleted, types.TaskFailed:
			assert.Less(t, i, aggregatedAt, "task events precede the aggregation")
		case types.RunCompleted:
			assert.Greater(t, i, aggregatedAt, "run completion follows the aggregation")
			assert.Equal(t, len(events)-1, i, "run completion is the final event")
		}
	}
}

func TestRunTasks_CancellationFailsRun(t *testing.T) {
	recorder := &eventRecorder{}
	e := New(&Config{Events: recorder.Sink()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fastDone := make(chan struct{})
	tasks := []types.Task{
		&stubTask{id: 0, fn: func(ctx context.Context) (float64, error) {
			defer close(fastDone)
			return 1.0, nil
		}},
		&stubTask{id: 1, fn: func(ctx context.Context) (float64, error) {
			// Parks until the run is cancelled; the compute failure is
			// degraded to the fallback, but the cancelled context then
			// breaks the barrier for the whole cohort.
			<-ctx.Done()
			return 0, ctx.Err()
		}},
	}

	go func() {
		<-fastDone
		cancel()
	}()

	_, err := e.RunTasks(ctx, tasks)
	assert.ErrorIs(t, err, types.ErrBrokenBarrier)

	var failed bool
	for _, e := range recorder.Events() {
		if _, ok := e.(types.RunFailed); ok {
			failed = true
		}
		_, completed := e.(types.RunCompleted)
		assert.False(t, completed, "a broken run must not report completion")
	}
	assert.True(t, failed)
}

func TestRun_SeededRunsAreReproducible(t *testing.T) {
	cfg := &Config{
		InputLength: 32,
		ValueMin:    0.1,
		ValueMax:    10.0,
		Seed:        42,
	}

	first, err := New(cfg).Run(context.Background(), 4)
	require.NoError(t, err)

	second, err := New(cfg).Run(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, first.Combined, second.Combined)
	assert.Equal(t, 4, first.Contributors)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_GeneratedWorkload(t *testing.T) {
	cfg := &Config{
		InputLength: 16,
		ValueMin:    0.1,
		ValueMax:    10.0,
		MinDelay:    time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}

	result, err := New(cfg).Run(context.Background(), 3)
	require.NoError(t, err)

	// Inputs are strictly positive, so every partial is too.
	assert.Greater(t, result.Combined, 0.0)
	assert.Equal(t, 3, result.Contributors)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1000, cfg.InputLength)
	assert.Equal(t, 0.1, cfg.ValueMin)
	assert.Equal(t, 10.0, cfg.ValueMax)
	assert.Equal(t, 100*time.Millisecond, cfg.MinDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.MaxDelay)
	assert.NotNil(t, cfg.Clock)
}

func TestResultSet(t *testing.T) {
	rs := newResultSet(3)

	_, ok := rs.Combined()
	assert.False(t, ok, "combined cell starts unwritten")

	rs.Put(0, 1.5)
	rs.Put(1, 2.5)
	rs.Put(2, 0.0)
	assert.Equal(t, 3, rs.Len())

	snapshot := rs.Snapshot()
	assert.Equal(t, map[int]float64{0: 1.5, 1: 2.5, 2: 0.0}, snapshot)

	total, contributors := rs.Combine()
	assert.Equal(t, 4.0, total)
	assert.Equal(t, 3, contributors)

	combined, ok := rs.Combined()
	assert.True(t, ok)
	assert.Equal(t, 4.0, combined)
}

func BenchmarkRunTasks(b *testing.B) {
	e := New(&Config{})

	tasks := make([]types.Task, 8)
	for i := range tasks {
		id := i
		tasks[i] = &stubTask{id: id, fn: func(ctx context.Context) (float64, error) {
			return float64(id), nil
		}}
	}

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.RunTasks(ctx, tasks); err != nil {
			b.Fatal(fmt.Errorf("run failed: %w", err))
		}
	}
}
