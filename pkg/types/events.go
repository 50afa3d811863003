// Package types defines observability event types
package types

// Event is implemented by all observability events emitted during a run.
// Events are non-authoritative: delivery is best-effort and never part of
// the correctness contract.
type Event interface {
	// Kind returns a short identifier for the event type
	Kind() string
}

// TaskCompleted is emitted when a task's compute step succeeds
type TaskCompleted struct {
	// RunID identifies the run this event belongs to
	RunID string

	// TaskID is the id of the completed task
	TaskID int

	// Partial is the task's contribution to the aggregate
	Partial float64
}

// Kind returns the event kind
func (TaskCompleted) Kind() string { return "task_completed" }

// TaskFailed is emitted when a task's compute step fails and the fallback
// contribution is recorded instead
type TaskFailed struct {
	// RunID identifies the run this event belongs to
	RunID string

	// TaskID is the id of the failed task
	TaskID int

	// Err is the task error
	Err error
}

// Kind returns the event kind
func (TaskFailed) Kind() string { return "task_failed" }

// BarrierAggregated is emitted by the barrier action after it combined
// all partial results
type BarrierAggregated struct {
	// RunID identifies the run this event belongs to
	RunID string

	// Total is the combined result
	Total float64

	// Contributors is the number of partial results aggregated
	Contributors int
}

// Kind returns the event kind
func (BarrierAggregated) Kind() string { return "barrier_aggregated" }

// RunCompleted is emitted when a run finishes successfully
type RunCompleted struct {
	// RunID identifies the run this event belongs to
	RunID string

	// Combined is the final combined result
	Combined float64

	// Contributors is the number of partial results aggregated
	Contributors int
}

// Kind returns the event kind
func (RunCompleted) Kind() string { return "run_completed" }

// RunFailed is emitted when a run fails as a whole
type RunFailed struct {
	// RunID identifies the run this event belongs to
	RunID string

	// Err is the run-level error
	Err error
}

// Kind returns the event kind
func (RunFailed) Kind() string { return "run_failed" }

// EventSink receives observability events. A nil sink discards events.
type EventSink func(Event)

// Emit delivers an event to the sink, tolerating a nil sink
func (s EventSink) Emit(e Event) {
	if s != nil {
		s(e)
	}
}

// FanoutSink returns a sink that delivers each event to all given sinks
func FanoutSink(sinks ...EventSink) EventSink {
	return func(e Event) {
		for _, sink := range sinks {
			sink.Emit(e)
		}
	}
}
