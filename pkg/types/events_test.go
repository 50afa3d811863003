package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKinds(t *testing.T) {
	tests := []struct {
		event Event
		kind  string
	}{
		{TaskCompleted{}, "task_completed"},
		{TaskFailed{}, "task_failed"},
		{BarrierAggregated{}, "barrier_aggregated"},
		{RunCompleted{}, "run_completed"},
		{RunFailed{}, "run_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.event.Kind())
		})
	}
}

func TestEventSink_NilSafe(t *testing.T) {
	var sink EventSink

	assert.NotPanics(t, func() {
		sink.Emit(RunFailed{RunID: "r1", Err: errors.New("boom")})
	})
}

func TestFanoutSink(t *testing.T) {
	var first, second []Event

	sink := FanoutSink(
		func(e Event) { first = append(first, e) },
		nil,
		func(e Event) { second = append(second, e) },
	)

	sink.Emit(TaskCompleted{RunID: "r1", TaskID: 0, Partial: 1.0})
	sink.Emit(RunCompleted{RunID: "r1", Combined: 1.0, Contributors: 1})

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
}
