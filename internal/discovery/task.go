package discovery

import (
	"context"
	"time"

	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
)

// Outcome is the completed result of one Resolve call.
type Outcome struct {
	Seq      uint64
	State    filter.State
	Page     forum.ResultPage
	Strategy Strategy
	Err      error
	Duration time.Duration
}

// Task is an in-flight Resolve call.
type Task struct {
	Seq   uint64
	State filter.State

	done    chan struct{}
	outcome Outcome
}

func newTask(seq uint64, st filter.State) *Task {
	return &Task{Seq: seq, State: st, done: make(chan struct{})}
}

func (t *Task) finish(o Outcome) {
	t.outcome = o
	close(t.done)
}

// Done is closed once the outcome is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes or ctx ends. When ctx ends first the
// returned outcome carries ctx's error and the task's sequence number.
func (t *Task) Wait(ctx context.Context) Outcome {
	select {
	case <-t.done:
		return t.outcome
	case <-ctx.Done():
		return Outcome{Seq: t.Seq, State: t.State, Err: ctx.Err()}
	}
}
