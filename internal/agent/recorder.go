package agent

import (
	"context"
	"sync"
	"time"

	"questboard/internal/model"
)

// TurnRecorder accumulates the tasks created by tool calls during one chat
// turn. It is the rendezvous between the tool dispatcher (publisher) and the
// response compositor (consumer): the compositor waits for Finish with a
// bounded timeout instead of sleeping blindly.
type TurnRecorder struct {
	mu     sync.Mutex
	tasks  []model.Task
	done   chan struct{}
	finish sync.Once
}

// NewTurnRecorder creates a recorder for one chat turn.
func NewTurnRecorder() *TurnRecorder {
	return &TurnRecorder{done: make(chan struct{})}
}

// Record adds a task created during this turn. Safe for concurrent use.
func (r *TurnRecorder) Record(t model.Task) {
	r.mu.Lock()
	r.tasks = append(r.tasks, t)
	r.mu.Unlock()
}

// Finish marks the turn's side effects as settled. Idempotent.
func (r *TurnRecorder) Finish() {
	r.finish.Do(func() { close(r.done) })
}

// Wait blocks until Finish, the timeout, or ctx cancellation, then returns
// the tasks recorded so far. On timeout the return may miss late mutations;
// that degrades the turn's metadata, it does not corrupt state.
func (r *TurnRecorder) Wait(ctx context.Context, timeout time.Duration) []model.Task {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
	case <-timer.C:
	case <-ctx.Done():
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Task(nil), r.tasks...)
}

// Turn carries per-turn context through tool execution: which session the
// tools operate on, and where created tasks are reported.
type Turn struct {
	Scope    model.Scope
	Recorder *TurnRecorder
}

type turnKey struct{}

// WithTurn attaches the turn to ctx for tool dispatch.
func WithTurn(ctx context.Context, t Turn) context.Context {
	return context.WithValue(ctx, turnKey{}, t)
}

// TurnFromContext extracts the turn attached by WithTurn.
func TurnFromContext(ctx context.Context) (Turn, bool) {
	t, ok := ctx.Value(turnKey{}).(Turn)
	return t, ok
}
