// Package session implements the per-key session actor runtime: a mailbox
// goroutine that serializes every operation (HTTP-triggered and timer-fired)
// for one session, plus the expiry alarm and the registry of live actors.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"questboard/internal/model"
	"questboard/internal/session/repository"
	"questboard/pkg/log"
)

// ErrClosed is returned when an operation reaches an actor that has been
// evicted or shut down. Callers obtain a fresh actor from the registry.
var ErrClosed = errors.New("session actor closed")

type op struct {
	ctx    context.Context
	fn     func(ctx context.Context, st *model.SessionState) error
	mutate bool
	reply  chan error
}

// Actor owns one session's state. All reads and writes happen on its
// goroutine, so operations are totally ordered and never observe torn state.
type Actor struct {
	key  string
	l    log.Logger
	repo repository.Repository
	now  func() time.Time

	alarm     *Alarm
	state     model.SessionState
	mailbox   chan op
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newActor(l log.Logger, repo repository.Repository, key string, st model.SessionState, now func() time.Time) *Actor {
	a := &Actor{
		key:     key,
		l:       l,
		repo:    repo,
		now:     now,
		state:   st,
		mailbox: make(chan op, 16),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	a.alarm = newAlarm(now, a.onAlarmFire)
	return a
}

// start launches the actor loop and runs an initial reconcile so rehydrated
// sessions sweep anything that expired while the process was down.
func (a *Actor) start() {
	go a.loop()

	boot := op{
		ctx:    context.Background(),
		fn:     func(context.Context, *model.SessionState) error { return nil },
		mutate: true,
		reply:  make(chan error, 1),
	}
	select {
	case a.mailbox <- boot:
	case <-a.closing:
	}
}

func (a *Actor) loop() {
	defer close(a.done)

	for {
		select {
		case o := <-a.mailbox:
			a.handle(o)
		case <-a.closing:
			// Drain whatever is already queued, then flush and stop.
			for {
				select {
				case o := <-a.mailbox:
					a.handle(o)
				default:
					a.alarm.Stop()
					a.persist(context.Background())
					return
				}
			}
		}
	}
}

func (a *Actor) handle(o op) {
	err := o.fn(o.ctx, &a.state)
	if o.mutate {
		a.reconcile(o.ctx)
		a.persist(o.ctx)
	}
	o.reply <- err
}

// reconcile sweeps expired tasks (silently: no XP, no history) and re-arms
// the alarm at the next expiry. Runs after every mutation and on alarm fire,
// so a reconcile that finds only expired tasks evicts them immediately
// instead of arming a timer in the past.
func (a *Actor) reconcile(ctx context.Context) {
	now := a.now()

	kept := a.state.Tasks[:0]
	evicted := 0
	for _, t := range a.state.Tasks {
		if t.EndTime.After(now) {
			kept = append(kept, t)
		} else {
			evicted++
		}
	}
	a.state.Tasks = kept

	if evicted > 0 {
		a.l.Infof(ctx, "session %s: evicted %d expired task(s)", a.key, evicted)
	}

	a.alarm.Reconcile(a.state.Tasks)
}

// persist is best-effort: a failed save is logged and the session keeps
// serving from memory rather than crashing.
func (a *Actor) persist(ctx context.Context) {
	if err := a.repo.Save(ctx, a.key, a.state); err != nil {
		a.l.Errorf(ctx, "session %s: state save failed, serving from memory: %v", a.key, err)
	}
}

// onAlarmFire runs on the timer goroutine and only enqueues; the sweep itself
// happens on the actor goroutine like every other operation.
func (a *Actor) onAlarmFire() {
	o := op{
		ctx:    context.Background(),
		fn:     func(context.Context, *model.SessionState) error { return nil },
		mutate: true,
		reply:  make(chan error, 1),
	}
	select {
	case a.mailbox <- o:
	case <-a.closing:
	}
}

func (a *Actor) submit(ctx context.Context, fn func(ctx context.Context, st *model.SessionState) error, mutate bool) error {
	o := op{ctx: ctx, fn: fn, mutate: mutate, reply: make(chan error, 1)}

	select {
	case a.mailbox <- o:
	case <-a.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-o.reply:
		return err
	case <-a.done:
		// The loop may have handled this op on its way out.
		select {
		case err := <-o.reply:
			return err
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update runs fn on the actor goroutine, then sweeps, re-arms the alarm and
// persists. fn's error is returned as-is.
func (a *Actor) Update(ctx context.Context, fn func(ctx context.Context, st *model.SessionState) error) error {
	return a.submit(ctx, fn, true)
}

// Read runs fn on the actor goroutine with no reconcile or persistence.
func (a *Actor) Read(ctx context.Context, fn func(ctx context.Context, st *model.SessionState) error) error {
	return a.submit(ctx, fn, false)
}

// NextWake reports the armed alarm target, zero when idle.
func (a *Actor) NextWake() time.Time {
	return a.alarm.Target()
}

// Close stops the actor after draining queued operations and flushing state.
func (a *Actor) Close() {
	a.closeOnce.Do(func() { close(a.closing) })
	<-a.done
}
