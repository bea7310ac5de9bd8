package session

import (
	"sync"
	"time"

	"questboard/internal/model"
)

// Alarm is the single scheduled wake-up owned by a session actor. It is either
// Idle (no timer) or Armed at the soonest task expiry. Reconcile is only
// called from the actor goroutine; the mutex exists because the fire callback
// and observers run on other goroutines.
type Alarm struct {
	now  func() time.Time
	fire func()

	mu     sync.Mutex
	timer  *time.Timer
	target time.Time // zero when Idle
}

func newAlarm(now func() time.Time, fire func()) *Alarm {
	return &Alarm{now: now, fire: fire}
}

// Reconcile moves the alarm to min(endTime) over tasks still in the future,
// or to Idle when there is none. Re-setting to the same target is a no-op so
// unrelated mutations do not churn the timer.
func (al *Alarm) Reconcile(tasks []model.Task) {
	now := al.now()

	var next time.Time
	for _, t := range tasks {
		if !t.EndTime.After(now) {
			continue
		}
		if next.IsZero() || t.EndTime.Before(next) {
			next = t.EndTime
		}
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	if next.IsZero() {
		if al.timer != nil {
			al.timer.Stop()
			al.timer = nil
		}
		al.target = time.Time{}
		return
	}

	if al.target.Equal(next) {
		return
	}

	if al.timer != nil {
		al.timer.Stop()
	}
	al.target = next
	al.timer = time.AfterFunc(next.Sub(now), al.fire)
}

// Stop cancels any armed timer. Called when the actor shuts down.
func (al *Alarm) Stop() {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.timer != nil {
		al.timer.Stop()
		al.timer = nil
	}
	al.target = time.Time{}
}

// Target returns the armed wake-up time, zero when Idle.
func (al *Alarm) Target() time.Time {
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.target
}
