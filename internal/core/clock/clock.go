// Package clock provides the one-shot timer capability used by the deadline
// scheduler: "call fn at instant T, return a handle that can cancel it".
//
// Three implementations are provided. Runtime uses time.AfterFunc, Cron uses a
// gocron scheduler with one-time jobs, and Manual is a simulated clock whose
// timers only fire when the caller advances it.
package clock

import (
	"errors"
	"time"
)

// ErrStopped is returned by AfterFunc when the underlying timer source has
// been shut down.
var ErrStopped = errors.New("clock: timer source stopped")

// Handle cancels a pending timer. Stop is safe to call more than once and
// after the timer has fired.
type Handle interface {
	Stop()
}

// Timers reports the current time and arms one-shot callbacks at absolute
// instants. Callbacks may run on any goroutine; callers that need
// serialization must re-enter through their own event loop.
type Timers interface {
	Now() time.Time
	AfterFunc(at time.Time, fn func()) (Handle, error)
}

// Runtime is the Timers implementation backed by the Go runtime timer.
type Runtime struct{}

func (Runtime) Now() time.Time {
	return time.Now()
}

func (Runtime) AfterFunc(at time.Time, fn func()) (Handle, error) {
	d := max(time.Until(at), 0)
	return runtimeHandle{t: time.AfterFunc(d, fn)}, nil
}

type runtimeHandle struct {
	t *time.Timer
}

func (h runtimeHandle) Stop() {
	h.t.Stop()
}
