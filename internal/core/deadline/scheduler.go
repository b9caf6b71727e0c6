// Package deadline implements the toast expiry scheduler: a min-heap of
// absolute deadlines driving a single one-shot timer.
package deadline

import (
	"container/heap"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/core/metrics"
)

// armed is the single outstanding timer. Its identity is what tells a live
// fire apart from a stale one that was already stopped.
type armed struct {
	at     time.Time
	handle clock.Handle
}

// Scheduler coalesces any number of pending deadlines into at most one
// armed timer, always set for the earliest deadline. When the timer fires
// it pops every due deadline, re-arms for the next one and calls onTick.
//
// A Scheduler is not safe for concurrent use. All methods and the tick must
// run on the same event loop; timer fires re-enter through the configured
// Dispatch.
type Scheduler struct {
	timers   clock.Timers
	onTick   func()
	dispatch eventloop.Dispatch
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	pending instants
	armed   *armed
	stalled bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatch sets how timer fires re-enter the event loop. Defaults to
// eventloop.Inline.
func WithDispatch(d eventloop.Dispatch) Option {
	return func(s *Scheduler) { s.dispatch = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logging.Sub(l, "deadline") }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates an idle scheduler. onTick is called once per timer fire,
// after due deadlines were popped and the next timer was armed.
func New(timers clock.Timers, onTick func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		timers:   timers,
		onTick:   onTick,
		dispatch: eventloop.Inline,
		logger:   logging.Component("deadline"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule adds a deadline. An idle scheduler arms a timer for it. An armed
// scheduler keeps its timer unless at is earlier than the armed instant, in
// which case the timer is replaced, so there is never more than one.
func (s *Scheduler) Schedule(at time.Time) {
	if s.stalled {
		s.logger.Debug().Time("at", at).Msg("scheduler stalled, deadline ignored")
		return
	}

	heap.Push(&s.pending, at)
	s.metrics.SetPending(s.pending.Len())
	s.logger.Debug().Time("at", at).Int("pending", s.pending.Len()).Msg("deadline scheduled")

	switch {
	case s.armed == nil:
		s.arm()
	case at.Before(s.armed.at):
		s.disarm()
		s.arm()
	default:
		s.logger.Debug().Time("armed", s.armed.at).Msg("timer already armed for an earlier deadline")
	}
}

// Cancel drops every pending deadline, stops the armed timer and clears a
// stalled state. Timer fires already in flight are ignored.
func (s *Scheduler) Cancel() {
	s.disarm()
	s.pending = nil
	s.stalled = false
	s.metrics.SetPending(0)
	s.logger.Debug().Msg("scheduler cancelled")
}

// Armed returns the instant the outstanding timer fires at.
func (s *Scheduler) Armed() (time.Time, bool) {
	if s.armed == nil {
		return time.Time{}, false
	}
	return s.armed.at, true
}

// Pending returns the number of deadlines in the heap.
func (s *Scheduler) Pending() int {
	return s.pending.Len()
}

// Stalled reports whether the timer primitive failed. A stalled scheduler
// fires no further ticks until Cancel is called.
func (s *Scheduler) Stalled() bool {
	return s.stalled
}

func (s *Scheduler) arm() {
	if s.pending.Len() == 0 {
		return
	}

	at := s.pending.peek()
	a := &armed{at: at}

	handle, err := s.timers.AfterFunc(at, func() {
		s.dispatch(func() { s.fire(a) })
	})
	if err != nil {
		s.logger.Error().Err(err).Time("at", at).Msg("failed to arm expiry timer, auto-expiry disabled")
		s.metrics.ObserveTimerFailure()
		s.pending = nil
		s.metrics.SetPending(0)
		s.stalled = true
		return
	}

	a.handle = handle
	s.armed = a
	s.logger.Debug().Time("at", at).Msg("timer armed")
}

func (s *Scheduler) disarm() {
	if s.armed == nil {
		return
	}
	s.armed.handle.Stop()
	s.armed = nil
}

func (s *Scheduler) fire(a *armed) {
	if s.armed != a {
		s.logger.Debug().Time("at", a.at).Msg("ignoring stale timer fire")
		return
	}
	s.armed = nil
	s.metrics.ObserveTick()

	now := s.timers.Now()
	due := 0
	for s.pending.Len() > 0 && !s.pending.peek().After(now) {
		heap.Pop(&s.pending)
		due++
	}
	s.metrics.SetPending(s.pending.Len())
	s.logger.Debug().Int("due", due).Int("pending", s.pending.Len()).Msg("tick")

	s.arm()

	if s.onTick != nil {
		s.onTick()
	}
}
