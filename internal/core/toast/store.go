// Package toast holds the viewer-side state of the toast subsystem: the
// ordered list of live toasts, their expiry and the scheduler that reaps
// them.
package toast

import (
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/deadline"
	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/core/metrics"
	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/toaster"
)

// Entry is a live toast.
type Entry struct {
	ID           uint64
	Notification notify.Notification
	// Expiry is set once on insert and only meaningful when Expires is true.
	Expiry  time.Time
	Expires bool
}

// Closable reports whether a viewer should offer a dismiss control. Toasts
// with a lifetime go away on their own.
func (e Entry) Closable() bool {
	return !e.Expires
}

// Remaining returns how long the entry has left at now.
func (e Entry) Remaining(now time.Time) (time.Duration, bool) {
	if !e.Expires {
		return 0, false
	}
	return max(e.Expiry.Sub(now), 0), true
}

// Store owns the live toasts. It is not safe for concurrent use: every
// method must run on the store's event loop, which is also where timer
// ticks and toaster deliveries are dispatched.
type Store struct {
	timers   clock.Timers
	sched    *deadline.Scheduler
	dispatch eventloop.Dispatch
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	entries  []Entry
	nextID   uint64
	onChange []func([]Entry)
	sub      *toaster.Subscription
}

// Option configures a Store.
type Option func(*Store)

// WithDispatch sets the event loop the store runs on. Deliveries from the
// toaster and timer ticks are posted through it. Defaults to
// eventloop.Inline.
func WithDispatch(d eventloop.Dispatch) Option {
	return func(s *Store) { s.dispatch = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates an empty store with its own deadline scheduler.
func NewStore(timers clock.Timers, opts ...Option) *Store {
	s := &Store{
		timers:   timers,
		dispatch: eventloop.Inline,
		logger:   logging.Component("toast"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sched = deadline.New(timers, func() { s.Reap() },
		deadline.WithDispatch(s.dispatch),
		deadline.WithLogger(s.logger),
		deadline.WithMetrics(s.metrics),
	)
	s.logger = logging.Sub(s.logger, "toast")

	return s
}

// Mount registers the store as t's viewer. Deliveries are posted onto the
// store's event loop, so producers may publish from any goroutine. A
// delivery still queued when its registration is unmounted is discarded.
// Mounting again first unmounts the previous registration. Deadlines of
// entries kept across an Unmount are scheduled again.
func (s *Store) Mount(t *toaster.Toaster) {
	s.Unmount()

	var sub *toaster.Subscription
	sub = t.Register(func(n notify.Notification) {
		s.dispatch(func() {
			if s.sub != sub {
				s.logger.Debug().Str("title", n.Title).Msg("toast discarded: store unmounted")
				return
			}
			s.Display(n)
		})
	})
	s.sub = sub

	for _, e := range s.entries {
		if e.Expires {
			s.sched.Schedule(e.Expiry)
		}
	}
}

// Unmount deregisters from the toaster and disarms the expiry timer. Live
// entries stay in place but no longer expire until the store is mounted
// again.
func (s *Store) Unmount() {
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
	s.sched.Cancel()
}

// OnChange registers fn to receive a snapshot after every change to the
// live entries.
func (s *Store) OnChange(fn func([]Entry)) {
	s.onChange = append(s.onChange, fn)
}

// Display inserts n and returns its id. Notifications with a lifetime get
// an absolute expiry and a deadline in the scheduler.
func (s *Store) Display(n notify.Notification) uint64 {
	id := s.nextID
	s.nextID++

	e := Entry{ID: id, Notification: n}
	if n.Expires() {
		e.Expiry = s.timers.Now().Add(n.Lifetime)
		e.Expires = true
	}

	s.entries = append(s.entries, e)
	s.metrics.ObserveDisplayed(kindLabel(n.Kind), len(s.entries))
	s.logger.Debug().Uint64("id", id).Str("title", n.Title).Bool("expires", e.Expires).Msg("toast displayed")

	if e.Expires {
		s.sched.Schedule(e.Expiry)
	}

	s.changed()
	return id
}

// Close removes the entry with id. It reports whether anything was removed;
// closing an unknown or already reaped id is a no-op.
func (s *Store) Close(id uint64) bool {
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if len(s.entries) == before {
		return false
	}

	s.metrics.ObserveClosed(1, len(s.entries))
	s.logger.Debug().Uint64("id", id).Msg("toast closed")
	s.changed()
	return true
}

// CloseAll removes every entry and returns how many were removed.
func (s *Store) CloseAll() int {
	n := len(s.entries)
	if n == 0 {
		return 0
	}
	s.entries = s.entries[:0]
	s.metrics.ObserveClosed(n, 0)
	s.logger.Debug().Int("closed", n).Msg("toasts closed")
	s.changed()
	return n
}

// Reap removes every entry whose expiry is at or before now and returns the
// number removed. Entries without a lifetime are never reaped. Remaining
// deadlines are already in the scheduler, so nothing is rescheduled.
func (s *Store) Reap() int {
	now := s.timers.Now()
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e Entry) bool {
		return e.Expires && !e.Expiry.After(now)
	})

	reaped := before - len(s.entries)
	if reaped == 0 {
		return 0
	}

	s.metrics.ObserveReaped(reaped, len(s.entries))
	s.logger.Debug().Int("reaped", reaped).Int("live", len(s.entries)).Msg("toasts reaped")
	s.changed()
	return reaped
}

// Entries returns a copy of the live entries, oldest first.
func (s *Store) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Scheduler exposes the store's deadline scheduler for inspection.
func (s *Store) Scheduler() *deadline.Scheduler {
	return s.sched
}

func (s *Store) changed() {
	if len(s.onChange) == 0 {
		return
	}
	snapshot := s.Entries()
	for _, fn := range s.onChange {
		fn(snapshot)
	}
}

func kindLabel(k notify.Kind) string {
	if k == "" {
		return string(notify.KindDefault)
	}
	return string(k)
}
