// Package eventloop provides the single-threaded event loop the toast store
// and deadline scheduler run on. Everything posted to a Loop runs one at a
// time in posting order, so loop-confined state needs no locks.
package eventloop

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatch hands fn to an event loop. Implementations must not block.
type Dispatch func(fn func())

// Inline runs fn immediately on the caller's goroutine. It is the dispatch
// used when the caller already is the event loop, such as tests driving a
// simulated clock.
func Inline(fn func()) { fn() }

// Loop is an unbounded FIFO of functions executed by Run. Post never blocks
// and never drops, since a lost timer fire would leave the scheduler armed
// forever.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	logger zerolog.Logger

	hooksMu sync.RWMutex
	onPanic []func(recovered any)
}

// New creates a loop. It does nothing until Run is called.
func New(logger zerolog.Logger) *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Post enqueues fn. Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Dispatch returns Post as a Dispatch.
func (l *Loop) Dispatch() Dispatch {
	return l.Post
}

// Call posts fn and waits for it to finish. It must not be called from the
// loop itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnPanic registers a hook that fires when a posted function panics. The
// loop keeps running after a panic.
func (l *Loop) OnPanic(fn func(recovered any)) {
	l.hooksMu.Lock()
	l.onPanic = append(l.onPanic, fn)
	l.hooksMu.Unlock()
}

// Len returns the number of functions waiting to run.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run executes posted functions until ctx is cancelled. Functions still
// queued at cancellation are discarded.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.exec(fn)
		}

		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Str("panic", fmt.Sprint(r)).Msg("event loop handler panicked")
			l.runOnPanic(r)
		}
	}()
	fn()
}

func (l *Loop) runOnPanic(recovered any) {
	l.hooksMu.RLock()
	hooks := make([]func(any), len(l.onPanic))
	copy(hooks, l.onPanic)
	l.hooksMu.RUnlock()

	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(recovered)
		}()
	}
}
