package toaster

import (
	"fmt"
	"sync"

	"github.com/hay-kot/toaster/internal/core/notify"
)

// hooks holds observer callbacks. They run after delivery or drop, outside
// the registry lock, and a panicking hook is recovered.
type hooks struct {
	mu        sync.RWMutex
	onDeliver []func(notify.Notification)
	onDrop    []func(notify.Notification)
	onPanic   []func(notify.Notification, any)
}

// OnDeliver registers a hook that fires after a notification reached a viewer.
func (t *Toaster) OnDeliver(fn func(notify.Notification)) {
	t.hooks.mu.Lock()
	t.hooks.onDeliver = append(t.hooks.onDeliver, fn)
	t.hooks.mu.Unlock()
}

// OnDrop registers a hook that fires when a notification is dropped because
// no viewer is registered.
func (t *Toaster) OnDrop(fn func(notify.Notification)) {
	t.hooks.mu.Lock()
	t.hooks.onDrop = append(t.hooks.onDrop, fn)
	t.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when an OnDeliver or OnDrop hook
// panics. It receives the notification and the recovered value.
func (t *Toaster) OnPanic(fn func(notify.Notification, any)) {
	t.hooks.mu.Lock()
	t.hooks.onPanic = append(t.hooks.onPanic, fn)
	t.hooks.mu.Unlock()
}

func (t *Toaster) runOnDeliver(n notify.Notification) {
	t.hooks.mu.RLock()
	fns := make([]func(notify.Notification), len(t.hooks.onDeliver))
	copy(fns, t.hooks.onDeliver)
	t.hooks.mu.RUnlock()
	t.run(fns, n)
}

func (t *Toaster) runOnDrop(n notify.Notification) {
	t.hooks.mu.RLock()
	fns := make([]func(notify.Notification), len(t.hooks.onDrop))
	copy(fns, t.hooks.onDrop)
	t.hooks.mu.RUnlock()
	t.run(fns, n)
}

func (t *Toaster) run(fns []func(notify.Notification), n notify.Notification) {
	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.hookPanicked(n, r)
				}
			}()
			fn(n)
		}()
	}
}

func (t *Toaster) hookPanicked(n notify.Notification, recovered any) {
	t.logger.Error().
		Str("title", n.Title).
		Str("panic", fmt.Sprint(recovered)).
		Msg("toast hook panicked")

	t.hooks.mu.RLock()
	fns := make([]func(notify.Notification, any), len(t.hooks.onPanic))
	copy(fns, t.hooks.onPanic)
	t.hooks.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(n, recovered)
		}()
	}
}
