// Package toaster is the publish side of the toast subsystem. Producers hand
// notifications to a Toaster without knowing who renders them; the Toaster
// forwards each one to a single registered viewer or drops it.
package toaster

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/core/metrics"
	"github.com/hay-kot/toaster/internal/core/notify"
)

// Handler receives notifications delivered to a registered viewer. Handlers
// run on the publisher's goroutine and must not block.
type Handler func(notify.Notification)

// HandlerID identifies a registration. IDs are never reused by a Toaster.
type HandlerID uint64

type registration struct {
	id      HandlerID
	handler Handler
}

// Toaster routes notifications to at most one viewer. When several viewers
// are registered, the most recently registered one receives every
// notification; the others are idle until it deregisters.
//
// A Toaster is safe for concurrent use.
type Toaster struct {
	mu       sync.Mutex
	viewers  []registration
	nextID   HandlerID
	defaults map[notify.Kind]time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	hooks    hooks
}

// Option configures a Toaster.
type Option func(*Toaster)

func WithLogger(l zerolog.Logger) Option {
	return func(t *Toaster) { t.logger = logging.Sub(l, "toaster") }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Toaster) { t.metrics = m }
}

// WithLifetimes sets the lifetimes used by Infof, Successf, Warnf and
// Errorf. Kinds without an entry persist until closed.
func WithLifetimes(lifetimes map[notify.Kind]time.Duration) Option {
	return func(t *Toaster) {
		t.defaults = make(map[notify.Kind]time.Duration, len(lifetimes))
		for k, v := range lifetimes {
			t.defaults[k] = v
		}
	}
}

// New creates a Toaster with no viewers.
func New(opts ...Option) *Toaster {
	t := &Toaster{
		logger: logging.Component("toaster"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register adds a viewer. The returned Subscription deregisters it when
// closed.
func (t *Toaster) Register(h Handler) *Subscription {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.viewers = append(t.viewers, registration{id: id, handler: h})
	count := len(t.viewers)
	t.mu.Unlock()

	if count > 1 {
		t.logger.Warn().Int("viewers", count).Msg("more than one toast viewer registered, newest receives toasts")
	}
	t.logger.Debug().Uint64("viewer", uint64(id)).Msg("viewer registered")

	return &Subscription{toaster: t, id: id}
}

// Deregister removes a viewer. Unknown or already removed IDs are ignored.
func (t *Toaster) Deregister(id HandlerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, r := range t.viewers {
		if r.id == id {
			t.viewers = append(t.viewers[:i], t.viewers[i+1:]...)
			t.logger.Debug().Uint64("viewer", uint64(id)).Msg("viewer deregistered")
			return
		}
	}
}

// Viewers returns the number of registered viewers.
func (t *Toaster) Viewers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.viewers)
}

// Publish delivers n to the active viewer. With no viewer registered the
// notification is dropped: it is logged, counted and passed to the OnDrop
// hooks, and is never replayed to a viewer that registers later.
func (t *Toaster) Publish(n notify.Notification) {
	kind := n.Kind
	if kind == "" {
		kind = notify.KindDefault
	}
	t.metrics.ObservePublished(string(kind))

	t.mu.Lock()
	var active Handler
	if len(t.viewers) > 0 {
		active = t.viewers[len(t.viewers)-1].handler
	}
	t.mu.Unlock()

	if active == nil {
		t.logger.Warn().Str("title", n.Title).Msg("dropped toast: no toast viewer registered")
		t.metrics.ObserveDropped()
		t.runOnDrop(n)
		return
	}

	active(n)
	t.runOnDeliver(n)
}

// Infof publishes an info toast with the configured info lifetime.
func (t *Toaster) Infof(format string, args ...any) {
	t.publishf(notify.KindInfo, format, args...)
}

// Successf publishes a success toast with the configured success lifetime.
func (t *Toaster) Successf(format string, args ...any) {
	t.publishf(notify.KindSuccess, format, args...)
}

// Warnf publishes a warning toast with the configured warning lifetime.
func (t *Toaster) Warnf(format string, args ...any) {
	t.publishf(notify.KindWarning, format, args...)
}

// Errorf publishes a danger toast with the configured danger lifetime.
func (t *Toaster) Errorf(format string, args ...any) {
	t.publishf(notify.KindDanger, format, args...)
}

func (t *Toaster) publishf(kind notify.Kind, format string, args ...any) {
	n := notify.New(fmt.Sprintf(format, args...)).
		WithKind(kind).
		WithLifetime(t.defaults[kind])
	t.Publish(n)
}

// Subscription is a viewer registration. Close is idempotent.
type Subscription struct {
	toaster *Toaster
	id      HandlerID
	once    sync.Once
}

// ID returns the registration ID.
func (s *Subscription) ID() HandlerID {
	return s.id
}

// Close deregisters the viewer.
func (s *Subscription) Close() {
	s.once.Do(func() { s.toaster.Deregister(s.id) })
}
