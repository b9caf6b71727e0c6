package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/logging"
	"github.com/hay-kot/toaster/internal/core/metrics"
	"github.com/hay-kot/toaster/internal/core/toast"
	"github.com/hay-kot/toaster/internal/core/toaster"
)

// Epoch is the instant simulated runs start at.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const drainPoll = 10 * time.Millisecond

type options struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures a run.
type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	o := options{logger: logging.Component("replay")}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// session wires a toaster and a store the way a viewer would.
type session struct {
	toaster *toaster.Toaster
	store   *toast.Store
	rec     *recorder
	logger  zerolog.Logger
}

func newSession(timers clock.Timers, dispatch eventloop.Dispatch, emit func(Event), o options) *session {
	t := toaster.New(toaster.WithLogger(o.logger), toaster.WithMetrics(o.metrics))
	st := toast.NewStore(timers,
		toast.WithDispatch(dispatch),
		toast.WithLogger(o.logger),
		toast.WithMetrics(o.metrics),
	)

	rec := newRecorder(timers.Now(), timers, emit)
	st.OnChange(rec.observe)
	t.OnDrop(rec.dropped)

	return &session{toaster: t, store: st, rec: rec, logger: o.logger}
}

// apply performs everything but publish, which goes through the toaster
// from the producer side. Must run on the store's loop.
func (s *session) apply(step Step) {
	switch {
	case step.Close != nil:
		id := *step.Close
		s.rec.close(func() {
			if !s.store.Close(id) {
				s.logger.Debug().Uint64("id", id).Msg("close ignored: no live toast with id")
			}
		})
	case step.Note != "":
		s.rec.note(step.Note)
	case step.Mount:
		s.store.Mount(s.toaster)
		s.rec.lifecycle(EventMount)
	case step.Unmount:
		s.store.Unmount()
		s.rec.lifecycle(EventUnmount)
	}
}

func (s *session) idle() bool {
	_, armed := s.store.Scheduler().Armed()
	return !armed
}

// Simulate runs script on a manual clock starting at Epoch. Time jumps
// straight from one step or deadline to the next, so the run finishes
// immediately and always produces the same events.
func Simulate(script *Script, emit func(Event), opts ...Option) {
	o := newOptions(opts)

	m := clock.NewManual(Epoch)
	s := newSession(m, eventloop.Inline, emit, o)
	s.store.Mount(s.toaster)

	for _, step := range script.Steps {
		m.AdvanceTo(Epoch.Add(step.At))
		if step.Publish != nil {
			s.toaster.Publish(step.Publish.Notification())
			continue
		}
		s.apply(step)
	}

	if script.Until > 0 {
		m.AdvanceTo(Epoch.Add(script.Until))
	} else {
		for {
			next, ok := m.Next()
			if !ok {
				break
			}
			m.AdvanceTo(next)
		}
	}

	s.store.Unmount()
}

// Run plays script in real time using timers. The store runs on its own
// event loop; steps are issued from the calling goroutine. Run returns when
// the script is done or ctx is cancelled.
func Run(ctx context.Context, script *Script, timers clock.Timers, emit func(Event), opts ...Option) error {
	o := newOptions(opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := eventloop.New(logging.Sub(o.logger, "loop"))
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	s := newSession(timers, loop.Dispatch(), emit, o)
	if err := loop.Call(ctx, func() { s.store.Mount(s.toaster) }); err != nil {
		return err
	}

	start := s.rec.start
	for _, step := range script.Steps {
		if err := sleepUntil(ctx, timers, start.Add(step.At)); err != nil {
			return err
		}

		if step.Publish != nil {
			s.toaster.Publish(step.Publish.Notification())
			continue
		}
		loop.Post(func() { s.apply(step) })
	}

	if script.Until > 0 {
		if err := sleepUntil(ctx, timers, start.Add(script.Until)); err != nil {
			return err
		}
	} else if err := waitIdle(ctx, loop, s); err != nil {
		return err
	}

	if err := loop.Call(ctx, s.store.Unmount); err != nil {
		return err
	}

	cancel()
	if err := <-loopErr; err != nil && ctx.Err() == nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

func waitIdle(ctx context.Context, loop *eventloop.Loop, s *session) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for {
		var idle bool
		if err := loop.Call(ctx, func() { idle = s.idle() }); err != nil {
			return err
		}
		if idle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func sleepUntil(ctx context.Context, timers clock.Timers, at time.Time) error {
	d := at.Sub(timers.Now())
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
