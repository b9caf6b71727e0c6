package clock

import (
	"sync"
	"time"
)

// Manual is a simulated clock. Time only moves when Advance or AdvanceTo is
// called, and due timers fire synchronously, in instant order, on the
// caller's goroutine. Timers armed at or before the current instant fire on
// the next advance, including Advance(0).
type Manual struct {
	mu       sync.Mutex
	now      time.Time
	seq      uint64
	timers   []*manualTimer
	failNext error
}

type manualTimer struct {
	m   *Manual
	at  time.Time
	seq uint64
	fn  func()
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(at time.Time, fn func()) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failNext; err != nil {
		m.failNext = nil
		return nil, err
	}

	m.seq++
	t := &manualTimer{m: m, at: at, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t, nil
}

// FailNext makes the next AfterFunc call return err.
func (m *Manual) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Active returns the number of armed timers that have neither fired nor
// been stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Next returns the earliest armed instant.
func (m *Manual) Next() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.earliest()
	if t == nil {
		return time.Time{}, false
	}
	return t.at, true
}

// Set moves the clock to t without firing any timer.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d, firing due timers along the way.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.Now().Add(d))
}

// AdvanceTo moves the clock to target, firing every timer due at or before
// target. The clock reads each timer's instant while its callback runs, so
// callbacks that arm new timers see a consistent now. The clock never moves
// backwards.
func (m *Manual) AdvanceTo(target time.Time) {
	for {
		m.mu.Lock()
		next := m.earliest()
		if next == nil || next.at.After(target) {
			if target.After(m.now) {
				m.now = target
			}
			m.mu.Unlock()
			return
		}

		m.removeLocked(next)
		if next.at.After(m.now) {
			m.now = next.at
		}
		m.mu.Unlock()

		next.fn()
	}
}

func (m *Manual) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) removeLocked(target *manualTimer) {
	for i, t := range m.timers {
		if t == target {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

func (t *manualTimer) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.removeLocked(t)
}
