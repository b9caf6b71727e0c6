// Package metrics holds the Prometheus instruments for the toast subsystem.
// A nil *Metrics is valid and records nothing, so components can take an
// optional instance without branching.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the metric namespace used for every instrument.
const Namespace = "toaster"

// Metrics groups the counters and gauges updated by the toaster, the
// deadline scheduler and the toast store.
type Metrics struct {
	Published     *prometheus.CounterVec
	Dropped       prometheus.Counter
	Displayed     *prometheus.CounterVec
	Reaped        prometheus.Counter
	Closed        prometheus.Counter
	Ticks         prometheus.Counter
	TimerFailures prometheus.Counter
	Live          prometheus.Gauge
	Pending       prometheus.Gauge
}

// New registers all instruments with reg. Passing a fresh
// prometheus.NewRegistry keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "published_total",
			Help:      "Notifications submitted to the toaster, by kind",
		}, []string{"kind"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dropped_total",
			Help:      "Notifications dropped because no viewer was registered",
		}),
		Displayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "displayed_total",
			Help:      "Notifications inserted into a toast store, by kind",
		}, []string{"kind"}),
		Reaped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reaped_total",
			Help:      "Toasts removed because their lifetime elapsed",
		}),
		Closed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "closed_total",
			Help:      "Toasts removed by an explicit close request",
		}),
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scheduler_ticks_total",
			Help:      "Deadline scheduler timer fires",
		}),
		TimerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scheduler_timer_failures_total",
			Help:      "Failures to arm the deadline scheduler timer",
		}),
		Live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "live_toasts",
			Help:      "Toasts currently held by the store",
		}),
		Pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "scheduler_pending_deadlines",
			Help:      "Deadlines waiting in the scheduler heap",
		}),
	}
}

func (m *Metrics) ObservePublished(kind string) {
	if m == nil {
		return
	}
	m.Published.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) ObserveDisplayed(kind string, live int) {
	if m == nil {
		return
	}
	m.Displayed.WithLabelValues(kind).Inc()
	m.Live.Set(float64(live))
}

func (m *Metrics) ObserveReaped(n, live int) {
	if m == nil {
		return
	}
	m.Reaped.Add(float64(n))
	m.Live.Set(float64(live))
}

func (m *Metrics) ObserveClosed(n, live int) {
	if m == nil {
		return
	}
	m.Closed.Add(float64(n))
	m.Live.Set(float64(live))
}

func (m *Metrics) ObserveTick() {
	if m == nil {
		return
	}
	m.Ticks.Inc()
}

func (m *Metrics) ObserveTimerFailure() {
	if m == nil {
		return
	}
	m.TimerFailures.Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}
