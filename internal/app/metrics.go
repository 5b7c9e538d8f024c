package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics tracks session activity. Collectors live on a registry owned by
// the session so tests can run sessions side by side.
type Metrics struct {
	registry *prometheus.Registry

	events    *prometheus.CounterVec
	tasks     *prometheus.HistogramVec
	panics    prometheus.Counter
	revision  prometheus.Gauge
	listeners prometheus.Gauge
}

// NewMetrics creates the session collectors on a fresh registry. Go and
// process collectors are included when runtime is true.
func NewMetrics(runtime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weblarek",
			Name:      "events_published_total",
			Help:      "Bus publications by topic.",
		}, []string{"topic"}),
		tasks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weblarek",
			Subsystem: "loop",
			Name:      "task_duration_seconds",
			Help:      "Time spent running work on the session loop.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
		}, []string{"task"}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weblarek",
			Subsystem: "loop",
			Name:      "panics_total",
			Help:      "Panics recovered on the session loop.",
		}),
		revision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weblarek",
			Name:      "document_revision",
			Help:      "Revision of the rendered document.",
		}),
		listeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weblarek",
			Name:      "document_listeners",
			Help:      "DOM listeners registered on the document.",
		}),
	}
	reg.MustRegister(m.events, m.tasks, m.panics, m.revision, m.listeners)
	if runtime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the registry holding every session collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEvent counts one publication on topic.
func (m *Metrics) RecordEvent(topic string) {
	m.events.WithLabelValues(topic).Inc()
}

// RecordTask records how long loop work named task took.
func (m *Metrics) RecordTask(task string, d time.Duration) {
	m.tasks.WithLabelValues(task).Observe(d.Seconds())
}

// RecordPanic counts a recovered panic.
func (m *Metrics) RecordPanic() {
	m.panics.Inc()
}

// SetDocument publishes the document revision and listener count.
func (m *Metrics) SetDocument(revision uint64, listeners int) {
	m.revision.Set(float64(revision))
	m.listeners.Set(float64(listeners))
}
