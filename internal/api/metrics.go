package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records API call durations.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics creates the API collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "weblarek",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of remote API calls.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"op", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.duration)
	}
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.duration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
