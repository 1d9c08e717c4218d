package tacos

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "tacos"

// Metrics instruments workflow attempts.
type Metrics struct {
	attempts            *prometheus.CounterVec
	confirmationLatency *prometheus.HistogramVec
}

// NewMetrics creates the workflow collectors and registers them with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "workflow",
				Name:      "attempts_total",
				Help:      "Workflow attempts by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		confirmationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "workflow",
				Name:      "confirmation_latency_seconds",
				Help:      "Time from broadcast to observed inclusion",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.confirmationLatency)
	}

	return m
}

func (m *Metrics) observeAttempt(operation string, kind ErrorKind) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(operation, string(kind)).Inc()
}

func (m *Metrics) observeConfirmation(operation string, latency time.Duration) {
	if m == nil {
		return
	}
	m.confirmationLatency.WithLabelValues(operation).Observe(latency.Seconds())
}
