// Package metrics defines the Prometheus instruments of the controller.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "application"
	component = "controller"
)

// ReconcileDurationBuckets are the histogram buckets for reconcile duration in seconds.
var ReconcileDurationBuckets = []float64{0.01, 0.1, 0.25, 0.5, 1, 5, 15, 60}

// Metrics groups the reconcile counters and the duration histogram.
type Metrics struct {
	Reconciliations   prometheus.Counter
	Failures          prometheus.Counter
	ReconcileDuration prometheus.Histogram
	InFlight          prometheus.Gauge
}

// New creates the instruments and registers them on reg.
// It panics if any of them is already registered, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: component,
			Name:      "reconciliations_total",
			Help:      "Number of reconciliations performed.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: component,
			Name:      "reconciliation_errors_total",
			Help:      "Number of reconciliations that failed.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: component,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of a reconcile in seconds.",
			Buckets:   ReconcileDurationBuckets,
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: component,
			Name:      "reconciles_in_flight",
			Help:      "Number of reconciles currently running.",
		}),
	}
	reg.MustRegister(m.Reconciliations, m.Failures, m.ReconcileDuration, m.InFlight)
	return m
}

// ReconcileTimer measures one reconcile.
type ReconcileTimer struct {
	m     *Metrics
	start time.Time
}

// StartReconcile counts a reconciliation and returns a timer to stop once it
// has finished.
func (m *Metrics) StartReconcile() *ReconcileTimer {
	m.Reconciliations.Inc()
	m.InFlight.Inc()
	return &ReconcileTimer{m: m, start: time.Now()}
}

// ObserveDuration records the elapsed time in the duration histogram.
func (t *ReconcileTimer) ObserveDuration() {
	t.m.InFlight.Dec()
	t.m.ReconcileDuration.Observe(time.Since(t.start).Seconds())
}

// ReconcileFailure counts a failed reconciliation.
func (m *Metrics) ReconcileFailure() {
	m.Failures.Inc()
}
