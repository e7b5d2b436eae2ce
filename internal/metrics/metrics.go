// Package metrics instruments the amplitude engine with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photonic"

// Engine holds the collectors for recursive fills. A nil *Engine records nothing.
type Engine struct {
	cells      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	earlyStops prometheus.Counter
	errors     *prometheus.CounterVec
}

// NewEngine registers the engine collectors on reg.
func NewEngine(reg prometheus.Registerer) *Engine {
	factory := promauto.With(reg)
	return &Engine{
		// Labels: variant (vanilla, binomial, diagonal, leftover, vjp, jacobian)
		cells: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cells_total",
			Help:      "Amplitude cells computed by the recursive engine",
		}, []string{"variant"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "fill_seconds",
			Help:      "Wall time of one engine call in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"variant"}),
		earlyStops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "early_stops_total",
			Help:      "Binomial fills stopped before the global cutoff",
		}),
		// Labels: variant, reason (invalid_cutoff, shape_mismatch)
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Engine calls rejected by validation",
		}, []string{"variant", "reason"}),
	}
}

// ObserveFill records a completed call.
func (e *Engine) ObserveFill(variant string, cells int, elapsed time.Duration) {
	if e == nil {
		return
	}
	e.cells.WithLabelValues(variant).Add(float64(cells))
	e.duration.WithLabelValues(variant).Observe(elapsed.Seconds())
}

// EarlyStop records a binomial fill that stopped on its norm threshold.
func (e *Engine) EarlyStop() {
	if e == nil {
		return
	}
	e.earlyStops.Inc()
}

// Error records a rejected call.
func (e *Engine) Error(variant, reason string) {
	if e == nil {
		return
	}
	e.errors.WithLabelValues(variant, reason).Inc()
}
