// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the refinement, rounding
// and recovery stages. A nil *Collector is valid and records nothing, so
// library code can call it unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "stablesdp"
	subsystemRefine  = "refine"
	subsystemRound   = "rounding"
	subsystemRecover = "recovery"
)

// Collector groups every collector of the pipeline.
type Collector struct {
	refineIterations   prometheus.Counter
	refineSolveSeconds prometheus.Histogram
	refineRuns         *prometheus.CounterVec
	roundingCandidates *prometheus.CounterVec
	recoveryTotal      *prometheus.CounterVec
}

// New registers the collectors on reg (prometheus.DefaultRegisterer when nil).
// Registering twice on the same registry panics, as with promauto.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		refineIterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystemRefine,
			Name:      "iterations_total",
			Help:      "Total number of fixed-point re-solves",
		}),
		refineSolveSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystemRefine,
			Name:      "solve_seconds",
			Help:      "Time taken by one relaxation re-solve",
			Buckets:   prometheus.DefBuckets,
		}),
		refineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystemRefine,
			Name:      "runs_total",
			Help:      "Total number of refinement runs by termination reason",
		}, []string{"reason"}), // reason: "converged", "max_iterations", "stalled", "error"
		roundingCandidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystemRound,
			Name:      "candidates_total",
			Help:      "Total number of rounding candidates scored",
		}, []string{"mode"}), // mode: "hyperplane", "hyperplane_complex", "greedy"
		recoveryTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystemRecover,
			Name:      "total",
			Help:      "Total number of incidence-vector recoveries",
		}, []string{"scheme", "result"}), // result: "exact", "not_exact", "error"
	}
}

// ObserveIteration counts one re-solve and its duration.
func (c *Collector) ObserveIteration(d time.Duration) {
	if c == nil {
		return
	}
	c.refineIterations.Inc()
	c.refineSolveSeconds.Observe(d.Seconds())
}

// ObserveRun counts a finished refinement run.
func (c *Collector) ObserveRun(reason string) {
	if c == nil {
		return
	}
	c.refineRuns.WithLabelValues(reason).Inc()
}

// ObserveCandidates adds n scored candidates for mode.
func (c *Collector) ObserveCandidates(mode string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.roundingCandidates.WithLabelValues(mode).Add(float64(n))
}

// ObserveRecovery counts a recovery attempt.
func (c *Collector) ObserveRecovery(scheme, result string) {
	if c == nil {
		return
	}
	c.recoveryTotal.WithLabelValues(scheme, result).Inc()
}
