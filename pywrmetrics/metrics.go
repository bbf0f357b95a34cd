// Package pywrmetrics provides Prometheus metrics for model runs, the same
// promauto-based wiring the teacher's graph.PrometheusMetrics uses,
// generalized from node execution to per-(timestep, scenario) solves.
package pywrmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects run-level observability data: solve latency, active
// scenario concurrency, and solver failure counts by kind.
type Metrics struct {
	solveLatency   *prometheus.HistogramVec
	activeScenario prometheus.Gauge
	timestepsTotal *prometheus.CounterVec
	solverFailures *prometheus.CounterVec
}

// New creates and registers model-run metrics with registry (use
// prometheus.DefaultRegisterer for the global registry).
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		solveLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pywr",
			Name:      "solve_latency_ms",
			Help:      "Solver duration in milliseconds for one (timestep, scenario) solve",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"run_id", "status"}),

		activeScenario: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pywr",
			Name:      "active_scenarios",
			Help:      "Number of scenarios currently being solved concurrently",
		}),

		timestepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pywr",
			Name:      "timesteps_solved_total",
			Help:      "Cumulative count of (timestep, scenario) solves completed",
		}, []string{"run_id"}),

		solverFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pywr",
			Name:      "solver_failures_total",
			Help:      "Cumulative count of solver failures by error kind",
		}, []string{"run_id", "kind"}),
	}
}

// RecordSolve records one solve's duration and outcome.
func (m *Metrics) RecordSolve(runID string, d time.Duration, status string) {
	m.solveLatency.WithLabelValues(runID, status).Observe(float64(d.Milliseconds()))
	if status == "success" {
		m.timestepsTotal.WithLabelValues(runID).Inc()
	}
}

// RecordSolverFailure increments the failure counter for the given
// modelerr.Kind (passed as a plain string to avoid a dependency cycle).
func (m *Metrics) RecordSolverFailure(runID, kind string) {
	m.solverFailures.WithLabelValues(runID, kind).Inc()
}

// SetActiveScenarios updates the current in-flight scenario gauge.
func (m *Metrics) SetActiveScenarios(n int) {
	m.activeScenario.Set(float64(n))
}
