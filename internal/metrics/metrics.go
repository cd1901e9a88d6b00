// Package metrics exposes prometheus instrumentation for optimization runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// Metrics holds the prometheus collectors for the optimization service.
type Metrics struct {
	iterations  *prometheus.CounterVec
	bestFitness *prometheus.GaugeVec
	runDuration *prometheus.HistogramVec
	jobsRunning prometheus.Gauge
}

// New registers the service collectors on reg and returns them. Pass
// prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horde",
			Name:      "iterations_total",
			Help:      "Completed optimization iterations per algorithm.",
		}, []string{"algorithm"}),
		bestFitness: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "horde",
			Name:      "best_fitness",
			Help:      "Best fitness observed by the most recent iteration.",
		}, []string{"algorithm"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "horde",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of completed optimization runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"algorithm", "status"}),
		jobsRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "horde",
			Name:      "jobs_running",
			Help:      "Optimization jobs currently running.",
		}),
	}
}

// Observer returns a per-iteration observer feeding the collectors for the
// given algorithm.
func (m *Metrics) Observer(algorithm string) optimization.Observer {
	return optimization.ObserverFunc(func(iteration int, bestFit float64, bestPos []float64) {
		m.iterations.WithLabelValues(algorithm).Inc()
		m.bestFitness.WithLabelValues(algorithm).Set(bestFit)
	})
}

// JobStarted records a job entering the running state.
func (m *Metrics) JobStarted() {
	m.jobsRunning.Inc()
}

// JobFinished records a job leaving the running state with the given
// terminal status.
func (m *Metrics) JobFinished(algorithm, status string, started time.Time) {
	m.jobsRunning.Dec()
	m.runDuration.WithLabelValues(algorithm, status).Observe(time.Since(started).Seconds())
}
