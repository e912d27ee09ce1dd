// Package metrics records API request and pipeline step metrics.
//
// The tools are short-lived, so metrics are exported to a node_exporter
// textfile on exit instead of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hyblock_sdk"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	APIRequests     *prometheus.CounterVec
	APILatency      *prometheus.HistogramVec
	StepRuns        *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
	SurveyFailures  *prometheus.CounterVec
	SnapshotsStored prometheus.Counter
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		APIRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of Hyblock API requests",
			},
			[]string{"endpoint", "status"}, // status: HTTP code or error
		),
		APILatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Hyblock API request latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		StepRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_steps_total",
				Help:      "Total number of generation pipeline steps run",
			},
			[]string{"step", "status"}, // status: success|error
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_step_duration_seconds",
				Help:      "Generation pipeline step duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"step"},
		),
		SurveyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "survey_call_failures_total",
				Help:      "Survey calls that failed and were skipped",
			},
			[]string{"call"},
		),
		SnapshotsStored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_stored_total",
				Help:      "Total number of snapshots written to storage",
			},
		),
	}

	m.registry.MustRegister(
		m.APIRequests,
		m.APILatency,
		m.StepRuns,
		m.StepDuration,
		m.SurveyFailures,
		m.SnapshotsStored,
	)
	return m
}

// ObserveRequest records one API request.
func (m *Metrics) ObserveRequest(endpoint, status string, elapsed time.Duration) {
	m.APIRequests.WithLabelValues(endpoint, status).Inc()
	m.APILatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveStep records one pipeline step.
func (m *Metrics) ObserveStep(step string, ok bool, elapsed time.Duration) {
	status := "success"
	if !ok {
		status = "error"
	}
	m.StepRuns.WithLabelValues(step, status).Inc()
	m.StepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
}

// ObserveSurveyFailure records a skipped survey call.
func (m *Metrics) ObserveSurveyFailure(call string) {
	m.SurveyFailures.WithLabelValues(call).Inc()
}

// ObserveSnapshot records a stored snapshot.
func (m *Metrics) ObserveSnapshot() {
	m.SnapshotsStored.Inc()
}

// WriteTextfile writes every metric to path in the text exposition format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
