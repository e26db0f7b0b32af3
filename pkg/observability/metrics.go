// Package observability exposes Prometheus metrics for the interaction
// pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects pipeline counters. All methods are nil-safe so callers can
// run without metrics wired.
type Metrics struct {
	pipelineRuns     *prometheus.CounterVec
	variablesCreated prometheus.Counter
	variablesRemoved prometheus.Counter
	compileDuration  prometheus.Histogram
}

// New creates and registers the pipeline metrics. A nil registerer falls back
// to the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_pipeline_runs_total",
				Help: "Total pipeline runs by operation and result",
			},
			[]string{"operation", "result"},
		),
		variablesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tendril_variables_created_total",
			Help: "Total managed state variables created",
		}),
		variablesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tendril_variables_removed_total",
			Help: "Total managed state variables removed by retirement or sweep",
		}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "tendril_compile_duration_seconds",
			Help: "Duration of target-table compilation",
		}),
	}
	reg.MustRegister(m.pipelineRuns, m.variablesCreated, m.variablesRemoved, m.compileDuration)
	return m
}

// ObserveRun records one pipeline run outcome.
func (m *Metrics) ObserveRun(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pipelineRuns.WithLabelValues(operation, result).Inc()
}

// AddVariablesCreated records created state variables.
func (m *Metrics) AddVariablesCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.variablesCreated.Add(float64(n))
}

// AddVariablesRemoved records removed state variables.
func (m *Metrics) AddVariablesRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.variablesRemoved.Add(float64(n))
}

// ObserveCompile records one compilation duration.
func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.compileDuration.Observe(d.Seconds())
}
