package observability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/tendril/pkg/observability"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.New(reg)

	m.ObserveRun("analyze", nil)
	m.ObserveRun("analyze", nil)
	m.ObserveRun("analyze", errors.New("boom"))
	m.AddVariablesCreated(4)
	m.AddVariablesCreated(0)
	m.AddVariablesRemoved(2)
	m.ObserveCompile(5 * time.Millisecond)

	assert.Equal(t, float64(3), sum(t, reg, "tendril_pipeline_runs_total"))
	assert.Equal(t, float64(4), sum(t, reg, "tendril_variables_created_total"))
	assert.Equal(t, float64(2), sum(t, reg, "tendril_variables_removed_total"))
}

func sum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	assert.NoError(t, err)
	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *observability.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("analyze", nil)
		m.AddVariablesCreated(1)
		m.AddVariablesRemoved(1)
		m.ObserveCompile(time.Millisecond)
	})
}
