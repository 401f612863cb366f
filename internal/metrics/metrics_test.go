package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.StartReconcile().ObserveDuration()
	m.ReconcileFailure()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["application_controller_reconciliations_total"])
	assert.True(t, names["application_controller_reconciliation_errors_total"])
	assert.True(t, names["application_controller_reconcile_duration_seconds"])
	assert.True(t, names["application_controller_reconciles_in_flight"])
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}

func TestReconcileCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	timer := m.StartReconcile()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InFlight))
	timer.ObserveDuration()
	m.StartReconcile().ObserveDuration()
	m.ReconcileFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Reconciliations))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Failures))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReconcileDuration))
}

func TestDurationBuckets(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.StartReconcile().ObserveDuration()

	expected := `
# HELP application_controller_reconciliation_errors_total Number of reconciliations that failed.
# TYPE application_controller_reconciliation_errors_total counter
application_controller_reconciliation_errors_total 0
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "application_controller_reconciliation_errors_total")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "application_controller_reconcile_duration_seconds" {
			continue
		}
		h := f.GetMetric()[0].GetHistogram()
		require.Len(t, h.GetBucket(), len(ReconcileDurationBuckets))
		for i, b := range h.GetBucket() {
			assert.Equal(t, ReconcileDurationBuckets[i], b.GetUpperBound())
		}
		assert.Equal(t, uint64(1), h.GetSampleCount())
	}
}
