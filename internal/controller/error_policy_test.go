package controller

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"appcontroller/internal/config"
	"appcontroller/internal/metrics"
	"appcontroller/internal/reconciler"
	"appcontroller/internal/workload"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestErrorPolicy_Fixed(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	policy := NewErrorPolicy(config.ErrorPolicyConfig{
		Mode:  config.ErrorPolicyFixed,
		Delay: config.NewDuration(5 * time.Minute),
	}, m)

	for attempt := 1; attempt <= 4; attempt++ {
		action := policy.OnError(reconciler.Request{Namespace: "default", Name: "a", Attempt: attempt}, errors.New("boom"))
		d, ok := action.Requeue()
		assert.True(t, ok)
		assert.Equal(t, 5*time.Minute, d)
	}
	assert.Equal(t, float64(4), testutil.ToFloat64(m.Failures))
}

func TestErrorPolicy_Exponential(t *testing.T) {
	policy := NewErrorPolicy(config.ErrorPolicyConfig{
		Mode:           config.ErrorPolicyExponential,
		InitialBackoff: config.NewDuration(time.Second),
		MaxBackoff:     config.NewDuration(time.Minute),
	}, metrics.New(prometheus.NewRegistry()))

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{6, 32 * time.Second},
		{7, time.Minute},
		{64, time.Minute},
		{1000, time.Minute},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			action := policy.OnError(reconciler.Request{Name: "a", Attempt: tt.attempt}, errors.New("boom"))
			d, ok := action.Requeue()
			assert.True(t, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestErrorPolicy_InvalidSpecAwaitsChange(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	policy := NewErrorPolicy(config.GetDefaultConfig().ErrorPolicy, m)

	err := &PhaseError{
		Phase: PhaseWorkloadCreate,
		Err:   &workload.SerializationError{Field: "spec.name", Value: "Bad", Reason: "not a DNS-1123 label"},
	}
	action := policy.OnError(reconciler.Request{Namespace: "default", Name: "a", Attempt: 1}, fmt.Errorf("apply failed: %w", err))

	_, ok := action.Requeue()
	assert.False(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Failures))
}
