package controller

import (
	"errors"
	"time"

	"appcontroller/internal/config"
	"appcontroller/internal/metrics"
	"appcontroller/internal/reconciler"
	"appcontroller/internal/workload"
	"appcontroller/pkg/logging"
)

// maxBackoffShift bounds the exponent so the shift cannot overflow.
const maxBackoffShift = 30

// ErrorPolicy implements reconciler.ErrorPolicy.
type ErrorPolicy struct {
	mode           config.ErrorPolicyMode
	delay          time.Duration
	initialBackoff time.Duration
	maxBackoff     time.Duration
	metrics        *metrics.Metrics
}

// NewErrorPolicy builds the policy described by cfg.
func NewErrorPolicy(cfg config.ErrorPolicyConfig, m *metrics.Metrics) *ErrorPolicy {
	return &ErrorPolicy{
		mode:           cfg.Mode,
		delay:          cfg.Delay.Duration,
		initialBackoff: cfg.InitialBackoff.Duration,
		maxBackoff:     cfg.MaxBackoff.Duration,
		metrics:        m,
	}
}

// OnError counts the failure and returns when to retry. Malformed specs
// wait for the next change instead of retrying.
func (p *ErrorPolicy) OnError(req reconciler.Request, err error) reconciler.Action {
	p.metrics.ReconcileFailure()

	var serr *workload.SerializationError
	if errors.As(err, &serr) {
		logging.Error("ErrorPolicy", err, "Application %s has an invalid spec, waiting for a change", req.Key())
		return reconciler.AwaitChange()
	}

	delay := p.delay
	if p.mode == config.ErrorPolicyExponential {
		delay = p.calculateBackoff(req.Attempt)
	}

	logging.Warn("ErrorPolicy", "Reconcile of %s failed (attempt %d), retrying in %v: %v", req.Key(), req.Attempt, delay, err)
	return reconciler.RequeueAfter(delay)
}

// calculateBackoff computes initial * 2^(attempt-1), capped at maxBackoff.
func (p *ErrorPolicy) calculateBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}

	backoff := p.initialBackoff * time.Duration(1<<uint(shift))
	if backoff > p.maxBackoff || backoff <= 0 {
		backoff = p.maxBackoff
	}
	return backoff
}
