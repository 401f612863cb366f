package controller

import (
	"context"
	"time"

	"appcontroller/internal/config"
	"appcontroller/internal/diagnostics"
	"appcontroller/internal/events"
	"appcontroller/internal/finalizer"
	"appcontroller/internal/metrics"
	"appcontroller/internal/workload"
	appv1 "appcontroller/pkg/apis/application/v1"
)

// Store is the API server view the reconciler needs.
type Store interface {
	finalizer.Patcher
	GetApplication(ctx context.Context, namespace, name string) (*appv1.Application, error)
	PatchApplicationStatus(ctx context.Context, app *appv1.Application, status appv1.ApplicationStatus) error
}

// Workloads creates and deletes the Deployment of an Application.
type Workloads interface {
	Create(ctx context.Context, spec appv1.ApplicationSpec, namespace string) (workload.Outcome, error)
	Delete(ctx context.Context, spec appv1.ApplicationSpec, namespace string) (workload.Outcome, error)
	Exists(ctx context.Context, name, namespace string) (bool, error)
}

// EventRecorder publishes Application events.
type EventRecorder interface {
	Emit(ctx context.Context, app *appv1.Application, reason events.EventReason, data events.EventData) error
}

// Options tunes the reconcile behaviour.
type Options struct {
	Finalizer    string
	RequeueAfter time.Duration
	DeployGuard  config.DeployGuard
}

// OptionsFromConfig extracts reconcile options from the configuration.
func OptionsFromConfig(cfg config.ReconcileConfig) Options {
	return Options{
		Finalizer:    cfg.Finalizer,
		RequeueAfter: cfg.RequeueAfter.Duration,
		DeployGuard:  cfg.DeployGuard,
	}
}

// ReconcileContext is built once per process and shared by every reconcile.
type ReconcileContext struct {
	Store       Store
	Workloads   Workloads
	Recorder    EventRecorder
	Diagnostics *diagnostics.Diagnostics
	Metrics     *metrics.Metrics
	Options     Options
}
