// Package controller holds the Application reconcile logic and its error
// policy. It plugs into the generic loop driver in internal/reconciler.
package controller

import (
	"context"
	"errors"

	"appcontroller/internal/config"
	"appcontroller/internal/events"
	"appcontroller/internal/finalizer"
	"appcontroller/internal/reconciler"
	appv1 "appcontroller/pkg/apis/application/v1"
	"appcontroller/pkg/logging"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Reconciler implements reconciler.Handler for Applications.
type Reconciler struct {
	rc *ReconcileContext
}

// NewReconciler returns a Reconciler using the shared context rc.
func NewReconciler(rc *ReconcileContext) *Reconciler {
	return &Reconciler{rc: rc}
}

// Reconcile fetches the Application and runs the finalizer protocol around
// Apply or Cleanup.
func (r *Reconciler) Reconcile(ctx context.Context, req reconciler.Request) (reconciler.Action, error) {
	timer := r.rc.Metrics.StartReconcile()
	defer timer.ObserveDuration()
	r.rc.Diagnostics.RecordEvent()

	app, err := r.rc.Store.GetApplication(ctx, req.Namespace, req.Name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			logging.Debug("Reconciler", "Application %s is gone", req.Key())
			return reconciler.AwaitChange(), nil
		}
		return reconciler.AwaitChange(), &PhaseError{Phase: PhaseFetch, Err: err}
	}

	action, called, err := finalizer.Run(ctx, r.rc.Store, r.rc.Options.Finalizer, app, r.dispatch)
	if err != nil {
		var phaseErr *PhaseError
		if !errors.As(err, &phaseErr) {
			err = &PhaseError{Phase: PhaseFinalizer, Err: err}
		}
		r.reportFailure(ctx, app, err)
		return reconciler.AwaitChange(), err
	}
	if !called {
		return reconciler.AwaitChange(), nil
	}
	return action, nil
}

func (r *Reconciler) dispatch(ctx context.Context, event finalizer.Event, app *appv1.Application) (reconciler.Action, error) {
	if event == finalizer.Cleanup {
		return r.Cleanup(ctx, app)
	}
	return r.Apply(ctx, app)
}

// shouldCreate reports whether Apply creates the Deployment.
func (r *Reconciler) shouldCreate(app *appv1.Application) bool {
	if !app.Spec.Deploy {
		return false
	}
	if r.rc.Options.DeployGuard == config.DeployGuardDesired {
		return true
	}
	return app.WasDeployed()
}

// Apply drives the Deployment toward spec.deploy and records what it saw in
// status.
func (r *Reconciler) Apply(ctx context.Context, app *appv1.Application) (reconciler.Action, error) {
	desired := app.Spec.Deploy
	actual := app.WasDeployed()

	var reasons []events.EventReason
	switch {
	case r.shouldCreate(app):
		if _, err := r.rc.Workloads.Create(ctx, app.Spec, app.Namespace); err != nil {
			return reconciler.AwaitChange(), &PhaseError{Phase: PhaseWorkloadCreate, Err: err}
		}
		exists, err := r.rc.Workloads.Exists(ctx, app.Spec.Name, app.Namespace)
		if err != nil {
			return reconciler.AwaitChange(), &PhaseError{Phase: PhaseWorkloadCreate, Err: err}
		}
		if exists {
			reasons = append(reasons, events.ReasonRunningApplication)
		} else {
			reasons = append(reasons, events.ReasonFailedApplication)
		}

	case !desired && actual:
		if _, err := r.rc.Workloads.Delete(ctx, app.Spec, app.Namespace); err != nil {
			return reconciler.AwaitChange(), &PhaseError{Phase: PhaseWorkloadDelete, Err: err}
		}
		reasons = append(reasons, events.ReasonDeletingDeployment)
	}

	status := appv1.ApplicationStatus{
		State:    appv1.ApplicationStateRunning,
		Deployed: desired,
	}
	if err := r.rc.Store.PatchApplicationStatus(ctx, app, status); err != nil {
		return reconciler.AwaitChange(), &PhaseError{Phase: PhaseStatusPatch, Err: err}
	}

	for _, reason := range reasons {
		if err := r.rc.Recorder.Emit(ctx, app, reason, events.EventData{}); err != nil {
			return reconciler.AwaitChange(), &PhaseError{Phase: PhaseEvent, Err: err}
		}
	}

	logging.Info("Reconciler", "Applied %s/%s (deploy=%t, was deployed=%t)", app.Namespace, app.Name, desired, actual)
	return reconciler.RequeueAfter(r.rc.Options.RequeueAfter), nil
}

// Cleanup removes the Deployment of an Application being deleted.
func (r *Reconciler) Cleanup(ctx context.Context, app *appv1.Application) (reconciler.Action, error) {
	if _, err := r.rc.Workloads.Delete(ctx, app.Spec, app.Namespace); err != nil {
		return reconciler.AwaitChange(), &PhaseError{Phase: PhaseWorkloadDelete, Err: err}
	}

	if err := r.rc.Recorder.Emit(ctx, app, events.ReasonDeleteApplication, events.EventData{}); err != nil {
		return reconciler.AwaitChange(), &PhaseError{Phase: PhaseEvent, Err: err}
	}

	logging.Info("Reconciler", "Cleaned up %s/%s", app.Namespace, app.Name)
	return reconciler.AwaitChange(), nil
}

// reportFailure publishes a ReconcileFailed warning. Its own failure is only logged.
func (r *Reconciler) reportFailure(ctx context.Context, app *appv1.Application, err error) {
	data := events.EventData{Error: err.Error()}
	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		data.Phase = string(phaseErr.Phase)
		data.Error = phaseErr.Err.Error()
	}

	if emitErr := r.rc.Recorder.Emit(ctx, app, events.ReasonReconcileFailed, data); emitErr != nil {
		logging.Warn("Reconciler", "Failed to publish ReconcileFailed event for %s/%s: %v", app.Namespace, app.Name, emitErr)
	}
}
