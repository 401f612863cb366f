package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"appcontroller/internal/events"
	appv1 "appcontroller/pkg/apis/application/v1"
	"appcontroller/pkg/logging"

	corev1 "k8s.io/api/core/v1"
	eventsv1 "k8s.io/api/events/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// Options configures a Store.
type Options struct {
	// FieldManager owns the status fields written by server-side apply.
	FieldManager string
	// ReportingController and ReportingInstance are stamped on events.
	ReportingController string
	ReportingInstance   string
}

// Store is the Application-facing view of the API server.
type Store struct {
	client client.Client
	opts   Options
}

// NewStore wraps c.
func NewStore(c client.Client, opts Options) *Store {
	return &Store{client: c, opts: opts}
}

// GetApplication fetches the current state of an Application.
func (s *Store) GetApplication(ctx context.Context, namespace, name string) (*appv1.Application, error) {
	app := &appv1.Application{}
	key := types.NamespacedName{Namespace: namespace, Name: name}

	if err := s.client.Get(ctx, key, app); err != nil {
		return nil, &StoreError{Op: "get", Kind: appv1.ApplicationKind, Namespace: namespace, Name: name, Err: err}
	}
	return app, nil
}

// ListApplications lists Applications in namespace, or in all namespaces when
// namespace is empty. A positive limit caps the page size.
func (s *Store) ListApplications(ctx context.Context, namespace string, limit int64) ([]appv1.Application, error) {
	list := &appv1.ApplicationList{}
	opts := []client.ListOption{client.InNamespace(namespace)}
	if limit > 0 {
		opts = append(opts, client.Limit(limit))
	}

	if err := s.client.List(ctx, list, opts...); err != nil {
		return nil, &StoreError{Op: "list", Kind: appv1.ApplicationKind, Namespace: namespace, Err: err}
	}
	return list.Items, nil
}

// CheckApplicationsServed verifies the Application resource can be listed.
func (s *Store) CheckApplicationsServed(ctx context.Context, namespace string) error {
	if _, err := s.ListApplications(ctx, namespace, 1); err != nil {
		return &BootstrapError{Err: err}
	}
	return nil
}

// PatchApplicationStatus writes status with server-side apply on the status
// subresource, forcing ownership of the fields for the configured manager.
func (s *Store) PatchApplicationStatus(ctx context.Context, app *appv1.Application, status appv1.ApplicationStatus) error {
	patch := map[string]interface{}{
		"apiVersion": appv1.GroupVersion.String(),
		"kind":       appv1.ApplicationKind,
		"metadata": map[string]interface{}{
			"name":      app.Name,
			"namespace": app.Namespace,
		},
		"status": status,
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode status patch: %w", err)
	}

	target := &appv1.Application{
		ObjectMeta: metav1.ObjectMeta{Name: app.Name, Namespace: app.Namespace},
	}
	err = s.client.Status().Patch(ctx, target,
		client.RawPatch(types.ApplyPatchType, data),
		client.FieldOwner(s.opts.FieldManager),
		client.ForceOwnership,
	)
	if err != nil {
		return &StoreError{Op: "patch-status", Kind: appv1.ApplicationKind, Namespace: app.Namespace, Name: app.Name, Err: err}
	}

	logging.Debug("Store", "Applied status %s/deployed=%t to %s/%s", status.State, status.Deployed, app.Namespace, app.Name)
	return nil
}

// AddFinalizer adds finalizer to app with a merge patch guarded by the
// object's resourceVersion. It returns the patched object. Nothing is sent
// if the finalizer is already present.
func (s *Store) AddFinalizer(ctx context.Context, app *appv1.Application, finalizer string) (*appv1.Application, error) {
	if controllerutil.ContainsFinalizer(app, finalizer) {
		return app, nil
	}

	patched := app.DeepCopy()
	base := client.MergeFromWithOptions(app, client.MergeFromWithOptimisticLock{})
	controllerutil.AddFinalizer(patched, finalizer)

	if err := s.client.Patch(ctx, patched, base); err != nil {
		return nil, &StoreError{Op: "add-finalizer", Kind: appv1.ApplicationKind, Namespace: app.Namespace, Name: app.Name, Err: err}
	}

	logging.Debug("Store", "Added finalizer %s to %s/%s", finalizer, app.Namespace, app.Name)
	return patched, nil
}

// RemoveFinalizer removes finalizer from app with a merge patch guarded by
// the object's resourceVersion. Nothing is sent if it is absent.
func (s *Store) RemoveFinalizer(ctx context.Context, app *appv1.Application, finalizer string) (*appv1.Application, error) {
	if !controllerutil.ContainsFinalizer(app, finalizer) {
		return app, nil
	}

	patched := app.DeepCopy()
	base := client.MergeFromWithOptions(app, client.MergeFromWithOptimisticLock{})
	controllerutil.RemoveFinalizer(patched, finalizer)

	if err := s.client.Patch(ctx, patched, base); err != nil {
		return nil, &StoreError{Op: "remove-finalizer", Kind: appv1.ApplicationKind, Namespace: app.Namespace, Name: app.Name, Err: err}
	}

	logging.Debug("Store", "Removed finalizer %s from %s/%s", finalizer, app.Namespace, app.Name)
	return patched, nil
}

// PublishEvent records an events.k8s.io/v1 Event regarding app.
func (s *Store) PublishEvent(ctx context.Context, app *appv1.Application, event events.Event) error {
	ev := &eventsv1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: app.Name + "-",
			Namespace:    app.Namespace,
		},
		EventTime:           metav1.NewMicroTime(time.Now()),
		ReportingController: s.opts.ReportingController,
		ReportingInstance:   s.opts.ReportingInstance,
		Action:              event.Action,
		Reason:              string(event.Reason),
		Note:                event.Note,
		Type:                string(event.Type),
		Regarding: corev1.ObjectReference{
			APIVersion:      appv1.GroupVersion.String(),
			Kind:            appv1.ApplicationKind,
			Name:            app.Name,
			Namespace:       app.Namespace,
			UID:             app.UID,
			ResourceVersion: app.ResourceVersion,
		},
	}

	if err := s.client.Create(ctx, ev); err != nil {
		return &StoreError{Op: "publish-event", Kind: "Event", Namespace: app.Namespace, Name: app.Name, Err: err}
	}
	return nil
}
