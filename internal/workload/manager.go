// Package workload creates and deletes the Deployment backing an Application.
package workload

import (
	"context"
	"fmt"

	appv1 "appcontroller/pkg/apis/application/v1"
	"appcontroller/pkg/logging"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Client is the subset of client.Client the manager needs.
type Client interface {
	Get(ctx context.Context, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error
	Create(ctx context.Context, obj client.Object, opts ...client.CreateOption) error
	Delete(ctx context.Context, obj client.Object, opts ...client.DeleteOption) error
}

// Outcome describes what a Create or Delete call changed.
type Outcome struct {
	Created bool
	Deleted bool
}

// Manager owns the lifecycle of managed Deployments.
type Manager struct {
	client Client
}

// NewManager returns a Manager using c.
func NewManager(c Client) *Manager {
	return &Manager{client: c}
}

// Create submits the Deployment for spec. An existing Deployment of the same
// name is success with Created=false; it is not updated.
func (m *Manager) Create(ctx context.Context, spec appv1.ApplicationSpec, namespace string) (Outcome, error) {
	deployment, err := BuildDeployment(spec, namespace)
	if err != nil {
		return Outcome{}, err
	}

	if err := m.client.Create(ctx, deployment); err != nil {
		if apierrors.IsAlreadyExists(err) {
			logging.Debug("Workload", "Deployment %s/%s already exists", namespace, spec.Name)
			return Outcome{}, nil
		}
		return Outcome{}, fmt.Errorf("failed to create deployment %s/%s: %w", namespace, spec.Name, err)
	}

	logging.Info("Workload", "Created deployment %s/%s", namespace, spec.Name)
	return Outcome{Created: true}, nil
}

// Delete removes the Deployment named spec.Name. Absence is success with
// Deleted=false, and so is a name no Deployment can carry.
func (m *Manager) Delete(ctx context.Context, spec appv1.ApplicationSpec, namespace string) (Outcome, error) {
	if msgs := validation.IsDNS1123Subdomain(spec.Name); len(msgs) > 0 {
		logging.Debug("Workload", "No deployment can be named %q in %s, nothing to delete", spec.Name, namespace)
		return Outcome{}, nil
	}

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.Name,
			Namespace: namespace,
		},
	}

	if err := m.client.Delete(ctx, deployment); err != nil {
		if apierrors.IsNotFound(err) {
			logging.Debug("Workload", "Deployment %s/%s already absent", namespace, spec.Name)
			return Outcome{}, nil
		}
		return Outcome{}, fmt.Errorf("failed to delete deployment %s/%s: %w", namespace, spec.Name, err)
	}

	logging.Info("Workload", "Deleted deployment %s/%s", namespace, spec.Name)
	return Outcome{Deleted: true}, nil
}

// Exists reports whether the Deployment named name is observable.
func (m *Manager) Exists(ctx context.Context, name, namespace string) (bool, error) {
	var deployment appsv1.Deployment
	err := m.client.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, &deployment)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}
	return true, nil
}
