package workload

import (
	"strings"

	appv1 "appcontroller/pkg/apis/application/v1"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
)

const (
	// Replicas is the fixed replica count of a managed Deployment.
	Replicas int32 = 2

	LabelName      = "app.kubernetes.io/name"
	LabelManagedBy = "app.kubernetes.io/managed-by"
	ManagedByValue = "application-controller"
)

// BuildDeployment returns the Deployment descriptor for spec in namespace.
func BuildDeployment(spec appv1.ApplicationSpec, namespace string) (*appsv1.Deployment, error) {
	if msgs := validation.IsDNS1123Label(namespace); len(msgs) > 0 {
		return nil, &SerializationError{Field: "namespace", Value: namespace, Reason: strings.Join(msgs, "; ")}
	}
	if msgs := validation.IsDNS1123Subdomain(spec.Name); len(msgs) > 0 {
		return nil, &SerializationError{Field: "spec.name", Value: spec.Name, Reason: strings.Join(msgs, "; ")}
	}
	// Label values are capped at 63 characters, tighter than object names.
	if msgs := validation.IsValidLabelValue(spec.Name); len(msgs) > 0 {
		return nil, &SerializationError{Field: "spec.name", Value: spec.Name, Reason: strings.Join(msgs, "; ")}
	}
	if strings.TrimSpace(spec.Image) == "" {
		return nil, &SerializationError{Field: "spec.image", Value: spec.Image, Reason: "must not be empty"}
	}

	selector := map[string]string{LabelName: spec.Name}
	labels := map[string]string{
		LabelName:      spec.Name,
		LabelManagedBy: ManagedByValue,
	}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.Name,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(Replicas),
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  spec.Name,
						Image: spec.Image,
					}},
				},
			},
		},
	}, nil
}
