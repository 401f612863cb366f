package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ApplicationKind is the kind name of the Application resource.
const ApplicationKind = "Application"

// ApplicationSpec defines the desired state of Application
type ApplicationSpec struct {
	// Name of the managed Deployment and of its single container.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=63
	Name string `json:"name" yaml:"name"`

	// Image is the container image the Deployment runs.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Image string `json:"image" yaml:"image"`

	// Deploy controls whether the Deployment should exist.
	// +kubebuilder:default=false
	Deploy bool `json:"deploy" yaml:"deploy"`
}

// ApplicationState is the coarse lifecycle state reported in status.
// +kubebuilder:validation:Enum=Running;Starting;Failed
type ApplicationState string

const (
	ApplicationStateRunning  ApplicationState = "Running"
	ApplicationStateStarting ApplicationState = "Starting"
	ApplicationStateFailed   ApplicationState = "Failed"
)

// ApplicationStatus defines the observed state of Application
type ApplicationStatus struct {
	// State is the lifecycle state last written by the controller.
	State ApplicationState `json:"state,omitempty" yaml:"state,omitempty"`

	// Deployed records whether the controller last reconciled with deploy=true.
	Deployed bool `json:"deployed" yaml:"deployed"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=app
// +kubebuilder:printcolumn:name="Image",type="string",JSONPath=".spec.image"
// +kubebuilder:printcolumn:name="Deploy",type="boolean",JSONPath=".spec.deploy"
// +kubebuilder:printcolumn:name="State",type="string",JSONPath=".status.state"
// +kubebuilder:printcolumn:name="Deployed",type="boolean",JSONPath=".status.deployed"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// Application is the Schema for the applications API
type Application struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ApplicationSpec `json:"spec,omitempty"`
	// Status is nil until the controller has written it for the first time.
	Status *ApplicationStatus `json:"status,omitempty"`
}

// WasDeployed reports the deployed flag of the last written status, or false
// if no status has been written yet.
func (a *Application) WasDeployed() bool {
	if a.Status == nil {
		return false
	}
	return a.Status.Deployed
}

// IsBeingDeleted reports whether the deletion marker is set.
func (a *Application) IsBeingDeleted() bool {
	return !a.DeletionTimestamp.IsZero()
}

// +kubebuilder:object:root=true

// ApplicationList contains a list of Application
type ApplicationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Application `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Application{}, &ApplicationList{})
}
