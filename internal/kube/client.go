package kube

import (
	"fmt"
	"os"

	appv1 "appcontroller/pkg/apis/application/v1"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// NewScheme returns a scheme with the built-in Kubernetes types and the
// Application types registered.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(appv1.AddToScheme(scheme))
	return scheme
}

// GetRestConfig resolves the REST config from --kubeconfig, KUBECONFIG,
// in-cluster service account or ~/.kube/config, in that order.
func GetRestConfig() (*rest.Config, error) {
	cfg, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load Kubernetes config: %w", err)
	}
	return cfg, nil
}

// NewClient creates an uncached controller-runtime client for cfg.
func NewClient(cfg *rest.Config, scheme *runtime.Scheme) (client.Client, error) {
	c, err := client.New(cfg, client.Options{
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return c, nil
}

// NewReportingInstance returns a per-process identity for published events.
func NewReportingInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "application-controller"
	}
	return fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
}
