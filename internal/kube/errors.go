package kube

import "fmt"

// StoreError is a failed round trip to the API server.
type StoreError struct {
	Op        string // get, list, patch-status, add-finalizer, remove-finalizer, publish-event
	Kind      string
	Namespace string
	Name      string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s %s in namespace %q failed: %v", e.Op, e.Kind, e.Namespace, e.Err)
	}
	return fmt.Sprintf("%s %s %s/%s failed: %v", e.Op, e.Kind, e.Namespace, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// BootstrapError reports that the Application resource cannot be listed at
// startup, typically because the CRD is not installed. It is not retried.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("Application CRD is not queryable, is it installed? %v", e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}
