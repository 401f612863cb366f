// Package kube adapts the controller-runtime client to the operations the
// Application controller needs from the API server.
//
// Store reads and lists Applications, applies status with server-side apply
// (field owner plus force) on the status subresource, adds and removes the
// finalizer with resourceVersion-guarded merge patches, and publishes
// events.k8s.io/v1 Events. Every failed round trip is returned as a
// *StoreError that unwraps to the API error, so apierrors.IsNotFound and
// friends keep working. CheckApplicationsServed is the startup precondition:
// its failure is a *BootstrapError and the process must not start.
package kube
