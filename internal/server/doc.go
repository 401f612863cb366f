// Package server exposes the controller's HTTP surface.
//
// Routes:
//
//   - / - diagnostics snapshot as JSON ({"last_event": ..., "reporter": ...})
//   - /statuses - reconcile state of every tracked Application, plus queued
//     and scheduled counts; /statuses/{namespace}/{name} for one
//   - /health - liveness check, plain "healthy"
//   - /metrics - Prometheus exposition of the controller registry
//
// The router is built with chi and wrapped in an http.Server whose lifetime is
// bound to a context, so the application bootstrap can run it next to the
// controller loop and stop both on the same signal.
package server
