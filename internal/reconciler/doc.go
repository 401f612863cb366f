// Package reconciler drives level-triggered reconciliation of one resource
// kind.
//
// # Architecture
//
//   - ChangeSource: produces change notifications (KubernetesDetector wraps a
//     controller-runtime informer)
//   - Manager: turns notifications into queued Requests, runs a worker pool
//     and schedules whatever the Handler or ErrorPolicy returns
//   - Handler: reconciles one object and returns an Action
//   - ErrorPolicy: turns a failure into an Action
//
// # Guarantees
//
// A Request is keyed by namespace/name. The queue never hands the same key to
// two workers at once: a notification that arrives while a worker holds the
// key is parked, and only the latest parked request is queued when the worker
// calls Done.
// Distinct keys are processed concurrently with no shared lock.
//
// RequeueAfter replaces any earlier timer for the key; AwaitChange cancels
// it. Failed requests are never dropped: the ErrorPolicy decides the delay,
// and Request.Attempt counts consecutive failures so policies can back off.
//
// Example usage:
//
//	manager := reconciler.NewManager(config, detector, handler, policy)
//	if err := manager.Start(ctx); err != nil {
//	    return fmt.Errorf("failed to start reconciliation: %w", err)
//	}
//	defer manager.Stop()
package reconciler
