// Package events renders and publishes the Kubernetes Events emitted while
// reconciling Applications.
//
// Each EventReason has a note template (text/template with the sprig function
// map) and a fixed EventType: Warning for failures, Normal otherwise. The
// Recorder fills EventData from the Application, renders the note and hands
// the result to a Publisher, which in production is the kube store writing
// events.k8s.io/v1 Events.
//
//	recorder := events.NewRecorder(store)
//	err := recorder.Emit(ctx, app, events.ReasonRunningApplication, events.EventData{})
package events
