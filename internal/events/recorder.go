package events

import (
	"context"
	"fmt"

	appv1 "appcontroller/pkg/apis/application/v1"
	"appcontroller/pkg/logging"
)

// Publisher writes an event about an Application to the cluster.
type Publisher interface {
	PublishEvent(ctx context.Context, app *appv1.Application, event Event) error
}

// Recorder renders and publishes Application events.
type Recorder struct {
	publisher Publisher
	templates *MessageTemplateEngine
}

// NewRecorder creates a Recorder publishing through p.
func NewRecorder(p Publisher) *Recorder {
	return &Recorder{
		publisher: p,
		templates: NewMessageTemplateEngine(),
	}
}

// Emit renders the note for reason and publishes the event for app.
func (r *Recorder) Emit(ctx context.Context, app *appv1.Application, reason EventReason, data EventData) error {
	data.Name = app.Spec.Name
	if data.Name == "" {
		data.Name = app.Name
	}
	data.Namespace = app.Namespace
	if data.Image == "" {
		data.Image = app.Spec.Image
	}

	event := Event{
		Type:   getEventType(reason),
		Reason: reason,
		Note:   r.templates.Render(reason, data),
		Action: ActionReconciling,
	}

	logging.Debug("Events", "Publishing %s event %s for %s/%s: %s",
		event.Type, event.Reason, app.Namespace, app.Name, event.Note)

	return r.publisher.PublishEvent(ctx, app, event)
}

// SetTemplate customizes the note template for reason. Only reasons the
// reconciler emits can be overridden.
func (r *Recorder) SetTemplate(reason EventReason, text string) error {
	if _, ok := defaultTemplates[reason]; !ok {
		return fmt.Errorf("unknown event reason %q", reason)
	}
	return r.templates.SetTemplate(reason, text)
}
