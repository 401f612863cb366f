package events

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	strs "appcontroller/pkg/strings"

	"github.com/Masterminds/sprig/v3"
)

// maxNoteLength is the API server limit on events.k8s.io/v1 notes.
const maxNoteLength = 1024

var defaultTemplates = map[EventReason]string{
	ReasonRunningApplication: "Deployment complete `{{.Name}}`",
	ReasonFailedApplication:  "Deployment not starting `{{.Name}}`",
	ReasonDeletingDeployment: "Deleting deployment `{{.Name}}`",
	ReasonDeleteApplication:  "Delete `{{.Name}}`",
	ReasonReconcileFailed:    "Reconcile of `{{.Name}}` failed{{with .Phase}} during {{.}}{{end}}{{with .Error}}: {{. | trunc 900}}{{end}}",
}

// MessageTemplateEngine renders event notes from text/template sources with
// the sprig function map.
type MessageTemplateEngine struct {
	mu        sync.RWMutex
	templates map[EventReason]*template.Template
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		templates: make(map[EventReason]*template.Template),
	}
	for reason, text := range defaultTemplates {
		if err := engine.SetTemplate(reason, text); err != nil {
			panic(fmt.Sprintf("invalid default template for %s: %v", reason, err))
		}
	}
	return engine
}

// SetTemplate parses text and uses it for reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, text string) error {
	tmpl, err := template.New(string(reason)).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", reason, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[reason] = tmpl
	return nil
}

// Render generates a note for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	e.mu.RLock()
	tmpl, exists := e.templates[reason]
	e.mu.RUnlock()

	fallback := fmt.Sprintf("Event: %s for %s/%s", string(reason), data.Namespace, data.Name)
	if !exists {
		return fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fallback
	}

	return strs.Truncate(strs.SingleLine(buf.String()), maxNoteLength)
}
