package formatting

import (
	"appcontroller/internal/diagnostics"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatDiagnostics renders the snapshot as indented JSON.
func (f *JSONFormatter) FormatDiagnostics(s diagnostics.Snapshot) (string, error) {
	return PrettyJSON(s), nil
}
