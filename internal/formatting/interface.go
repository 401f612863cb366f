// Package formatting renders controller diagnostics for the command line in
// table, JSON or YAML form.
package formatting

import (
	"fmt"

	"appcontroller/internal/diagnostics"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter renders a diagnostics snapshot.
type Formatter interface {
	FormatDiagnostics(s diagnostics.Snapshot) (string, error)
}

// NewFormatter returns the formatter for options.Format.
func NewFormatter(options Options) (Formatter, error) {
	switch options.Format {
	case FormatTable, "":
		return NewTableFormatter(options), nil
	case FormatJSON:
		return NewJSONFormatter(options), nil
	case FormatYAML:
		return NewYAMLFormatter(options), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s, %s, %s)", options.Format, FormatTable, FormatJSON, FormatYAML)
	}
}
