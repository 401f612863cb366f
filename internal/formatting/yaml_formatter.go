package formatting

import (
	"fmt"
	"time"

	"appcontroller/internal/diagnostics"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

type yamlSnapshot struct {
	LastEvent string `yaml:"last_event"`
	Reporter  string `yaml:"reporter"`
}

// FormatDiagnostics renders the snapshot as YAML using the JSON field names.
func (f *YAMLFormatter) FormatDiagnostics(s diagnostics.Snapshot) (string, error) {
	out, err := yaml.Marshal(yamlSnapshot{
		LastEvent: s.LastEvent.Format(time.RFC3339Nano),
		Reporter:  s.Reporter,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	return string(out), nil
}
