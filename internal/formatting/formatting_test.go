package formatting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"appcontroller/internal/diagnostics"

	"gopkg.in/yaml.v3"
)

var testSnapshot = diagnostics.Snapshot{
	LastEvent: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	Reporter:  "application-reporter",
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"object", map[string]interface{}{"name": "test", "value": 42}, "{\n  \"name\": \"test\",\n  \"value\": 42\n}"},
		{"nil", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyJSON(tt.input); got != tt.expected {
				t.Errorf("PrettyJSON() = %q, want %q", got, tt.expected)
			}
		})
	}

	if got := PrettyJSON(make(chan int)); got == "" {
		t.Error("PrettyJSON() should fall back for unmarshalable values")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []OutputFormat{"", FormatTable, FormatJSON, FormatYAML} {
		if _, err := NewFormatter(Options{Format: format}); err != nil {
			t.Errorf("NewFormatter(%q) returned error: %v", format, err)
		}
	}
	if _, err := NewFormatter(Options{Format: "xml"}); err == nil {
		t.Error("NewFormatter(xml) should fail")
	}
}

func TestTableFormatter(t *testing.T) {
	f := &TableFormatter{now: func() time.Time { return testSnapshot.LastEvent.Add(90 * time.Second) }}

	out, err := f.FormatDiagnostics(testSnapshot)
	if err != nil {
		t.Fatalf("FormatDiagnostics() error: %v", err)
	}
	for _, want := range []string{"KEY", "Reporter", "application-reporter", "2026-03-01T12:00:00Z", "1m30s"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter(Options{}).FormatDiagnostics(testSnapshot)
	if err != nil {
		t.Fatalf("FormatDiagnostics() error: %v", err)
	}

	var decoded diagnostics.Snapshot
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !decoded.LastEvent.Equal(testSnapshot.LastEvent) || decoded.Reporter != testSnapshot.Reporter {
		t.Errorf("decoded %+v, want %+v", decoded, testSnapshot)
	}
}

func TestYAMLFormatter(t *testing.T) {
	out, err := NewYAMLFormatter(Options{}).FormatDiagnostics(testSnapshot)
	if err != nil {
		t.Fatalf("FormatDiagnostics() error: %v", err)
	}

	var decoded map[string]string
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded["reporter"] != "application-reporter" {
		t.Errorf("reporter = %q", decoded["reporter"])
	}
	if decoded["last_event"] != "2026-03-01T12:00:00Z" {
		t.Errorf("last_event = %q", decoded["last_event"])
	}
}
