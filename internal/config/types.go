package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ControllerConfig is the top-level configuration structure for the
// application controller.
type ControllerConfig struct {
	// Namespace restricts the watch to one namespace. Empty watches all.
	Namespace        string            `yaml:"namespace,omitempty"`
	Workers          int               `yaml:"workers,omitempty"`
	ReconcileTimeout Duration          `yaml:"reconcileTimeout,omitempty"`
	Reconcile        ReconcileConfig   `yaml:"reconcile"`
	ErrorPolicy      ErrorPolicyConfig `yaml:"errorPolicy"`
	HTTP             HTTPConfig        `yaml:"http"`
	Logging          LoggingConfig     `yaml:"logging"`
	Events           EventsConfig      `yaml:"events"`
}

// DeployGuard selects when the Deployment is created for deploy=true.
type DeployGuard string

const (
	// DeployGuardStatus creates only when status.deployed was already true.
	DeployGuardStatus DeployGuard = "status"
	// DeployGuardDesired creates whenever spec.deploy is true.
	DeployGuardDesired DeployGuard = "desired"
)

// ReconcileConfig controls the Apply path of the reconciler.
type ReconcileConfig struct {
	FieldManager string      `yaml:"fieldManager,omitempty"` // SSA field owner for status (default: cntrlr)
	Finalizer    string      `yaml:"finalizer,omitempty"`
	RequeueAfter Duration    `yaml:"requeueAfter,omitempty"`
	DeployGuard  DeployGuard `yaml:"deployGuard,omitempty"`
}

// ErrorPolicyMode selects how failed reconciles are rescheduled.
type ErrorPolicyMode string

const (
	ErrorPolicyFixed       ErrorPolicyMode = "fixed"
	ErrorPolicyExponential ErrorPolicyMode = "exponential"
)

// ErrorPolicyConfig configures the error policy.
type ErrorPolicyConfig struct {
	Mode           ErrorPolicyMode `yaml:"mode,omitempty"`
	Delay          Duration        `yaml:"delay,omitempty"`          // fixed mode
	InitialBackoff Duration        `yaml:"initialBackoff,omitempty"` // exponential mode
	MaxBackoff     Duration        `yaml:"maxBackoff,omitempty"`     // exponential mode
}

// HTTPConfig configures the diagnostics and metrics endpoint.
type HTTPConfig struct {
	Address string `yaml:"address,omitempty"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text or json
}

// EventsConfig carries the identities stamped on published events and
// reported by diagnostics. Templates overrides event notes by reason, for
// example RunningApplication: "{{.Name}} is up".
type EventsConfig struct {
	ReportingController string            `yaml:"reportingController,omitempty"`
	Reporter            string            `yaml:"reporter,omitempty"`
	Templates           map[string]string `yaml:"templates,omitempty"`
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration struct {
	time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalYAML accepts strings such as "30s" or "5m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in its String form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}
