package config

import (
	"fmt"
	"strings"

	"appcontroller/pkg/logging"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// Validate checks the configuration and returns every problem found.
func (c ControllerConfig) Validate() *ConfigurationErrorCollection {
	errs := NewConfigurationErrorCollection()
	add := func(err error) {
		if err == nil {
			return
		}
		errs.Add(NewConfigurationError("", "", "validation", err.Error()))
	}

	if c.Workers < 1 {
		add(ValidationError{Field: "workers", Value: c.Workers, Message: "must be at least 1"})
	}
	if c.ReconcileTimeout.Duration <= 0 {
		add(ValidationError{Field: "reconcileTimeout", Value: c.ReconcileTimeout.String(), Message: "must be positive"})
	}
	if c.Namespace != "" {
		if msgs := validation.IsDNS1123Label(c.Namespace); len(msgs) > 0 {
			add(ValidationError{Field: "namespace", Value: c.Namespace, Message: strings.Join(msgs, "; ")})
		}
	}

	add(ValidateRequired("reconcile.fieldManager", c.Reconcile.FieldManager))
	if msgs := validation.IsQualifiedName(c.Reconcile.Finalizer); len(msgs) > 0 {
		add(ValidationError{Field: "reconcile.finalizer", Value: c.Reconcile.Finalizer, Message: strings.Join(msgs, "; ")})
	}
	if c.Reconcile.RequeueAfter.Duration <= 0 {
		add(ValidationError{Field: "reconcile.requeueAfter", Value: c.Reconcile.RequeueAfter.String(), Message: "must be positive"})
	}
	add(ValidateOneOf("reconcile.deployGuard", string(c.Reconcile.DeployGuard),
		[]string{string(DeployGuardStatus), string(DeployGuardDesired)}))

	add(ValidateOneOf("errorPolicy.mode", string(c.ErrorPolicy.Mode),
		[]string{string(ErrorPolicyFixed), string(ErrorPolicyExponential)}))
	switch c.ErrorPolicy.Mode {
	case ErrorPolicyFixed:
		if c.ErrorPolicy.Delay.Duration <= 0 {
			add(ValidationError{Field: "errorPolicy.delay", Value: c.ErrorPolicy.Delay.String(), Message: "must be positive"})
		}
	case ErrorPolicyExponential:
		if c.ErrorPolicy.InitialBackoff.Duration <= 0 {
			add(ValidationError{Field: "errorPolicy.initialBackoff", Value: c.ErrorPolicy.InitialBackoff.String(), Message: "must be positive"})
		}
		if c.ErrorPolicy.MaxBackoff.Duration < c.ErrorPolicy.InitialBackoff.Duration {
			add(ValidationError{Field: "errorPolicy.maxBackoff", Value: c.ErrorPolicy.MaxBackoff.String(), Message: "must not be less than initialBackoff"})
		}
	}

	add(ValidateRequired("http.address", c.HTTP.Address))
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add(ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: err.Error()})
	}
	add(ValidateOneOf("logging.format", c.Logging.Format, []string{"text", "json"}))
	add(ValidateRequired("events.reportingController", c.Events.ReportingController))
	add(ValidateRequired("events.reporter", c.Events.Reporter))

	return errs
}
