package controller

import "fmt"

// Phase names the step of a reconcile that failed.
type Phase string

const (
	PhaseFetch          Phase = "fetch"
	PhaseFinalizer      Phase = "finalizer"
	PhaseWorkloadCreate Phase = "workload-create"
	PhaseWorkloadDelete Phase = "workload-delete"
	PhaseStatusPatch    Phase = "status-patch"
	PhaseEvent          Phase = "event"
)

// PhaseError annotates a reconcile failure with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
