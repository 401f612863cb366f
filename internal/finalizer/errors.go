package finalizer

import "fmt"

// Op names a finalizer patch.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// ProtocolError is a failed finalizer patch.
type ProtocolError struct {
	Op        Op
	Finalizer string
	Err       error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("failed to %s finalizer %s: %v", e.Op, e.Finalizer, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// HandlerError wraps an error returned by the Apply or Cleanup handler.
type HandlerError struct {
	Event Event
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
