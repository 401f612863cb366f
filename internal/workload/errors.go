package workload

import "fmt"

// SerializationError reports an Application spec that cannot be turned into a
// valid Deployment. It is not retried.
type SerializationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot build deployment: %s %q: %s", e.Field, e.Value, e.Reason)
}
