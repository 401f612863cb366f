package events

// EventType represents the type/severity of a Kubernetes Event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

// Application event reasons
const (
	// ReasonRunningApplication indicates the Deployment was created and is observable.
	ReasonRunningApplication EventReason = "RunningApplication"

	// ReasonFailedApplication indicates the Deployment could not be observed after creation.
	ReasonFailedApplication EventReason = "FailedApplication"

	// ReasonDeletingDeployment indicates the Deployment was removed because deploy was turned off.
	ReasonDeletingDeployment EventReason = "DeletingDeployment"

	// ReasonDeleteApplication indicates the Application is being deleted and its Deployment cleaned up.
	ReasonDeleteApplication EventReason = "DeleteApplication"

	// ReasonReconcileFailed indicates a reconcile aborted with an error.
	ReasonReconcileFailed EventReason = "ReconcileFailed"
)

// ActionReconciling is the action recorded on every event of this controller.
const ActionReconciling = "Reconciling"

// EventData contains the values available to note templates.
type EventData struct {
	// Name is the name of the Application.
	Name string

	// Namespace is the namespace of the Application.
	Namespace string

	// Image is the container image of the managed Deployment.
	Image string

	// Phase is the reconcile phase that failed, for failure events.
	Phase string

	// Error contains error information for failure events.
	Error string
}

// Event is a rendered event ready to be published.
type Event struct {
	Type   EventType
	Reason EventReason
	Note   string
	Action string
}

// getEventType returns the appropriate EventType for a given EventReason.
func getEventType(reason EventReason) EventType {
	switch reason {
	case ReasonFailedApplication,
		ReasonReconcileFailed:
		return EventTypeWarning
	default:
		return EventTypeNormal
	}
}
