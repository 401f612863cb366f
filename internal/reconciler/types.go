package reconciler

import (
	"context"
	"fmt"
	"time"
)

// ChangeEvent represents a change notification for a watched object.
type ChangeEvent struct {
	// Name is the name of the object that changed.
	Name string

	// Namespace is the namespace of the object.
	Namespace string

	// Operation is the type of change.
	Operation ChangeOperation

	// Timestamp is when the change was observed.
	Timestamp time.Time

	// Source indicates where the change came from.
	Source SourceType
}

// ChangeOperation represents the type of change.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "Create"
	OperationUpdate ChangeOperation = "Update"
	OperationDelete ChangeOperation = "Delete"
)

// SourceType indicates where a change originated.
type SourceType string

const (
	SourceKubernetes SourceType = "Kubernetes"
	SourceManual     SourceType = "Manual"
)

// Request identifies the object to reconcile.
type Request struct {
	Namespace string
	Name      string

	// Attempt is 1 for the first try after a success or a fresh object and
	// counts consecutive failures from there.
	Attempt int
}

// Key returns the identity of the request, used for deduplication.
func (r Request) Key() string {
	if r.Namespace != "" {
		return r.Namespace + "/" + r.Name
	}
	return r.Name
}

// Action is the scheduling directive returned by a reconcile.
type Action struct {
	requeueAfter time.Duration
}

// RequeueAfter schedules another reconcile after d.
func RequeueAfter(d time.Duration) Action {
	return Action{requeueAfter: d}
}

// AwaitChange waits for the next change notification.
func AwaitChange() Action {
	return Action{}
}

// Requeue returns the delay and whether a requeue is scheduled.
func (a Action) Requeue() (time.Duration, bool) {
	return a.requeueAfter, a.requeueAfter > 0
}

func (a Action) String() string {
	if a.requeueAfter > 0 {
		return fmt.Sprintf("RequeueAfter(%s)", a.requeueAfter)
	}
	return "AwaitChange"
}

// Handler reconciles a single object.
type Handler interface {
	Reconcile(ctx context.Context, req Request) (Action, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Action, error)

func (f HandlerFunc) Reconcile(ctx context.Context, req Request) (Action, error) {
	return f(ctx, req)
}

// ErrorPolicy decides how a failed reconcile is rescheduled.
type ErrorPolicy interface {
	OnError(req Request, err error) Action
}

// ChangeSource produces change notifications.
type ChangeSource interface {
	// Start begins producing events. It returns once the source is ready.
	Start(ctx context.Context, changes chan<- ChangeEvent) error

	// Stop stops producing events.
	Stop() error

	// GetSource returns the type of this source.
	GetSource() SourceType
}

// ReconcileQueue manages pending reconcile requests.
type ReconcileQueue interface {
	// Add adds a request to the queue.
	Add(req Request)

	// Get blocks until a request is available or the context is cancelled.
	Get(ctx context.Context) (Request, bool)

	// Done marks a request as completed.
	Done(req Request)

	// Len returns the number of pending requests.
	Len() int

	// Shutdown stops the queue.
	Shutdown()
}

// ManagerConfig configures the reconcile manager.
type ManagerConfig struct {
	// WorkerCount is the number of concurrent workers.
	WorkerCount int

	// ReconcileTimeout bounds a single reconcile call.
	ReconcileTimeout time.Duration

	// ChangeBufferSize is the capacity of the change event channel.
	ChangeBufferSize int
}

// ReconcileStatus represents the reconcile state of one object.
type ReconcileStatus struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`

	// LastReconcileTime is when the object was last reconciled successfully.
	LastReconcileTime *time.Time `json:"lastReconcileTime,omitempty"`

	// LastError is the most recent error, if any.
	LastError string `json:"lastError,omitempty"`

	// RetryCount is the number of consecutive failures.
	RetryCount int `json:"retryCount"`

	// NextAction is the directive returned by the last reconcile.
	NextAction string `json:"nextAction,omitempty"`

	State ReconcileState `json:"state"`
}

// ReconcileState represents the current reconcile state.
type ReconcileState string

const (
	StatePending     ReconcileState = "Pending"
	StateReconciling ReconcileState = "Reconciling"
	StateSynced      ReconcileState = "Synced"
	StateError       ReconcileState = "Error"
	// StateFailed means the error policy gave up until the next change.
	StateFailed ReconcileState = "Failed"
)
