package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"appcontroller/pkg/logging"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// KubernetesDetector implements ChangeSource using a controller-runtime
// informer for a single object kind.
//
// Every add, update and delete observed by the informer becomes a
// ChangeEvent. Delivery is at-least-once and events for one object may be
// coalesced by the manager queue.
type KubernetesDetector struct {
	mu sync.RWMutex

	// restConfig is the Kubernetes REST configuration
	restConfig *rest.Config

	// namespace is the Kubernetes namespace to watch (empty for all namespaces)
	namespace string

	// scheme must know the watched kind
	scheme *runtime.Scheme

	// object is a prototype of the watched kind
	object client.Object

	// cache is the controller-runtime cache for watching resources
	cache cache.Cache

	// changeChan is the channel to send change events to
	changeChan chan<- ChangeEvent

	// ctx is the detector's context
	ctx context.Context

	// cancelFunc cancels the detector's context
	cancelFunc context.CancelFunc

	// running indicates if the detector is active
	running bool

	// registration is the informer event handler registration
	registration toolscache.ResourceEventHandlerRegistration
}

// NewKubernetesDetector creates a detector watching objects of the same kind
// as object.
func NewKubernetesDetector(restConfig *rest.Config, scheme *runtime.Scheme, namespace string, object client.Object) *KubernetesDetector {
	return &KubernetesDetector{
		restConfig: restConfig,
		namespace:  namespace,
		scheme:     scheme,
		object:     object,
	}
}

// Start begins watching and returns once the informer cache has synced.
func (d *KubernetesDetector) Start(ctx context.Context, changes chan<- ChangeEvent) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	d.ctx, d.cancelFunc = context.WithCancel(ctx)
	d.changeChan = changes
	d.running = true
	d.mu.Unlock()

	// Create cache options
	cacheOpts := cache.Options{
		Scheme: d.scheme,
	}
	if d.namespace != "" {
		cacheOpts.DefaultNamespaces = map[string]cache.Config{
			d.namespace: {},
		}
	}

	c, err := cache.New(d.restConfig, cacheOpts)
	if err != nil {
		d.fail()
		return fmt.Errorf("failed to create cache: %w", err)
	}

	d.mu.Lock()
	d.cache = c
	d.mu.Unlock()

	informer, err := c.GetInformer(d.ctx, d.object)
	if err != nil {
		d.fail()
		return fmt.Errorf("failed to get informer: %w", err)
	}

	registration, err := informer.AddEventHandler(d.createEventHandler())
	if err != nil {
		d.fail()
		return fmt.Errorf("failed to add event handler: %w", err)
	}

	d.mu.Lock()
	d.registration = registration
	d.mu.Unlock()

	// Start the cache in a goroutine
	go func() {
		if err := c.Start(d.ctx); err != nil {
			logging.Error("KubernetesDetector", err, "Cache stopped with error")
		}
	}()

	// Wait for cache to sync
	if !c.WaitForCacheSync(d.ctx) {
		d.fail()
		return fmt.Errorf("failed to sync cache")
	}

	logging.Info("KubernetesDetector", "Started watching %T in namespace: %s", d.object, d.namespaceDisplay())
	return nil
}

func (d *KubernetesDetector) fail() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	if d.cancelFunc != nil {
		d.cancelFunc()
	}
}

// createEventHandler creates the ResourceEventHandler for the informer.
func (d *KubernetesDetector) createEventHandler() toolscache.ResourceEventHandler {
	return toolscache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			d.handle(OperationCreate, obj)
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			d.handle(OperationUpdate, newObj)
		},
		DeleteFunc: func(obj interface{}) {
			// Handle DeletedFinalStateUnknown for objects deleted while the watch was down
			if deletedState, ok := obj.(toolscache.DeletedFinalStateUnknown); ok {
				obj = deletedState.Obj
			}
			d.handle(OperationDelete, obj)
		},
	}
}

// handle turns an informer notification into a ChangeEvent.
func (d *KubernetesDetector) handle(op ChangeOperation, obj interface{}) {
	clientObj, ok := obj.(client.Object)
	if !ok {
		logging.Warn("KubernetesDetector", "Failed to extract metadata from %s event", op)
		return
	}

	d.sendChangeEvent(ChangeEvent{
		Name:      clientObj.GetName(),
		Namespace: clientObj.GetNamespace(),
		Operation: op,
		Timestamp: time.Now(),
		Source:    SourceKubernetes,
	})
}

// sendChangeEvent sends a change event to the output channel. It blocks
// until the manager accepts the event or the detector stops, so informer
// notifications are never dropped.
func (d *KubernetesDetector) sendChangeEvent(event ChangeEvent) {
	d.mu.RLock()
	changeChan := d.changeChan
	running := d.running
	ctx := d.ctx
	d.mu.RUnlock()

	if !running || changeChan == nil {
		return
	}

	select {
	case changeChan <- event:
		logging.Debug("KubernetesDetector", "Emitted change event: %s %s/%s",
			event.Operation, event.Namespace, event.Name)
	case <-ctx.Done():
	}
}

// Stop gracefully stops the Kubernetes detector.
func (d *KubernetesDetector) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.running = false

	// Cancel the context to stop the cache and informers
	if d.cancelFunc != nil {
		d.cancelFunc()
	}

	// The registration goes away with the cache
	d.registration = nil

	logging.Info("KubernetesDetector", "Stopped Kubernetes detector")
	return nil
}

// GetSource returns the change source type.
func (d *KubernetesDetector) GetSource() SourceType {
	return SourceKubernetes
}

// namespaceDisplay returns a display string for the namespace.
func (d *KubernetesDetector) namespaceDisplay() string {
	if d.namespace == "" {
		return "all namespaces"
	}
	return d.namespace
}
