package reconciler

import (
	"context"
	"testing"
	"time"

	appv1 "appcontroller/pkg/apis/application/v1"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	toolscache "k8s.io/client-go/tools/cache"
)

func newTestScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(appv1.AddToScheme(scheme))
	return scheme
}

// runningDetector returns a detector wired to a channel without starting an informer.
func runningDetector(t *testing.T, buffer int) (*KubernetesDetector, chan ChangeEvent) {
	t.Helper()
	detector := NewKubernetesDetector(nil, newTestScheme(), "default", &appv1.Application{})
	changes := make(chan ChangeEvent, buffer)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	detector.mu.Lock()
	detector.ctx = ctx
	detector.cancelFunc = cancel
	detector.changeChan = changes
	detector.running = true
	detector.mu.Unlock()
	return detector, changes
}

func testApplication() *appv1.Application {
	return &appv1.Application{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
	}
}

func TestNewKubernetesDetector(t *testing.T) {
	detector := NewKubernetesDetector(nil, newTestScheme(), "default", &appv1.Application{})

	if detector.namespace != "default" {
		t.Errorf("namespace = %q, want %q", detector.namespace, "default")
	}
	if detector.scheme == nil {
		t.Error("scheme is nil")
	}
	if source := detector.GetSource(); source != SourceKubernetes {
		t.Errorf("GetSource() = %v, want %v", source, SourceKubernetes)
	}
}

func TestKubernetesDetectorStopWithoutStart(t *testing.T) {
	detector := NewKubernetesDetector(nil, newTestScheme(), "", &appv1.Application{})

	if err := detector.Stop(); err != nil {
		t.Errorf("Stop() without Start returned error: %v", err)
	}
}

func TestKubernetesDetectorNamespaceDisplay(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"", "all namespaces"},
		{"apps", "apps"},
	}

	for _, tt := range tests {
		detector := NewKubernetesDetector(nil, newTestScheme(), tt.namespace, &appv1.Application{})
		if got := detector.namespaceDisplay(); got != tt.want {
			t.Errorf("namespaceDisplay() = %q, want %q", got, tt.want)
		}
	}
}

func TestKubernetesDetectorEventHandlers(t *testing.T) {
	detector, changes := runningDetector(t, 10)
	handler := detector.createEventHandler()
	app := testApplication()

	handler.OnAdd(app, false)
	handler.OnUpdate(app, app)
	handler.OnDelete(toolscache.DeletedFinalStateUnknown{Key: "default/web", Obj: app})

	want := []ChangeOperation{OperationCreate, OperationUpdate, OperationDelete}
	for _, op := range want {
		select {
		case event := <-changes:
			if event.Operation != op {
				t.Errorf("Operation = %v, want %v", event.Operation, op)
			}
			if event.Name != "web" || event.Namespace != "default" {
				t.Errorf("unexpected identity %s/%s", event.Namespace, event.Name)
			}
			if event.Source != SourceKubernetes {
				t.Errorf("Source = %v, want %v", event.Source, SourceKubernetes)
			}
		case <-time.After(time.Second):
			t.Fatalf("no event received for %s", op)
		}
	}
}

func TestKubernetesDetectorIgnoresNonObjects(t *testing.T) {
	detector, changes := runningDetector(t, 1)

	detector.handle(OperationCreate, "not an object")

	select {
	case event := <-changes:
		t.Errorf("unexpected event: %+v", event)
	default:
	}
}

func TestKubernetesDetectorNotRunning(t *testing.T) {
	detector, changes := runningDetector(t, 1)
	detector.mu.Lock()
	detector.running = false
	detector.mu.Unlock()

	detector.handle(OperationCreate, testApplication())

	select {
	case event := <-changes:
		t.Errorf("unexpected event while stopped: %+v", event)
	default:
	}
}

func TestSendChangeEventUnblocksOnStop(t *testing.T) {
	detector, _ := runningDetector(t, 0)

	done := make(chan struct{})
	go func() {
		detector.handle(OperationUpdate, testApplication())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("send returned without a receiver")
	case <-time.After(50 * time.Millisecond):
	}

	if err := detector.Stop(); err != nil {
		t.Fatalf("Stop() returned error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send did not unblock after Stop")
	}
}
