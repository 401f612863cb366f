package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"appcontroller/internal/config"
	"appcontroller/internal/kube"
	"appcontroller/internal/reconciler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

type stubSource struct {
	mu      sync.Mutex
	started bool
	stopped bool
	err     error
}

func (s *stubSource) Start(_ context.Context, _ chan<- reconciler.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return s.err
}

func (s *stubSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *stubSource) GetSource() reconciler.SourceType {
	return reconciler.SourceManual
}

func testConfig() config.ControllerConfig {
	cfg := config.GetDefaultConfig()
	cfg.HTTP.Address = "127.0.0.1:0"
	return cfg
}

func TestBuildServices(t *testing.T) {
	deps := Dependencies{
		Client:            fake.NewClientBuilder().WithScheme(kube.NewScheme()).Build(),
		Source:            &stubSource{},
		ReportingInstance: "test-0",
	}

	services, err := BuildServices(testConfig(), deps)
	require.NoError(t, err)

	assert.NotNil(t, services.Store)
	assert.NotNil(t, services.Reconciler)
	assert.NotNil(t, services.Manager)
	assert.NotNil(t, services.HTTPServer)
	assert.Equal(t, config.DefaultReporter, services.Diagnostics.Reporter())

	families, err := services.Registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

func TestBuildServices_MissingDependencies(t *testing.T) {
	_, err := BuildServices(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestBuildServices_EventTemplates(t *testing.T) {
	newDeps := func() Dependencies {
		return Dependencies{
			Client: fake.NewClientBuilder().WithScheme(kube.NewScheme()).Build(),
			Source: &stubSource{},
		}
	}

	cfg := testConfig()
	cfg.Events.Templates = map[string]string{"RunningApplication": "{{.Name}} is up"}
	_, err := BuildServices(cfg, newDeps())
	require.NoError(t, err)

	cfg.Events.Templates = map[string]string{"Scaled": "{{.Name}}"}
	_, err = BuildServices(cfg, newDeps())
	assert.ErrorContains(t, err, `events.templates: unknown event reason "Scaled"`)

	cfg.Events.Templates = map[string]string{"DeleteApplication": "{{.Name"}
	_, err = BuildServices(cfg, newDeps())
	assert.ErrorContains(t, err, "events.templates")
}

func TestBuildServices_ServesStatuses(t *testing.T) {
	services, err := BuildServices(testConfig(), Dependencies{
		Client: fake.NewClientBuilder().WithScheme(kube.NewScheme()).Build(),
		Source: &stubSource{},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	services.HTTPServer.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statuses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queued":0,"scheduled":0,"items":[]}`, rec.Body.String())
}

func TestRunController_StopsOnCancel(t *testing.T) {
	source := &stubSource{}
	services, err := BuildServices(testConfig(), Dependencies{
		Client: fake.NewClientBuilder().WithScheme(kube.NewScheme()).Build(),
		Source: source,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runController(ctx, services) }()

	require.Eventually(t, services.Manager.IsRunning, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
	}

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.True(t, source.started)
	assert.True(t, source.stopped)
}

func TestRunController_BootstrapFailure(t *testing.T) {
	// Without the Application types in the scheme the bootstrap list fails.
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))

	source := &stubSource{}
	services, err := BuildServices(testConfig(), Dependencies{
		Client: fake.NewClientBuilder().WithScheme(scheme).Build(),
		Source: source,
	})
	require.NoError(t, err)

	err = runController(context.Background(), services)
	require.Error(t, err)

	var bootstrapErr *kube.BootstrapError
	assert.True(t, errors.As(err, &bootstrapErr))
	assert.False(t, source.started)
}

func TestRunController_SourceFailure(t *testing.T) {
	source := &stubSource{err: errors.New("no informer")}
	services, err := BuildServices(testConfig(), Dependencies{
		Client: fake.NewClientBuilder().WithScheme(kube.NewScheme()).Build(),
		Source: source,
	})
	require.NoError(t, err)

	err = runController(context.Background(), services)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no informer")
}
