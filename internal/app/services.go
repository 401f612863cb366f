package app

import (
	"fmt"
	"maps"
	"slices"

	"appcontroller/internal/config"
	"appcontroller/internal/controller"
	"appcontroller/internal/diagnostics"
	"appcontroller/internal/events"
	"appcontroller/internal/kube"
	"appcontroller/internal/metrics"
	"appcontroller/internal/reconciler"
	"appcontroller/internal/server"
	"appcontroller/internal/workload"
	appv1 "appcontroller/pkg/apis/application/v1"
	"appcontroller/pkg/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Services holds every component of a running controller. The
// diagnostics and metrics values are created once here and shared by
// reference with every reconcile and with the HTTP server.
type Services struct {
	Config config.ControllerConfig

	Store       *kube.Store
	Diagnostics *diagnostics.Diagnostics
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry

	Reconciler *controller.Reconciler
	Manager    *reconciler.Manager
	HTTPServer *server.Server
}

// Dependencies are the cluster-facing pieces the services are built on.
type Dependencies struct {
	Client            client.Client
	Source            reconciler.ChangeSource
	ReportingInstance string
}

// InitializeServices connects to the cluster from the ambient kubeconfig and
// builds the services on top of it.
func InitializeServices(cfg *Config) (*Services, error) {
	restConfig, err := kube.GetRestConfig()
	if err != nil {
		return nil, err
	}

	scheme := kube.NewScheme()
	c, err := kube.NewClient(restConfig, scheme)
	if err != nil {
		return nil, err
	}

	controllerCfg := *cfg.ControllerConfig
	source := reconciler.NewKubernetesDetector(restConfig, scheme, controllerCfg.Namespace, &appv1.Application{})

	return BuildServices(controllerCfg, Dependencies{
		Client:            c,
		Source:            source,
		ReportingInstance: kube.NewReportingInstance(),
	})
}

// BuildServices wires the controller from cfg and deps.
func BuildServices(cfg config.ControllerConfig, deps Dependencies) (*Services, error) {
	if deps.Client == nil || deps.Source == nil {
		return nil, fmt.Errorf("client and change source are required")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	diag := diagnostics.New(cfg.Events.Reporter)

	store := kube.NewStore(deps.Client, kube.Options{
		FieldManager:        cfg.Reconcile.FieldManager,
		ReportingController: cfg.Events.ReportingController,
		ReportingInstance:   deps.ReportingInstance,
	})

	recorder := events.NewRecorder(store)
	for _, reason := range slices.Sorted(maps.Keys(cfg.Events.Templates)) {
		if err := recorder.SetTemplate(events.EventReason(reason), cfg.Events.Templates[reason]); err != nil {
			return nil, fmt.Errorf("events.templates: %w", err)
		}
		logging.Debug("Bootstrap", "Using custom note template for %s", reason)
	}

	rec := controller.NewReconciler(&controller.ReconcileContext{
		Store:       store,
		Workloads:   workload.NewManager(deps.Client),
		Recorder:    recorder,
		Diagnostics: diag,
		Metrics:     m,
		Options:     controller.OptionsFromConfig(cfg.Reconcile),
	})

	manager := reconciler.NewManager(reconciler.ManagerConfig{
		WorkerCount:      cfg.Workers,
		ReconcileTimeout: cfg.ReconcileTimeout.Duration,
	}, deps.Source, rec, controller.NewErrorPolicy(cfg.ErrorPolicy, m))

	logging.Debug("Bootstrap", "Services built (namespace=%q, workers=%d, guard=%s, error policy=%s)",
		cfg.Namespace, cfg.Workers, cfg.Reconcile.DeployGuard, cfg.ErrorPolicy.Mode)

	return &Services{
		Config:      cfg,
		Store:       store,
		Diagnostics: diag,
		Metrics:     m,
		Registry:    registry,
		Reconciler:  rec,
		Manager:     manager,
		HTTPServer:  server.New(cfg.HTTP.Address, diag, manager, registry),
	}, nil
}
