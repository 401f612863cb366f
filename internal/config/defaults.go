package config

import "time"

const (
	DefaultFieldManager        = "cntrlr"
	DefaultFinalizer           = "applications.per.naess"
	DefaultRequeueAfter        = 5 * time.Minute
	DefaultErrorDelay          = 5 * time.Minute
	DefaultInitialBackoff      = time.Second
	DefaultMaxBackoff          = 5 * time.Minute
	DefaultWorkers             = 4
	DefaultReconcileTimeout    = 30 * time.Second
	DefaultHTTPAddress         = ":8080"
	DefaultReportingController = "per.naess/application-controller"
	DefaultReporter            = "application-reporter"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() ControllerConfig {
	return ControllerConfig{
		Workers:          DefaultWorkers,
		ReconcileTimeout: NewDuration(DefaultReconcileTimeout),
		Reconcile: ReconcileConfig{
			FieldManager: DefaultFieldManager,
			Finalizer:    DefaultFinalizer,
			RequeueAfter: NewDuration(DefaultRequeueAfter),
			DeployGuard:  DeployGuardStatus,
		},
		ErrorPolicy: ErrorPolicyConfig{
			Mode:           ErrorPolicyFixed,
			Delay:          NewDuration(DefaultErrorDelay),
			InitialBackoff: NewDuration(DefaultInitialBackoff),
			MaxBackoff:     NewDuration(DefaultMaxBackoff),
		},
		HTTP: HTTPConfig{
			Address: DefaultHTTPAddress,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Events: EventsConfig{
			ReportingController: DefaultReportingController,
			Reporter:            DefaultReporter,
		},
	}
}
