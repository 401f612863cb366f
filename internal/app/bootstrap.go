package app

import (
	"context"
	"fmt"
	"os"

	"appcontroller/internal/config"
	"appcontroller/pkg/logging"
)

// Application bootstraps and runs the application controller.
//
// Initialization happens in two phases:
//  1. Bootstrap: load configuration, initialize logging, build services
//  2. Execution: check the Application API is served, then run the
//     controller loop and the HTTP server until a signal arrives
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration, initializes logging and builds every
// service against the cluster from the ambient kubeconfig.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.InitForCLI(appLogLevel, os.Stdout)

	if cfg.ControllerConfig == nil {
		controllerCfg, err := loadControllerConfig(cfg)
		if err != nil {
			return nil, err
		}
		cfg.ControllerConfig = &controllerCfg
	}

	if err := initLogging(cfg.ControllerConfig.Logging); err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run blocks until ctx is cancelled, SIGINT or SIGTERM arrives, or a
// component fails.
func (a *Application) Run(ctx context.Context) error {
	return runController(ctx, a.services)
}

// loadControllerConfig reads the file configuration, applies command-line
// overrides and validates the result.
func loadControllerConfig(cfg *Config) (config.ControllerConfig, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return config.ControllerConfig{}, fmt.Errorf("failed to resolve config path: %w", err)
		}
		configPath = defaultPath
	}

	controllerCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", configPath)
		return config.ControllerConfig{}, fmt.Errorf("failed to load configuration from path %s: %w", configPath, err)
	}

	cfg.ApplyOverrides(&controllerCfg)
	if errs := controllerCfg.Validate(); errs.HasErrors() {
		return config.ControllerConfig{}, fmt.Errorf("invalid command-line settings: %w", errs)
	}
	return controllerCfg, nil
}

// initLogging re-initializes logging with the configured level and format.
func initLogging(cfg config.LoggingConfig) error {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logging.Init(logging.Options{
		Level:  level,
		Format: logging.Format(cfg.Format),
		Output: os.Stdout,
	})
	return nil
}
