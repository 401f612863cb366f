// Package logging provides the subsystem-tagged structured logger used across
// the application controller.
//
// The logger is built on log/slog. Every entry carries a subsystem attribute
// so that reconciler, store and HTTP output can be told apart in a single
// stream:
//
//	logging.Init(logging.Options{Level: logging.LevelInfo, Format: logging.FormatJSON})
//
//	logging.Info("Reconciler", "Reconciled Application %s/%s", ns, name)
//	logging.Error("Store", err, "Failed to patch status of %s", key)
//
// Init also routes the controller-runtime logger (subsystem
// ControllerRuntime) to the same handler, and Logr hands out logr.Logger
// values for libraries that expect one. Both follow a later Init.
package logging
