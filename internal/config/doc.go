// Package config provides configuration management for the application
// controller.
//
// Configuration is read from config.yaml inside a single directory. The
// default directory is ~/.config/application-controller; the serve command
// accepts --config-path to point elsewhere. Values in the file are applied on
// top of GetDefaultConfig, so an absent file or an absent key falls back to
// the default. Durations are written as Go duration strings:
//
//	namespace: apps
//	workers: 4
//	reconcileTimeout: 30s
//	reconcile:
//	  fieldManager: cntrlr
//	  requeueAfter: 5m
//	  deployGuard: status   # or: desired
//	errorPolicy:
//	  mode: fixed           # or: exponential
//	  delay: 5m
//	http:
//	  address: ":8080"
//	logging:
//	  level: info
//	  format: json
//
// LoadConfig validates the merged result and returns a
// *ConfigurationErrorCollection listing every invalid field.
package config
