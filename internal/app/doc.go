// Package app provides application bootstrap and lifecycle management for the
// application controller.
//
// # Bootstrap
//
// NewApplication performs the startup sequence:
//
//  1. Initializes CLI logging from the --debug flag
//  2. Loads config.yaml from the config path on top of the defaults
//  3. Applies command-line overrides and validates the result
//  4. Re-initializes logging with the configured level and format; the same
//     handler backs the controller-runtime logger
//  5. Builds the REST config, client, store, workload manager, event
//     recorder, diagnostics, metrics, change source and loop driver
//
// # Execution
//
// Application.Run checks that the Application API is served (listing at most
// one object). A failure there halts startup without retry. Otherwise the
// controller loop and the HTTP server run under one errgroup; SIGINT, SIGTERM
// or the failure of either stops both.
//
// # Testing
//
// BuildServices accepts the client and change source as Dependencies so the
// full wiring can be exercised with the controller-runtime fake client.
package app
