package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"appcontroller/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// runController verifies the Application API is served, then runs the
// controller loop and the HTTP server side by side. The first failure or a
// SIGINT/SIGTERM stops both.
func runController(ctx context.Context, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := services.Store.CheckApplicationsServed(ctx, services.Config.Namespace); err != nil {
		logging.Error("Controller", err, "Application API is not available, refusing to start")
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := services.Manager.Start(gctx); err != nil {
			return err
		}
		logging.Info("Controller", "Controller running. Press Ctrl+C to stop.")
		<-gctx.Done()
		logging.Info("Controller", "--- Shutting down controller ---")
		return services.Manager.Stop()
	})

	g.Go(func() error {
		return services.HTTPServer.Run(gctx)
	})

	return g.Wait()
}
