package cmd

import (
	"context"
	"fmt"

	"appcontroller/internal/app"

	"github.com/spf13/cobra"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath is the directory holding config.yaml.
var serveConfigPath string

var (
	serveNamespace   string
	serveWorkers     int
	serveHTTPAddress string
	serveLogFormat   string
)

// serveCmd runs the controller until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Application controller",
	Long: `Runs the Application controller against the cluster selected by the ambient
kubeconfig (--kubeconfig, KUBECONFIG, in-cluster service account or
~/.kube/config).

On startup the controller lists at most one Application to confirm the API is
served; if that fails it exits without retrying. It then watches Applications,
reconciles them with a pool of workers and serves:

  /          diagnostics (last reconcile time and reporter) as JSON
  /statuses  per-Application reconcile state and queue depth as JSON
  /health    liveness check
  /metrics   Prometheus metrics

Configuration:
  config.yaml is read from --config-path (default ~/.config/application-controller).
  A missing file means built-in defaults. Command-line flags override the file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)
	cfg.Namespace = serveNamespace
	cfg.Workers = serveWorkers
	cfg.HTTPAddress = serveHTTPAddress
	cfg.LogFormat = serveLogFormat

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory containing config.yaml")
	serveCmd.Flags().StringVarP(&serveNamespace, "namespace", "n", "", "Only watch Applications in this namespace (default: all namespaces)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Number of concurrent reconcile workers (default from config: 4)")
	serveCmd.Flags().StringVar(&serveHTTPAddress, "http-address", "", "Address for the diagnostics and metrics server (default from config: :8080)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: text or json")
}
