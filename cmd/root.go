package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "application-controller",
	Short: "Reconcile Application resources into Deployments",
	Long: `application-controller watches Application resources (per.naess/v1) and
keeps a two-replica Deployment per Application in sync with spec.deploy.

It guards deletion with a finalizer, writes status through server-side apply,
publishes events for every workload action, and serves diagnostics, health and
Prometheus metrics over HTTP.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits non-zero on failure.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "application-controller version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
