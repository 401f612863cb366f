package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"appcontroller/internal/config"
	"appcontroller/internal/diagnostics"
	"appcontroller/internal/formatting"

	"github.com/spf13/cobra"
)

const diagnosticsTimeout = 5 * time.Second

var (
	diagnosticsEndpoint string
	diagnosticsOutput   string
	diagnosticsNoColor  bool
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Show diagnostics of a running controller",
	Long: `Fetches the diagnostics document served at / by a running controller and
prints it as a table, JSON or YAML.`,
	Args: cobra.NoArgs,
	RunE: runDiagnostics,
}

func runDiagnostics(cmd *cobra.Command, args []string) error {
	formatter, err := formatting.NewFormatter(formatting.Options{
		Format: formatting.OutputFormat(diagnosticsOutput),
		Color:  !diagnosticsNoColor,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := fetchDiagnostics(ctx, diagnosticsEndpoint)
	if err != nil {
		return err
	}

	out, err := formatter.FormatDiagnostics(snapshot)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// fetchDiagnostics reads the diagnostics snapshot from endpoint. A bare
// host:port is treated as http.
func fetchDiagnostics(ctx context.Context, endpoint string) (diagnostics.Snapshot, error) {
	url := endpoint
	if !strings.Contains(url, "://") {
		if strings.HasPrefix(url, ":") {
			url = "localhost" + url
		}
		url = "http://" + url
	}
	url = strings.TrimSuffix(url, "/") + "/"

	ctx, cancel := context.WithTimeout(ctx, diagnosticsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return diagnostics.Snapshot{}, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return diagnostics.Snapshot{}, fmt.Errorf("failed to reach controller at %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return diagnostics.Snapshot{}, fmt.Errorf("controller at %s returned %s", url, resp.Status)
	}

	var snapshot diagnostics.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return diagnostics.Snapshot{}, fmt.Errorf("failed to decode diagnostics: %w", err)
	}
	return snapshot, nil
}

func init() {
	rootCmd.AddCommand(diagnosticsCmd)

	diagnosticsCmd.Flags().StringVar(&diagnosticsEndpoint, "endpoint", config.DefaultHTTPAddress, "Address of the controller HTTP server")
	diagnosticsCmd.Flags().StringVarP(&diagnosticsOutput, "output", "o", string(formatting.FormatTable), "Output format: table, json or yaml")
	diagnosticsCmd.Flags().BoolVar(&diagnosticsNoColor, "no-color", false, "Disable colored table output")
}
