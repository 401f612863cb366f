package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644)
	require.NoError(t, err)
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
	assert.Equal(t, "cntrlr", loaded.Reconcile.FieldManager)
	assert.Equal(t, 5*time.Minute, loaded.Reconcile.RequeueAfter.Duration)
	assert.Equal(t, DeployGuardStatus, loaded.Reconcile.DeployGuard)
	assert.Equal(t, ErrorPolicyFixed, loaded.ErrorPolicy.Mode)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
namespace: apps
workers: 8
reconcileTimeout: 10s
reconcile:
  deployGuard: desired
  requeueAfter: 1m
errorPolicy:
  mode: exponential
  initialBackoff: 2s
  maxBackoff: 1m
logging:
  format: json
`)

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "apps", loaded.Namespace)
	assert.Equal(t, 8, loaded.Workers)
	assert.Equal(t, 10*time.Second, loaded.ReconcileTimeout.Duration)
	assert.Equal(t, DeployGuardDesired, loaded.Reconcile.DeployGuard)
	assert.Equal(t, time.Minute, loaded.Reconcile.RequeueAfter.Duration)
	assert.Equal(t, ErrorPolicyExponential, loaded.ErrorPolicy.Mode)
	assert.Equal(t, 2*time.Second, loaded.ErrorPolicy.InitialBackoff.Duration)
	assert.Equal(t, "json", loaded.Logging.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultFieldManager, loaded.Reconcile.FieldManager)
	assert.Equal(t, DefaultFinalizer, loaded.Reconcile.Finalizer)
	assert.Equal(t, DefaultHTTPAddress, loaded.HTTP.Address)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "workers: [not, a, number")

	_, err := LoadConfig(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config from")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "reconcileTimeout: soon\n")

	_, err := LoadConfig(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
workers: 0
reconcile:
  deployGuard: sometimes
errorPolicy:
  mode: random
`)

	_, err := LoadConfig(tempDir)
	require.Error(t, err)

	var collection *ConfigurationErrorCollection
	require.True(t, errors.As(err, &collection))
	assert.Equal(t, 3, collection.Count())
	for _, e := range collection.Errors {
		assert.Equal(t, configFileName, e.FileName)
		assert.Equal(t, "validation", e.ErrorType)
	}
	assert.Contains(t, collection.GetDetailedReport(), "reconcile.deployGuard")
}
