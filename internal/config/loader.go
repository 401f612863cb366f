package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"appcontroller/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/application-controller"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns the per-user configuration directory.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}

	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// validates the result. A missing file yields the defaults.
func LoadConfig(configPath string) (ControllerConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return ControllerConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return ControllerConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	if errs := config.Validate(); errs.HasErrors() {
		for i := range errs.Errors {
			errs.Errors[i].FilePath = configFilePath
			errs.Errors[i].FileName = configFileName
		}
		return ControllerConfig{}, errs
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
