package app

import (
	"appcontroller/internal/config"
)

// Config holds the command-line settings for one controller process.
// Zero values leave the file configuration untouched.
type Config struct {
	// Debug forces the debug log level.
	Debug bool

	// ConfigPath is the directory holding config.yaml. Empty means the
	// user config directory.
	ConfigPath string

	Namespace   string
	Workers     int
	HTTPAddress string
	LogFormat   string

	// ControllerConfig is the merged configuration, set during bootstrap.
	ControllerConfig *config.ControllerConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// ApplyOverrides copies the non-zero command-line settings onto cfg.
func (c *Config) ApplyOverrides(cfg *config.ControllerConfig) {
	if c.Namespace != "" {
		cfg.Namespace = c.Namespace
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.HTTPAddress != "" {
		cfg.HTTP.Address = c.HTTPAddress
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
	if c.Debug {
		cfg.Logging.Level = "debug"
	}
}
