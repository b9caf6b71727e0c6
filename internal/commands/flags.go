package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hay-kot/toaster/internal/core/config"
	"github.com/hay-kot/toaster/internal/core/metrics"
)

type Flags struct {
	LogLevel    string
	LogFile     string
	ConfigPath  string
	MetricsAddr string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Registry collects every metric the commands expose; Metrics holds the
	// toast instruments registered on it.
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toaster", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/toaster/toaster.log
// On Linux: $XDG_STATE_HOME/toaster/toaster.log (defaults to ~/.local/state/toaster/toaster.log)
func DefaultLogFile() string {
	// Check XDG_STATE_HOME first (works on both macOS and Linux)
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "toaster", "toaster.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "toaster", "toaster.log")
	}

	return filepath.Join(home, ".local", "state", "toaster", "toaster.log")
}
