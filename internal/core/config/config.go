// Package config handles configuration loading and validation for toaster.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Toasts  ToastsConfig  `yaml:"toasts"`
	Timer   TimerConfig   `yaml:"timer"`
	TUI     TUIConfig     `yaml:"tui"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ToastsConfig controls toast defaults used by the kind helpers
// (Infof, Successf, Warnf, Errorf).
type ToastsConfig struct {
	// Lifetimes maps a kind to its default lifetime. A zero or missing
	// lifetime means the toast persists until dismissed.
	Lifetimes map[notify.Kind]time.Duration `yaml:"lifetimes"`
}

// TimerConfig selects the timer primitive behind the deadline scheduler.
type TimerConfig struct {
	Backend clock.Backend `yaml:"backend"` // runtime or cron
}

// TUIConfig holds terminal viewer settings.
type TUIConfig struct {
	Theme      string `yaml:"theme"`
	ToastWidth int    `yaml:"toast_width"`
	// MaxVisible limits how many toasts are drawn; the store keeps all.
	MaxVisible int `yaml:"max_visible"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toasts: ToastsConfig{
			Lifetimes: map[notify.Kind]time.Duration{
				notify.KindDefault: 5 * time.Second,
				notify.KindInfo:    5 * time.Second,
				notify.KindSuccess: 5 * time.Second,
				notify.KindWarning: 8 * time.Second,
			},
		},
		Timer: TimerConfig{
			Backend: clock.BackendRuntime,
		},
		TUI: TUIConfig{
			Theme:      styles.DefaultTheme,
			ToastWidth: 50,
			MaxVisible: 5,
		},
	}
}

// Load reads and validates configuration from the given path. If configPath
// is empty or doesn't exist, defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses configPath and applies defaults without validating, so
// callers can report every problem with the file themselves.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// User lifetimes are merged over the defaults per kind.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	c.Toasts.Lifetimes = mergeLifetimes(defaults.Toasts.Lifetimes, c.Toasts.Lifetimes)

	if c.Timer.Backend == "" {
		c.Timer.Backend = defaults.Timer.Backend
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.ToastWidth == 0 {
		c.TUI.ToastWidth = defaults.TUI.ToastWidth
	}
	if c.TUI.MaxVisible == 0 {
		c.TUI.MaxVisible = defaults.TUI.MaxVisible
	}
}

func mergeLifetimes(defaults, user map[notify.Kind]time.Duration) map[notify.Kind]time.Duration {
	result := make(map[notify.Kind]time.Duration, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}
