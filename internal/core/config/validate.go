package config

import (
	"fmt"
	"net"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/toaster/internal/core/styles"
)

// Validate checks that the configuration is valid. All field errors are
// collected rather than stopping at the first.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateLifetimes(),
		criterio.Run("timer.backend", string(c.Timer.Backend), validateBackend(c)),
		criterio.Run("tui.theme", c.TUI.Theme, validateTheme),
		c.validateTUI(),
		criterio.Run("metrics.addr", c.Metrics.Addr, validateAddr),
	)
}

func (c *Config) validateLifetimes() error {
	var errs criterio.FieldErrorsBuilder
	for kind, d := range c.Toasts.Lifetimes {
		field := fmt.Sprintf("toasts.lifetimes[%s]", kind)
		if !kind.IsValid() || kind == "" {
			errs = errs.Append(field, fmt.Errorf("unknown kind %q", kind))
			continue
		}
		if d < 0 {
			errs = errs.Append(field, fmt.Errorf("lifetime must not be negative, got %s", d))
		}
	}
	return errs.ToError()
}

func (c *Config) validateTUI() error {
	var errs criterio.FieldErrorsBuilder
	if c.TUI.ToastWidth < 20 {
		errs = errs.Append("tui.toast_width", fmt.Errorf("must be at least 20, got %d", c.TUI.ToastWidth))
	}
	if c.TUI.MaxVisible < 1 {
		errs = errs.Append("tui.max_visible", fmt.Errorf("must be at least 1, got %d", c.TUI.MaxVisible))
	}
	return errs.ToError()
}

func validateBackend(c *Config) func(string) error {
	return func(string) error {
		if !c.Timer.Backend.IsValid() {
			return fmt.Errorf("unknown timer backend %q (runtime, cron)", c.Timer.Backend)
		}
		return nil
	}
}

func validateTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func validateAddr(addr string) error {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}
	return nil
}
