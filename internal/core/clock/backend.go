package clock

import (
	"fmt"

	"github.com/hay-kot/toaster/internal/core/logging"
)

// Backend names a Timers implementation selectable from configuration.
type Backend string

const (
	BackendRuntime Backend = "runtime"
	BackendCron    Backend = "cron"
)

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendRuntime, BackendCron:
		return true
	default:
		return false
	}
}

// New returns the Timers for backend along with a function that releases
// any resources it holds.
func New(backend Backend) (Timers, func() error, error) {
	switch backend {
	case BackendRuntime, "":
		return Runtime{}, func() error { return nil }, nil
	case BackendCron:
		c, err := NewCron(logging.Component("clock.cron"))
		if err != nil {
			return nil, nil, err
		}
		return c, c.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("unknown timer backend %q", backend)
	}
}
