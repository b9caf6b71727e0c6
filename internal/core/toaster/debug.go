package toaster

import (
	"github.com/rs/zerolog"

	"github.com/hay-kot/toaster/internal/core/notify"
)

// RegisterDebugLogger registers hooks that log every delivery at debug level
// and every drop at warn level.
func RegisterDebugLogger(t *Toaster, logger zerolog.Logger) {
	t.OnDeliver(func(n notify.Notification) {
		logger.Debug().
			Str("kind", string(n.Kind)).
			Str("title", n.Title).
			Dur("lifetime", n.Lifetime).
			Msg("toast delivered")
	})

	t.OnDrop(func(n notify.Notification) {
		logger.Warn().
			Str("kind", string(n.Kind)).
			Str("title", n.Title).
			Msg("toast dropped: no viewer")
	})
}
