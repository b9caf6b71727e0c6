package commands

import (
	"slices"
	"time"

	"github.com/hay-kot/toaster/internal/core/config"
	"github.com/hay-kot/toaster/internal/core/notify"
)

// sortedKinds lists the configured kinds in display order, followed by
// any unknown kinds alphabetically.
func sortedKinds(cfg *config.Config) []notify.Kind {
	var known, unknown []notify.Kind
	for _, k := range notify.Kinds() {
		if _, ok := cfg.Toasts.Lifetimes[k]; ok {
			known = append(known, k)
		}
	}
	for k := range cfg.Toasts.Lifetimes {
		if !slices.Contains(notify.Kinds(), k) {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return append(known, unknown...)
}

func lifetimeLabel(d time.Duration) string {
	if d == 0 {
		return "until closed"
	}
	return d.String()
}
