package tui

import (
	"slices"

	"github.com/hay-kot/toaster/internal/core/toast"
)

// ToastController holds the latest snapshot of live toasts received from
// the store. Expiry and removal happen in the store; the controller only
// answers questions the view and key handlers ask about the snapshot.
type ToastController struct {
	entries []toast.Entry
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Replace swaps in a new snapshot, oldest first.
func (c *ToastController) Replace(entries []toast.Entry) {
	c.entries = slices.Clone(entries)
}

// NewestClosable returns the most recent toast that offers a dismiss
// control.
func (c *ToastController) NewestClosable() (toast.Entry, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Closable() {
			return c.entries[i], true
		}
	}
	return toast.Entry{}, false
}

// HasToasts returns true if there are any live toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.entries) > 0
}

// HasExpiring reports whether any live toast shows a countdown.
func (c *ToastController) HasExpiring() bool {
	return slices.ContainsFunc(c.entries, func(e toast.Entry) bool { return e.Expires })
}

// Toasts returns the current snapshot.
func (c *ToastController) Toasts() []toast.Entry {
	return c.entries
}

// Visible returns at most limit of the newest toasts and how many older
// ones were left out.
func (c *ToastController) Visible(limit int) ([]toast.Entry, int) {
	if limit <= 0 || len(c.entries) <= limit {
		return c.entries, 0
	}
	hidden := len(c.entries) - limit
	return c.entries[hidden:], hidden
}

// Ticking returns whether the countdown refresh is running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the countdown refresh state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
