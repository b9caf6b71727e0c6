package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/toast"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func sticky(id uint64, title string) toast.Entry {
	return toast.Entry{ID: id, Notification: notify.New(title)}
}

func expiring(id uint64, title string, in time.Duration) toast.Entry {
	return toast.Entry{
		ID:           id,
		Notification: notify.New(title).WithKind(notify.KindInfo).WithLifetime(in),
		Expiry:       epoch.Add(in),
		Expires:      true,
	}
}

func TestToastController_Replace(t *testing.T) {
	c := NewToastController()
	assert.False(t, c.HasToasts())

	entries := []toast.Entry{sticky(0, "a"), expiring(1, "b", time.Second)}
	c.Replace(entries)
	entries[0].Notification.Title = "mutated"

	require.Len(t, c.Toasts(), 2)
	assert.Equal(t, "a", c.Toasts()[0].Notification.Title)
	assert.True(t, c.HasToasts())
	assert.True(t, c.HasExpiring())

	c.Replace(nil)
	assert.False(t, c.HasToasts())
	assert.False(t, c.HasExpiring())
}

func TestToastController_NewestClosable(t *testing.T) {
	c := NewToastController()

	_, ok := c.NewestClosable()
	assert.False(t, ok)

	c.Replace([]toast.Entry{
		sticky(0, "old sticky"),
		sticky(1, "new sticky"),
		expiring(2, "expiring", time.Second),
	})

	e, ok := c.NewestClosable()
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.ID)

	c.Replace([]toast.Entry{expiring(3, "only expiring", time.Second)})
	_, ok = c.NewestClosable()
	assert.False(t, ok)
}

func TestToastController_Visible(t *testing.T) {
	c := NewToastController()
	c.Replace([]toast.Entry{sticky(0, "a"), sticky(1, "b"), sticky(2, "c")})

	visible, hidden := c.Visible(2)
	assert.Equal(t, 1, hidden)
	require.Len(t, visible, 2)
	assert.Equal(t, uint64(1), visible[0].ID)
	assert.Equal(t, uint64(2), visible[1].ID)

	visible, hidden = c.Visible(5)
	assert.Zero(t, hidden)
	assert.Len(t, visible, 3)
}

func TestToastController_Ticking(t *testing.T) {
	c := NewToastController()
	assert.False(t, c.Ticking())
	c.SetTicking(true)
	assert.True(t, c.Ticking())
}
