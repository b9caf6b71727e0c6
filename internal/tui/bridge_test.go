package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/toast"
)

func TestBridge_forwards_snapshots_and_closes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := eventloop.New(zerolog.Nop())
	go func() { _ = loop.Run(ctx) }()

	store := toast.NewStore(clock.Runtime{},
		toast.WithDispatch(loop.Dispatch()),
		toast.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, loop.Call(ctx, func() { store.Display(notify.New("existing")) }))

	msgs := make(chan EntriesMsg, 16)
	b := NewBridge(loop, store)
	b.Forward(func(msg tea.Msg) { msgs <- msg.(EntriesMsg) })

	next := func() EntriesMsg {
		select {
		case msg := <-msgs:
			return msg
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}

	initial := next()
	require.Len(t, initial, 1)
	assert.Equal(t, "existing", initial[0].Notification.Title)

	loop.Post(func() { store.Display(notify.New("second")) })
	assert.Len(t, next(), 2)

	b.Close(initial[0].ID)
	remaining := next()
	require.Len(t, remaining, 1)
	assert.Equal(t, "second", remaining[0].Notification.Title)

	b.CloseAll()
	assert.Empty(t, next())
}
