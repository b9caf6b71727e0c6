package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/toaster/internal/core/eventloop"
	"github.com/hay-kot/toaster/internal/core/toast"
)

// Bridge connects a store confined to an event loop with a bubbletea
// program running on another goroutine. Requests are posted to the loop and
// never wait for it.
type Bridge struct {
	loop  *eventloop.Loop
	store *toast.Store
}

func NewBridge(loop *eventloop.Loop, store *toast.Store) *Bridge {
	return &Bridge{loop: loop, store: store}
}

func (b *Bridge) Close(id uint64) {
	b.loop.Post(func() { b.store.Close(id) })
}

func (b *Bridge) CloseAll() {
	b.loop.Post(func() { b.store.CloseAll() })
}

// Forward sends the current snapshot and every later change to send,
// normally tea.Program.Send. send runs on the loop and may block until the
// program reads the message.
func (b *Bridge) Forward(send func(tea.Msg)) {
	b.loop.Post(func() {
		b.store.OnChange(func(entries []toast.Entry) {
			send(EntriesMsg(entries))
		})
		send(EntriesMsg(b.store.Entries()))
	})
}

var _ Closer = (*Bridge)(nil)
