// Package tui is the interactive toast viewer. It renders snapshots of a
// toast store and turns key presses into publish and close requests; all
// toast state lives in the store on its own event loop.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/styles"
	"github.com/hay-kot/toaster/internal/core/toast"
)

// EntriesMsg carries a store snapshot into the program.
type EntriesMsg []toast.Entry

// Publisher accepts notifications typed into the input line.
type Publisher interface {
	Publish(n notify.Notification)
}

// Closer forwards close requests to the store.
type Closer interface {
	Close(id uint64)
	CloseAll()
}

// Options configures the viewer.
type Options struct {
	// Lifetimes is the lifetime given to published toasts per kind.
	Lifetimes  map[notify.Kind]time.Duration
	ToastWidth int
	MaxVisible int
	Now        func() time.Time
}

type Model struct {
	publisher Publisher
	closer    Closer
	lifetimes map[notify.Kind]time.Duration

	toasts *ToastController
	view   *ToastView
	input  textinput.Model
	help   help.Model
	keys   keyMap

	kind   notify.Kind
	sticky bool
	width  int
	height int
}

func New(publisher Publisher, closer Closer, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "title | markdown body"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Focus()

	toasts := NewToastController()

	return Model{
		publisher: publisher,
		closer:    closer,
		lifetimes: opts.Lifetimes,
		toasts:    toasts,
		view:      NewToastView(toasts, opts.ToastWidth, opts.MaxVisible, opts.Now),
		input:     input,
		help:      help.New(),
		keys:      defaultKeyMap(),
		kind:      notify.KindInfo,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.help.Width = msg.Width
		return m, nil

	case EntriesMsg:
		m.toasts.Replace(msg)
		if m.toasts.HasExpiring() && !m.toasts.Ticking() {
			m.toasts.SetTicking(true)
			return m, scheduleToastTick()
		}
		return m, nil

	case toastTickMsg:
		if !m.toasts.HasExpiring() {
			m.toasts.SetTicking(false)
			return m, nil
		}
		return m, scheduleToastTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Publish):
			m.publish()
			return m, nil
		case key.Matches(msg, m.keys.CycleKind):
			m.kind = nextKind(m.kind)
			return m, nil
		case key.Matches(msg, m.keys.ToggleSticky):
			m.sticky = !m.sticky
			return m, nil
		case key.Matches(msg, m.keys.CloseNewest):
			if e, ok := m.toasts.NewestClosable(); ok {
				m.closer.Close(e.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.CloseAll):
			if m.toasts.HasToasts() {
				m.closer.CloseAll()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// publish sends the input line as a notification. Text after " | " becomes
// the markdown body.
func (m *Model) publish() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return
	}

	title, body, _ := strings.Cut(value, " | ")
	n := notify.New(strings.TrimSpace(title)).
		WithKind(m.kind).
		WithBody(strings.TrimSpace(body))
	if !m.sticky {
		n = n.WithLifetime(m.lifetimes[m.kind])
	}

	m.publisher.Publish(n)
	m.input.Reset()
}

func (m Model) View() string {
	kind := lipgloss.NewStyle().
		Foreground(styles.KindColor(m.kind)).
		Render(styles.KindIcon(m.kind) + " " + string(m.kind))

	mode := styles.MutedStyle.Render("expiring")
	if m.sticky {
		mode = styles.WarningStyle.Render("sticky")
	}

	header := styles.HeaderStyle.Render("toaster") + "  " + kind + "  " + mode
	input := styles.InputStyle.Render(m.input.View())
	background := lipgloss.JoinVertical(lipgloss.Left, header, input, m.help.View(m.keys))

	return m.view.Overlay(background, m.width, m.height)
}

func nextKind(k notify.Kind) notify.Kind {
	kinds := notify.Kinds()
	for i, candidate := range kinds {
		if candidate == k {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}
