package replay

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hay-kot/toaster/internal/core/clock"
	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/toast"
)

// EventType names what happened to the viewer.
type EventType string

const (
	EventDisplay EventType = "display"
	EventClose   EventType = "close"
	EventReap    EventType = "reap"
	EventDrop    EventType = "drop"
	EventNote    EventType = "note"
	EventMount   EventType = "mount"
	EventUnmount EventType = "unmount"
)

// Event is one observable change during a run. At is the offset from the
// start of the run.
type Event struct {
	At    time.Duration
	Type  EventType
	ID    uint64
	Title string
	Kind  notify.Kind
	Live  int
	Text  string
}

// MarshalJSON renders At as a duration string.
func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		At    string      `json:"at"`
		Type  EventType   `json:"type"`
		ID    *uint64     `json:"id,omitempty"`
		Title string      `json:"title,omitempty"`
		Kind  notify.Kind `json:"kind,omitempty"`
		Live  int         `json:"live"`
		Text  string      `json:"text,omitempty"`
	}{
		At:    e.At.String(),
		Type:  e.Type,
		Title: e.Title,
		Kind:  e.Kind,
		Live:  e.Live,
		Text:  e.Text,
	}
	if e.hasID() {
		id := e.ID
		out.ID = &id
	}
	return json.Marshal(out)
}

func (e Event) hasID() bool {
	switch e.Type {
	case EventDisplay, EventClose, EventReap:
		return true
	default:
		return false
	}
}

// String renders the event as a single text line.
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8s  %-7s", e.At.Round(time.Millisecond), e.Type)

	switch e.Type {
	case EventDisplay, EventClose, EventReap:
		fmt.Fprintf(&b, "  #%d [%s] %s (live %d)", e.ID, e.Kind, e.Title, e.Live)
	case EventDrop:
		fmt.Fprintf(&b, "  [%s] %s", e.Kind, e.Title)
	case EventNote:
		fmt.Fprintf(&b, "  %s", e.Text)
	case EventMount, EventUnmount:
		fmt.Fprintf(&b, "  (live %d)", e.Live)
	}

	return b.String()
}

// recorder turns store snapshots and toaster drops into events. Removals
// are reported as closes while an explicit close is running and as reaps
// otherwise.
type recorder struct {
	mu      sync.Mutex
	start   time.Time
	timers  clock.Timers
	emit    func(Event)
	prev    []toast.Entry
	closing bool
}

func newRecorder(start time.Time, timers clock.Timers, emit func(Event)) *recorder {
	return &recorder{start: start, timers: timers, emit: emit}
}

func (r *recorder) offset() time.Duration {
	return r.timers.Now().Sub(r.start)
}

func (r *recorder) send(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emit(e)
}

func (r *recorder) observe(entries []toast.Entry) {
	at := r.offset()
	live := len(entries)

	current := make(map[uint64]struct{}, live)
	for _, e := range entries {
		current[e.ID] = struct{}{}
	}

	removed := EventReap
	if r.closing {
		removed = EventClose
	}

	for _, e := range r.prev {
		if _, ok := current[e.ID]; !ok {
			r.send(entryEvent(at, removed, e, live))
		}
	}

	known := make(map[uint64]struct{}, len(r.prev))
	for _, e := range r.prev {
		known[e.ID] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := known[e.ID]; !ok {
			r.send(entryEvent(at, EventDisplay, e, live))
		}
	}

	r.prev = entries
}

// close runs fn with removals attributed to an explicit close.
func (r *recorder) close(fn func()) {
	r.closing = true
	defer func() { r.closing = false }()
	fn()
}

func (r *recorder) dropped(n notify.Notification) {
	r.send(Event{At: r.offset(), Type: EventDrop, Title: n.Title, Kind: kindOf(n)})
}

func (r *recorder) note(text string) {
	r.send(Event{At: r.offset(), Type: EventNote, Text: text})
}

func (r *recorder) lifecycle(t EventType) {
	r.send(Event{At: r.offset(), Type: t, Live: len(r.prev)})
}

func entryEvent(at time.Duration, t EventType, e toast.Entry, live int) Event {
	return Event{
		At:    at,
		Type:  t,
		ID:    e.ID,
		Title: e.Notification.Title,
		Kind:  kindOf(e.Notification),
		Live:  live,
	}
}

func kindOf(n notify.Notification) notify.Kind {
	if n.Kind == "" {
		return notify.KindDefault
	}
	return n.Kind
}
