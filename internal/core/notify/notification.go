// Package notify defines the toast notification value shared by producers,
// the toaster and viewers.
package notify

import (
	"fmt"
	"time"
)

// Kind represents the severity or category of a notification.
type Kind string

const (
	KindDefault Kind = "default"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindDanger  Kind = "danger"
)

// Kinds returns all supported kinds in display order.
func Kinds() []Kind {
	return []Kind{KindDefault, KindInfo, KindSuccess, KindWarning, KindDanger}
}

// IsValid reports whether k is a supported kind. The empty kind is treated
// as KindDefault and is valid.
func (k Kind) IsValid() bool {
	switch k {
	case "", KindDefault, KindInfo, KindSuccess, KindWarning, KindDanger:
		return true
	default:
		return false
	}
}

// ParseKind converts s into a Kind. The empty string maps to KindDefault.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown kind %q", s)
	}
	if k == "" {
		return KindDefault, nil
	}
	return k, nil
}

// Action is a labelled action a viewer may offer next to a toast.
type Action struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Notification is a request to show a transient message. Values are treated
// as immutable; the With* methods return modified copies.
type Notification struct {
	Title string
	Kind  Kind
	// Lifetime is how long the toast stays visible. Zero means the toast
	// persists until it is explicitly closed.
	Lifetime time.Duration
	Body     string
	Actions  []Action
}

// New returns a title-only notification without a lifetime.
func New(title string) Notification {
	return Notification{Title: title, Kind: KindDefault}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(format string, args ...any) Notification {
	return New(fmt.Sprintf(format, args...))
}

func (n Notification) WithKind(k Kind) Notification {
	n.Kind = k
	return n
}

func (n Notification) WithLifetime(d time.Duration) Notification {
	n.Lifetime = d
	return n
}

func (n Notification) WithBody(body string) Notification {
	n.Body = body
	return n
}

// WithActions returns a copy carrying its own slice of actions.
func (n Notification) WithActions(actions ...Action) Notification {
	n.Actions = append([]Action(nil), actions...)
	return n
}

// Expires reports whether the notification carries a lifetime.
func (n Notification) Expires() bool {
	return n.Lifetime != 0
}

// String returns a short debug representation.
func (n Notification) String() string {
	if !n.Expires() {
		return fmt.Sprintf("[%s] %s", n.kind(), n.Title)
	}
	return fmt.Sprintf("[%s] %s (%s)", n.kind(), n.Title, n.Lifetime)
}

func (n Notification) kind() Kind {
	if n.Kind == "" {
		return KindDefault
	}
	return n.Kind
}
