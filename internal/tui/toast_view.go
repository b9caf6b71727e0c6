package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/core/styles"
	"github.com/hay-kot/toaster/internal/core/toast"
)

const toastTickInterval = 500 * time.Millisecond

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and docks them in the lower-right
// corner below the background.
type ToastView struct {
	controller *ToastController
	width      int
	maxVisible int
	now        func() time.Time
	markdown   *glamour.TermRenderer
}

func NewToastView(controller *ToastController, width, maxVisible int, now func() time.Time) *ToastView {
	v := &ToastView{
		controller: controller,
		width:      width,
		maxVisible: maxVisible,
		now:        now,
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(width-4, 10)),
	)
	if err == nil {
		v.markdown = r
	}

	return v
}

// View renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *ToastView) View() string {
	toasts, hidden := v.controller.Visible(v.maxVisible)
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts)+1)
	if hidden > 0 {
		more := styles.MutedStyle.Render(fmt.Sprintf("+%d more", hidden))
		rendered = append(rendered, lipgloss.PlaceHorizontal(v.width, lipgloss.Right, more))
	}
	for _, e := range toasts {
		rendered = append(rendered, v.renderToast(e))
	}

	return strings.Join(rendered, "\n")
}

func (v *ToastView) renderToast(e toast.Entry) string {
	n := e.Notification
	kind := n.Kind
	if kind == "" {
		kind = notify.KindDefault
	}

	icon := lipgloss.NewStyle().Foreground(styles.KindColor(kind)).Render(styles.KindIcon(kind))
	parts := []string{icon + " " + styles.ToastTitleStyle.Render(n.Title)}

	if body := v.renderBody(n.Body); body != "" {
		parts = append(parts, body)
	}

	if len(n.Actions) > 0 {
		labels := make([]string, 0, len(n.Actions))
		for _, a := range n.Actions {
			labels = append(labels, styles.ToastActionStyle.Render(a.Label))
		}
		parts = append(parts, strings.Join(labels, "  "))
	}

	if meta := v.meta(e); meta != "" {
		parts = append(parts, styles.ToastMetaStyle.Render(meta))
	}

	return styles.ToastKindStyle(kind).Width(v.width).Render(strings.Join(parts, "\n"))
}

func (v *ToastView) meta(e toast.Entry) string {
	if left, ok := e.Remaining(v.now()); ok {
		return fmt.Sprintf("%s %s", styles.IconTimer, left.Round(time.Second))
	}
	if e.Closable() {
		return fmt.Sprintf("%s #%d  ctrl+x", styles.IconClose, e.ID)
	}
	return ""
}

func (v *ToastView) renderBody(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if v.markdown == nil {
		return body
	}

	out, err := v.markdown.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}

// Overlay docks the toast stack in the lower-right corner of a width by
// height screen, below background.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}
	if width <= 0 || height <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, background, toastContent)
	}

	free := max(height-lipgloss.Height(background), lipgloss.Height(toastContent))
	dock := lipgloss.Place(width, free, lipgloss.Right, lipgloss.Bottom, toastContent)

	return lipgloss.JoinVertical(lipgloss.Left, background, dock)
}
