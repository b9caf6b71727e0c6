// Package styles provides shared lipgloss styles for the CLI and TUI.
package styles

import (
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toaster/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	DividerStyle lipgloss.Style
	InputStyle   lipgloss.Style
	HelpStyle    lipgloss.Style

	ToastStyle       lipgloss.Style
	ToastTitleStyle  lipgloss.Style
	ToastActionStyle lipgloss.Style
	ToastMetaStyle   lipgloss.Style

	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Foreground)
	ToastActionStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Underline(true)
	ToastMetaStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
}

// KindColor returns the accent color for a notification kind.
func KindColor(k notify.Kind) lipgloss.Color {
	switch k {
	case notify.KindInfo:
		return CurrentPalette.Primary
	case notify.KindSuccess:
		return CurrentPalette.Success
	case notify.KindWarning:
		return CurrentPalette.Warning
	case notify.KindDanger:
		return CurrentPalette.Error
	default:
		return CurrentPalette.Muted
	}
}

// KindIcon returns the icon for a notification kind.
func KindIcon(k notify.Kind) string {
	switch k {
	case notify.KindInfo:
		return IconToastInfo
	case notify.KindSuccess:
		return IconToastSuccess
	case notify.KindWarning:
		return IconToastWarning
	case notify.KindDanger:
		return IconToastDanger
	default:
		return IconToastDefault
	}
}

// ToastKindStyle returns the toast frame style tinted for kind.
func ToastKindStyle(k notify.Kind) lipgloss.Style {
	return ToastStyle.BorderForeground(KindColor(k))
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func hexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a glamour style config derived from the active theme,
// used to render toast bodies.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := hexPtr(CurrentPalette.Foreground)
	primary := hexPtr(CurrentPalette.Primary)
	secondary := hexPtr(CurrentPalette.Secondary)
	muted := hexPtr(CurrentPalette.Muted)

	// Toast bodies are small; drop the document margin.
	var zero uint
	cfg.Document.Margin = &zero
	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
