// Package printer writes human-facing command output. Commands fetch the
// printer from the context so tests can capture what they print.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toaster/internal/core/styles"
)

type ctxKey struct{}

type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Section(title string) {
	p.Printf("%s", styles.HeaderStyle.Render(title))
}

func (p *Printer) Infof(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Primary, styles.IconToastInfo, format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Success, styles.IconToastSuccess, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Warning, styles.IconToastWarning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Error, styles.IconToastDanger, format, args...)
}

func (p *Printer) prefixed(color lipgloss.Color, icon, format string, args ...any) {
	prefix := lipgloss.NewStyle().Foreground(color).Render(icon)
	p.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}
