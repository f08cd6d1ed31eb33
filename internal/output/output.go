// Package output provides context-aware output for hub.
// Stdout is used for primary output such as help text, URLs and aliases.
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
)

type ctxKey struct{}

// Printer writes what a hub command produces itself, such as help text,
// browse URLs, CI statuses and alias scripts.
type Printer struct {
	w       io.Writer
	environ []string
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// FromContext returns the Printer attached to ctx, or one writing to
// os.Stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Styled returns a writer that downsamples lipgloss styling to what the
// printer's terminal supports. Styling is dropped when stdout is not a
// terminal, unless the environment forces colors.
func (p *Printer) Styled() io.Writer {
	environ := p.environ
	if environ == nil {
		environ = os.Environ()
	}
	return colorprofile.NewWriter(p.w, environ)
}

// SetEnviron replaces the environment Styled consults.
func (p *Printer) SetEnviron(environ []string) {
	p.environ = environ
}
