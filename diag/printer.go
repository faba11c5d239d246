package diag

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer renders diagnostics as "[line, column] Message" lines (spec.md
// §6). When Color is set it additionally styles the position prefix with
// lipgloss, the same cosmetic layer abdidvp-openkraft applies over its
// plain-text CLI output; the underlying text contract never changes.
type Printer struct {
	Out   io.Writer
	Color bool
}

var posStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))

func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{Out: out, Color: color}
}

func (p *Printer) Print(d Diagnostic) {
	if p.Color {
		fmt.Fprintf(p.Out, "%s %s\n", posStyle.Render(d.Pos.String()), p.message(d))
		return
	}
	fmt.Fprintln(p.Out, d.Text())
}

func (p *Printer) message(d Diagnostic) string {
	if d.Detail == "" {
		return string(d.Kind)
	}
	return fmt.Sprintf("%s (%s)", d.Kind, d.Detail)
}

// PrintList renders every diagnostic in l, in order.
func (p *Printer) PrintList(l List) {
	for _, d := range l {
		p.Print(d)
	}
}

// PrintFault renders a single runtime Fault the same way.
func (p *Printer) PrintFault(f *Fault) {
	if f == nil {
		return
	}
	p.Print(f.Diagnostic)
}
