package patch

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes diffs to a stream, optionally colourised
type Printer struct {
	out     io.Writer
	colored bool

	header  *color.Color
	hunk    *color.Color
	removed *color.Color
	added   *color.Color
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, colored bool) *Printer {
	p := &Printer{
		out:     out,
		colored: colored,
		header:  color.New(color.Bold),
		hunk:    color.New(color.FgCyan),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}
	// The caller has already decided; ignore color.NoColor
	for _, c := range []*color.Color{p.header, p.hunk, p.removed, p.added} {
		c.EnableColor()
	}
	return p
}

// Print writes d to the stream
func (p *Printer) Print(d FileDiff) error {
	if !p.colored {
		_, err := io.WriteString(p.out, d.Text)
		return err
	}

	var sb strings.Builder
	for _, line := range splitLines(d.Text) {
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "--- "), strings.HasPrefix(body, "+++ "):
			sb.WriteString(p.header.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(p.hunk.Sprint(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(p.removed.Sprint(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(p.added.Sprint(body))
		default:
			sb.WriteString(body)
		}
		if strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(p.out, sb.String())
	return err
}

// PrintString writes s to the stream uncoloured
func (p *Printer) PrintString(s string) error {
	_, err := io.WriteString(p.out, s)
	return err
}
