// Package overlay draws a framed box over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	charmansi "github.com/charmbracelet/x/ansi"

	"github.com/macropower/tabula/pkg/ui/theme"
)

const (
	defaultMinWidth = 16

	// Rows of the background kept visible above and below the box.
	verticalMargin = 4
)

type Overlay struct {
	theme *theme.Theme

	width, height int
	minWidth      int
}

func New(t *theme.Theme, opts ...Opt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Opt func(*Overlay)

// WithMinWidth sets the minimum width of the box, in cells.
func WithMinWidth(w int) Opt {
	return func(o *Overlay) {
		o.minWidth = w
	}
}

// SetSize sets the size of the view the box is drawn on.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place wraps content to widthFraction of the view, frames it with style and
// draws it centered on bg. Content taller than the view is cut off with a
// hint line.
func (o *Overlay) Place(bg, content string, widthFraction float64, style lipgloss.Style) string {
	return compose(bg, o.box(content, widthFraction, style))
}

func (o *Overlay) box(content string, widthFraction float64, style lipgloss.Style) string {
	width := min(max(int(float64(o.width)*widthFraction), o.minWidth), o.width)
	inner := max(width-style.GetHorizontalPadding(), 1)

	lines := strings.Split(cellbuf.Wrap(content, inner, " /-"), "\n")

	limit := o.height - 2*verticalMargin
	switch {
	case limit < 1:
		lines = nil
	case len(lines) > limit:
		hint := truncate.StringWithTail("more fields hidden; enlarge the terminal",
			uint(inner), o.theme.Ellipsis) //nolint:gosec // G115: inner is positive.
		lines = append(lines[:limit], "", o.theme.SubtleStyle.Render(hint))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// compose centers fg on bg, keeping the parts of bg that fg does not cover.
func compose(bg, fg string) string {
	fgLines, fgWidth := splitLines(fg)
	bgLines, bgWidth := splitLines(bg)

	x := max(bgWidth-fgWidth, 0) / 2
	y := max(len(bgLines)-len(fgLines), 0) / 2

	var b strings.Builder
	for i, line := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+len(fgLines) {
			b.WriteString(line)

			continue
		}

		b.WriteString(splice(line, fgLines[i-y], x))
	}

	return b.String()
}

// splice writes fg over line, starting at cell x.
func splice(line, fg string, x int) string {
	var b strings.Builder

	left := truncate.String(line, uint(x)) //nolint:gosec // G115: x is never negative.
	pos := ansi.PrintableRuneWidth(left)
	b.WriteString(left)
	if pos < x {
		b.WriteString(strings.Repeat(" ", x-pos))
		pos = x
	}

	b.WriteString(fg)
	pos += ansi.PrintableRuneWidth(fg)

	right := charmansi.TruncateLeft(line, pos, "")
	if gap := ansi.PrintableRuneWidth(line) - pos - ansi.PrintableRuneWidth(right); gap > 0 {
		b.WriteString(strings.Repeat(" ", gap))
	}

	b.WriteString(right)

	return b.String()
}

// splitLines splits s into lines and returns the width of the widest one.
func splitLines(s string) ([]string, int) {
	lines := strings.Split(s, "\n")

	widest := 0
	for _, l := range lines {
		widest = max(widest, charmansi.StringWidth(l))
	}

	return lines, widest
}
