package statusbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/tabula/pkg/ui/theme"
)

const helpPadding = 1

// KeyBindRenderer lays out key bindings within a width.
type KeyBindRenderer interface {
	Render(width int) string
}

// Help is the key binding panel drawn under the table. The panel is cached
// for the last width it was drawn at, since the table measures it before
// drawing it.
type Help struct {
	theme *theme.Theme
	binds KeyBindRenderer
	view  string
	width int
}

func NewHelp(t *theme.Theme, binds KeyBindRenderer) *Help {
	return &Help{theme: t, binds: binds, width: -1}
}

// View returns the panel for a terminal width cells wide.
func (h *Help) View(width int) string {
	if width == h.width {
		return h.view
	}

	inner := max(width-2*helpPadding, 0)
	content := lipgloss.NewStyle().
		Padding(helpPadding).
		Render(h.binds.Render(inner))

	h.view = h.theme.HelpStyle.Render(content)
	h.width = width

	return h.view
}

// Height returns the number of lines [Help.View] takes up.
func (h *Help) Height(width int) int {
	return lipgloss.Height(h.View(width))
}
