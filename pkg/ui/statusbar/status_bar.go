// Package statusbar renders the one-line status bar and the help panel shown
// below the table.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/tabula/pkg/ui/theme"
	"github.com/macropower/tabula/pkg/version"
)

const (
	helpText  = " ? Help "
	errorText = " ! Error "
)

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// StatusBarRenderer renders the status bar.
type StatusBarRenderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type StatusBarOpt func(*StatusBarRenderer)

// WithMessage replaces the note with a transient message.
func WithMessage(message string, style Style) StatusBarOpt {
	return func(r *StatusBarRenderer) {
		if message == "" {
			return
		}

		r.style = style
		r.message = message
	}
}

func NewStatusBarRenderer(t *theme.Theme, width int, opts ...StatusBarOpt) *StatusBarRenderer {
	sb := &StatusBarRenderer{theme: t, width: width, style: StyleNormal}
	for _, opt := range opts {
		opt(sb)
	}

	return sb
}

// Render draws the status bar with note on the left and info on the right.
// The note is truncated to fit; the bar is never narrower than its fixed
// parts.
func (r *StatusBarRenderer) Render(note, info string) string {
	logo := r.logoView()
	help := r.renderHelpNote()
	right := ""
	if info != "" {
		right = r.barStyle().Render(" " + info + " ")
	}

	noteView := r.renderNote(note, logo, right, help)
	space := r.renderEmptySpace(logo, noteView, right, help)

	return fmt.Sprintf("%s%s%s%s%s", logo, noteView, space, right, help)
}

func (r *StatusBarRenderer) barStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.StatusErrorStyle
	case StyleSuccess:
		return r.theme.StatusSuccessStyle
	default:
		return r.theme.StatusStyle
	}
}

func (r *StatusBarRenderer) renderHelpNote() string {
	if r.style == StyleError {
		return r.theme.StatusErrorStyle.Bold(true).Render(errorText)
	}

	return r.theme.StatusStyle.Render(helpText)
}

func (r *StatusBarRenderer) renderNote(msg string, fixed ...string) string {
	if r.message != "" {
		msg = r.message
	}

	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.TrimSpace(msg)

	available := r.width
	for _, f := range fixed {
		available -= ansi.PrintableRuneWidth(f)
	}

	available = max(0, available)

	msg = truncate.StringWithTail(" "+msg+" ", uint(available), r.theme.Ellipsis) //nolint:gosec // Uses max.

	return r.barStyle().Render(msg)
}

func (r *StatusBarRenderer) renderEmptySpace(components ...string) string {
	padding := r.width
	for _, comp := range components {
		padding -= ansi.PrintableRuneWidth(comp)
	}

	return r.barStyle().Render(strings.Repeat(" ", max(0, padding)))
}

func (r *StatusBarRenderer) logoView() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" tabula %s ", version.GetVersion()))
}
