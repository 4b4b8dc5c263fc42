package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
)

// Cobra does not type its usage errors.
// See: https://github.com/spf13/cobra/pull/2266
var usageErrorPrefixes = []string{
	"flag needs an argument:",
	"unknown flag:",
	"unknown shorthand flag:",
	"unknown command",
	"invalid argument",
	"accepts at most",
}

// ErrorHandler prints err below fang's error header. Usage errors get a
// pointer to --help.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	var b strings.Builder

	b.WriteString(styles.ErrorHeader.String())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(err.Error()))
	b.WriteString("\n\n")

	if isUsageError(err) {
		b.WriteString(lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		))
		b.WriteString("\n\n")
	}

	_, werr := io.WriteString(w, b.String())
	if werr != nil {
		slog.Error("write error", slog.Any("err", werr), slog.Any("cause", err))
	}
}

func isUsageError(err error) bool {
	if errors.Is(err, ErrInvalidArgs) {
		return true
	}

	msg := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}

	return false
}
