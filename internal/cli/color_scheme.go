package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	lipglossv1 "github.com/charmbracelet/lipgloss"

	"github.com/macropower/tabula/pkg/config"
	"github.com/macropower/tabula/pkg/ui/theme"
)

// ColorSchemeFunc styles the help and error output with the configured
// theme, or with the default theme when the config cannot be read.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cl, err := config.NewLoaderFromFile(config.GetPath(), config.WithThemeFromData())
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(cl.GetTheme(), c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           fg(t.CellStyle),
		Title:          bg(t.LogoStyle),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        fg(t.ActiveSizeStyle),
		Command:        fg(t.ActiveSizeStyle),
		DimmedArgument: fg(t.SubtleStyle),
		Comment:        fg(t.SubtleStyle),
		Flag:           fg(t.ActiveSizeStyle),
		Argument:       fg(t.CellStyle),
		Description:    fg(t.CellStyle),
		FlagDefault:    fg(t.InfoStyle),
		QuotedString:   fg(t.CellStyle),
		ErrorHeader: [2]color.Color{
			fg(t.StatusErrorStyle),
			bg(t.StatusErrorStyle),
		},
	}
}

func fg(s lipglossv1.Style) color.Color {
	return toColor(s.GetForeground())
}

func bg(s lipglossv1.Style) color.Color {
	return toColor(s.GetBackground())
}

// toColor converts the hex colors used by [theme.Theme].
func toColor(c lipglossv1.TerminalColor) color.Color {
	hex, ok := c.(lipglossv1.Color)
	if !ok || hex == "" {
		return nil
	}

	return lipgloss.Color(string(hex))
}
