// Package theme derives the table's lipgloss styles from a Chroma style, so
// that any Chroma theme name can be used in the configuration.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Ellipsis marks truncated text and skipped page ranges.
const Ellipsis = "…"

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")
)

var Default = New("github")

type Theme struct {
	// Table body.
	HeaderStyle   lipgloss.Style
	CellStyle     lipgloss.Style
	SelectedStyle lipgloss.Style

	// Footer.
	FooterStyle       lipgloss.Style
	PageStyle         lipgloss.Style
	CurrentPageStyle  lipgloss.Style
	DisabledStyle     lipgloss.Style
	InfoStyle         lipgloss.Style
	SizeStyle         lipgloss.Style
	ActiveSizeStyle   lipgloss.Style
	JumpPromptStyle   lipgloss.Style
	FilterPromptStyle lipgloss.Style
	SpinnerStyle      lipgloss.Style

	// Status bar.
	LogoStyle          lipgloss.Style
	StatusStyle        lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style

	ErrorStyle    lipgloss.Style
	ErrorRowStyle lipgloss.Style
	HelpStyle     lipgloss.Style
	SubtleStyle   lipgloss.Style
	DetailStyle   lipgloss.Style

	ChromaStyle *chroma.Style
	Name        string
	Ellipsis    string
}

func New(theme string) *Theme {
	style := newChromaStyle(theme)

	var (
		textStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Background, 0))

		accent = style.fg(chroma.NameTag, 0)

		subtleStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Comment, 0))

		headerStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Foreground(accent).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(style.fg(chroma.Comment, 0.2))

		selectedStyle = lipgloss.NewStyle().
				Foreground(style.bg(chroma.Background, 0)).
				Background(style.fg(chroma.NameTag, 0.15))

		currentPageStyle = lipgloss.NewStyle().
					Bold(true).
					Padding(0, 1).
					Foreground(style.bg(chroma.Background, 0)).
					Background(accent)

		footerStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Background, 0)).
				Background(style.bg(chroma.Background, 0.1))

		helpStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.Background, 0.2))

		errorStyle = lipgloss.NewStyle().
				Foreground(style.fg(chroma.GenericDeleted, 0)).
				Bold(true)

		statusBg = style.bg(chroma.Background, 0.15)
	)

	return &Theme{
		HeaderStyle:   headerStyle,
		CellStyle:     textStyle.Padding(0, 1),
		SelectedStyle: selectedStyle,

		FooterStyle:       footerStyle,
		PageStyle:         textStyle.Padding(0, 1),
		CurrentPageStyle:  currentPageStyle,
		DisabledStyle:     subtleStyle.Faint(true),
		InfoStyle:         subtleStyle,
		SizeStyle:         subtleStyle,
		ActiveSizeStyle:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		JumpPromptStyle:   lipgloss.NewStyle().Foreground(accent),
		FilterPromptStyle: lipgloss.NewStyle().Foreground(accent),
		SpinnerStyle:      lipgloss.NewStyle().Foreground(accent),

		LogoStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(style.bg(chroma.Background, 0)).
			Background(accent),
		StatusStyle: lipgloss.NewStyle().
			Foreground(style.fg(chroma.Comment, 0)).
			Background(statusBg),
		StatusSuccessStyle: lipgloss.NewStyle().
			Foreground(style.bg(chroma.Background, 0)).
			Background(style.fg(chroma.GenericInserted, 0)),
		StatusErrorStyle: lipgloss.NewStyle().
			Foreground(style.bg(chroma.Background, 0)).
			Background(style.fg(chroma.GenericDeleted, 0)),

		ErrorStyle:    errorStyle,
		ErrorRowStyle: errorStyle.Underline(true),
		HelpStyle:     helpStyle,
		SubtleStyle:   subtleStyle,

		DetailStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		ChromaStyle: style.style,
		Name:        style.style.Name,
		Ellipsis:    Ellipsis,
	}
}

// Register adds a custom Chroma style that can then be selected by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	customTheme, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(customTheme)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(theme string) chromaStyle {
	s := styles.Get(styleName(theme))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{
		style: s,
	}
}

// fg returns the foreground of token t, shifted toward the opposite
// brightness by factor.
func (cs chromaStyle) fg(t chroma.TokenType, factor float64) lipgloss.Color {
	return shade(cs.style.Get(t).Colour, factor) //nolint:misspell // Chroma naming.
}

// bg is like fg for the background of token t.
func (cs chromaStyle) bg(t chroma.TokenType, factor float64) lipgloss.Color {
	return shade(cs.style.Get(t).Background, factor)
}

func shade(c chroma.Colour, factor float64) lipgloss.Color { //nolint:misspell // Chroma naming.
	if factor != 0 && c.IsSet() {
		c = c.BrightenOrDarken(factor)
	}

	return lipgloss.Color(c.String())
}

var aliases = map[string]string{
	"dark":  "github-dark",
	"light": "github",
}

// styleName maps a configured theme to a Chroma style name. "auto" picks by
// terminal background, and an empty result selects the fallback style.
func styleName(name string) string {
	if alias, ok := aliases[name]; ok {
		return alias
	}
	if name != "auto" && name != "" {
		return name
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ""
	}
	if termenv.HasDarkBackground() {
		return aliases["dark"]
	}

	return aliases["light"]
}
