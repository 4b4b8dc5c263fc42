package config

import (
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"

	"github.com/macropower/tabula/pkg/ui/theme"
)

var ErrUnknownToken = errors.New("unknown token type")

type ThemeConfig struct {
	// Styles maps chroma token types to style strings, e.g.
	// `Background: "bg:#1e1e2e #cdd6f4"` or `NameTag: "bold #89b4fa"`.
	Styles map[string]string `json:"styles" jsonschema:"required,title=Styles"`
}

// Entries converts the configured styles to [chroma.StyleEntries].
func (tc *ThemeConfig) Entries() (chroma.StyleEntries, error) {
	if tc == nil {
		return chroma.StyleEntries{}, nil
	}

	entries := make(chroma.StyleEntries, len(tc.Styles))

	var errs []error
	for name, style := range tc.Styles {
		tt, err := chroma.TokenTypeString(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownToken, name))

			continue
		}

		entries[tt] = style
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return entries, nil
}

// RegisterThemes registers every custom theme and returns the configured
// [theme.Theme].
func (c *Config) RegisterThemes() (*theme.Theme, error) {
	for name, tc := range c.UI.Themes {
		entries, err := tc.Entries()
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}

		err = theme.Register(name, entries)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
	}

	return theme.New(c.UI.Theme), nil
}
