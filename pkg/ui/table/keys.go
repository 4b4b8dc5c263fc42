package table

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"

	"github.com/macropower/tabula/pkg/keys"
)

// KeyBinds configures the table keys that are not about pagination.
type KeyBinds struct {
	Up      *keys.KeyBind `json:"up,omitempty"`
	Down    *keys.KeyBind `json:"down,omitempty"`
	Filter  *keys.KeyBind `json:"filter,omitempty"`
	Escape  *keys.KeyBind `json:"escape,omitempty"`
	Reload  *keys.KeyBind `json:"reload,omitempty"`
	Copy    *keys.KeyBind `json:"copy,omitempty"`
	Detail  *keys.KeyBind `json:"detail,omitempty"`
	Help    *keys.KeyBind `json:"help,omitempty"`
	Suspend *keys.KeyBind `json:"suspend,omitempty"`
	Quit    *keys.KeyBind `json:"quit,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("row up",
			keys.New("up", keys.WithAlias("↑")),
			keys.New("k"),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("row down",
			keys.New("down", keys.WithAlias("↓")),
			keys.New("j"),
		))
	keys.SetDefaultBind(&kb.Filter,
		keys.NewBind("filter",
			keys.New("/"),
		))
	keys.SetDefaultBind(&kb.Escape,
		keys.NewBind("clear filter",
			keys.New("esc"),
		))
	keys.SetDefaultBind(&kb.Reload,
		keys.NewBind("reload",
			keys.New("r"),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy page",
			keys.New("y"),
		))
	keys.SetDefaultBind(&kb.Detail,
		keys.NewBind("row details",
			keys.New("enter", keys.WithAlias("↵")),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))
	keys.SetDefaultBind(&kb.Suspend,
		keys.NewBind("suspend",
			keys.New("ctrl+z", keys.WithAlias("⌃z"), keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit", keys.New("q")))
	// Always ensure that ctrl+c is bound to quit.
	kb.Quit.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))
}

// GetKeyBinds returns the binds that must not collide with other groups.
// Escape is shared with the jump input's cancel bind and is left out.
func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Up,
		*kb.Down,
		*kb.Filter,
		*kb.Reload,
		*kb.Copy,
		*kb.Detail,
		*kb.Help,
		*kb.Suspend,
		*kb.Quit,
	}
}

// tableKeyMap limits the row cursor to single steps. Page keys belong to
// the navigator.
func (kb *KeyBinds) tableKeyMap() table.KeyMap {
	disabled := key.NewBinding(key.WithDisabled())

	return table.KeyMap{
		LineUp:       binding(kb.Up),
		LineDown:     binding(kb.Down),
		PageUp:       disabled,
		PageDown:     disabled,
		HalfPageUp:   disabled,
		HalfPageDown: disabled,
		GotoTop:      disabled,
		GotoBottom:   disabled,
	}
}

func binding(kb *keys.KeyBind) key.Binding {
	codes := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		codes = append(codes, k.Code)
	}

	return key.NewBinding(
		key.WithKeys(codes...),
		key.WithHelp(kb.String(), kb.Description),
	)
}
