package keys

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/muesli/reflow/ansi"
)

const ellipsis = "…"

// ErrDuplicateKey is returned by [ValidateBinds] when a key code is bound
// more than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key code, as reported by Bubble Tea's [tea.KeyMsg.String].
type Key struct {
	// Code is the key code identifier, e.g. "ctrl+g" or "pgdown".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is shown in help text instead of Code.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys still match but are left out of help text.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is a described action and the keys that trigger it.
type KeyBind struct {
	// Description is shown next to the keys in help text.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys that trigger this binding.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	visible := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether code triggers the binding.
func (kb *KeyBind) Match(code string) bool {
	if kb == nil {
		return false
	}

	return slices.ContainsFunc(kb.Keys, func(k Key) bool {
		return k.Code == code
	})
}

// AddKey appends key unless its code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// IsTextInputAction reports whether a key should reach a focused text input
// rather than be treated as a command.
func IsTextInputAction(code string) bool {
	switch code {
	case "esc", "enter", "up", "down", "pgup", "pgdown", "ctrl+g":
		return false
	}

	return true
}

// SetDefaultBind fills *kb from def, keeping any keys or description the
// user already configured.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &def

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

// ValidateBinds returns an error for every key code bound more than once
// across all groups.
func ValidateBinds(groups ...[]KeyBind) error {
	var errs []error

	seen := map[string]string{}
	for _, group := range groups {
		for _, kb := range group {
			for _, k := range kb.Keys {
				if prev, ok := seen[k.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
						ErrDuplicateKey, k.Code, prev, kb.Description))

					continue
				}

				seen[k.Code] = kb.Description
			}
		}
	}

	return errors.Join(errs...)
}

// HelpRenderer lays out key bindings in columns for a help panel.
type HelpRenderer struct {
	columns [][]KeyBind
}

// AddColumn appends a column of bindings. Empty columns are ignored.
func (h *HelpRenderer) AddColumn(kbs ...KeyBind) {
	if len(kbs) == 0 {
		return
	}

	h.columns = append(h.columns, kbs)
}

// Render draws all columns side by side within width cells.
func (h *HelpRenderer) Render(width int) string {
	if len(h.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(h.columns)-2)

	cols := make([][]string, len(h.columns))
	rows := 0
	for i, col := range h.columns {
		cols[i] = renderColumn(colWidth, col)
		rows = max(rows, len(cols[i]))
	}

	lines := make([]string, 0, rows)
	for r := range rows {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if r < len(col) {
				cell = col[r]
			}

			sb.WriteString(" " + cell + " ")
		}

		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	return strings.Join(lines, "\n")
}

func renderColumn(width int, kbs []KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, ansi.PrintableRuneWidth(kb.String()))
	}

	descWidth := max(0, width-keyWidth-2)

	rows := make([]string, 0, len(kbs))
	for _, kb := range kbs {
		keys := kb.String()
		if keys == "" {
			continue // All keys hidden.
		}

		desc := truncate(kb.Description, descWidth)
		rows = append(rows, pad(keys, keyWidth)+"  "+pad(desc, descWidth))
	}

	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-ansi.PrintableRuneWidth(s)))
}

// truncate shortens s to width cells, ending with an ellipsis when cut.
func truncate(s string, width int) string {
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}

	var sb strings.Builder

	used := 0
	for _, r := range s {
		w := ansi.PrintableRuneWidth(string(r))
		if used+w > width-1 {
			break
		}

		sb.WriteRune(r)
		used += w
	}

	return sb.String() + ellipsis
}
