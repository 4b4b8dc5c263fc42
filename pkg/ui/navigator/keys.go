package navigator

import "github.com/macropower/tabula/pkg/keys"

// KeyBinds configures the pagination keys. Unset binds get defaults from
// [KeyBinds.EnsureDefaults].
type KeyBinds struct {
	Previous    *keys.KeyBind `json:"previous,omitempty"`
	Next        *keys.KeyBind `json:"next,omitempty"`
	First       *keys.KeyBind `json:"first,omitempty"`
	Last        *keys.KeyBind `json:"last,omitempty"`
	SkipBack    *keys.KeyBind `json:"skipBack,omitempty"`
	SkipForward *keys.KeyBind `json:"skipForward,omitempty"`
	Jump        *keys.KeyBind `json:"jump,omitempty"`
	Submit      *keys.KeyBind `json:"submit,omitempty"`
	Cancel      *keys.KeyBind `json:"cancel,omitempty"`
	Smaller     *keys.KeyBind `json:"smaller,omitempty"`
	Larger      *keys.KeyBind `json:"larger,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Previous,
		keys.NewBind("previous page",
			keys.New("left", keys.WithAlias("←")),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next page",
			keys.New("right", keys.WithAlias("→")),
		))
	keys.SetDefaultBind(&kb.First,
		keys.NewBind("first page",
			keys.New("home"),
		))
	keys.SetDefaultBind(&kb.Last,
		keys.NewBind("last page",
			keys.New("end"),
		))
	keys.SetDefaultBind(&kb.SkipBack,
		keys.NewBind("back 5 pages",
			keys.New("pgup"),
		))
	keys.SetDefaultBind(&kb.SkipForward,
		keys.NewBind("forward 5 pages",
			keys.New("pgdown", keys.WithAlias("pgdn")),
		))
	keys.SetDefaultBind(&kb.Jump,
		keys.NewBind("jump to page",
			keys.New("ctrl+g", keys.WithAlias("⌃g")),
		))
	keys.SetDefaultBind(&kb.Submit,
		keys.NewBind("go to entered page",
			keys.New("enter", keys.WithAlias("↵")),
		))
	keys.SetDefaultBind(&kb.Cancel,
		keys.NewBind("cancel jump",
			keys.New("esc"),
		))
	keys.SetDefaultBind(&kb.Smaller,
		keys.NewBind("fewer rows per page",
			keys.New("-"),
		))
	keys.SetDefaultBind(&kb.Larger,
		keys.NewBind("more rows per page",
			keys.New("+"),
			keys.New("=", keys.Hidden()),
		))
}

// GetKeyBinds returns the binds that must not collide with each other.
// Submit and Cancel only apply inside the jump input and are left out.
func (kb *KeyBinds) GetKeyBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Previous,
		*kb.Next,
		*kb.First,
		*kb.Last,
		*kb.SkipBack,
		*kb.SkipForward,
		*kb.Jump,
		*kb.Smaller,
		*kb.Larger,
	}
}
