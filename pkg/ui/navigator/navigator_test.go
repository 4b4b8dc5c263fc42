package navigator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/keys"
	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/ui/navigator"
)

type fakeJump struct {
	value    string
	focused  bool
	selected bool
}

func (f *fakeJump) Focus() tea.Cmd {
	f.focused = true

	return nil
}

func (f *fakeJump) Blur()          { f.focused = false }
func (f *fakeJump) Value() string  { return f.value }
func (f *fakeJump) Reset()         { f.value = ""; f.selected = false }
func (f *fakeJump) SelectAll()     { f.selected = true }

func ptr[T any](v T) *T { return &v }

func newPager(t *testing.T, rows int, override *pagination.Override, st pagination.State) *pagination.Controller {
	t.Helper()

	c, err := pagination.New(pagination.Props{
		TotalRows:    rows,
		Pagination:   override,
		InitialState: &st,
	})
	require.NoError(t, err)

	return c
}

func TestNavigator_Keys(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		rows     int
		override *pagination.Override
		start    pagination.State
		ev       keys.Event
		want     pagination.State
		handled  bool
	}{
		"right moves to next page": {
			rows:    75,
			start:   pagination.State{PageIndex: 0, PageSize: 10},
			ev:      keys.Event{Key: "right", Focus: keys.FocusTable},
			want:    pagination.State{PageIndex: 1, PageSize: 10},
			handled: true,
		},
		"right on last page does nothing": {
			rows:  75,
			start: pagination.State{PageIndex: 7, PageSize: 10},
			ev:    keys.Event{Key: "right", Focus: keys.FocusTable},
			want:  pagination.State{PageIndex: 7, PageSize: 10},
		},
		"left moves to previous page": {
			rows:    75,
			start:   pagination.State{PageIndex: 3, PageSize: 10},
			ev:      keys.Event{Key: "left"},
			want:    pagination.State{PageIndex: 2, PageSize: 10},
			handled: true,
		},
		"left on first page does nothing": {
			rows:  75,
			start: pagination.State{PageIndex: 0, PageSize: 10},
			ev:    keys.Event{Key: "left"},
			want:  pagination.State{PageIndex: 0, PageSize: 10},
		},
		"home goes to first page": {
			rows:    75,
			start:   pagination.State{PageIndex: 5, PageSize: 10},
			ev:      keys.Event{Key: "home"},
			want:    pagination.State{PageIndex: 0, PageSize: 10},
			handled: true,
		},
		"end goes to last page": {
			rows:    75,
			start:   pagination.State{PageIndex: 1, PageSize: 10},
			ev:      keys.Event{Key: "end"},
			want:    pagination.State{PageIndex: 7, PageSize: 10},
			handled: true,
		},
		"page down skips five pages": {
			rows:    200,
			start:   pagination.State{PageIndex: 2, PageSize: 10},
			ev:      keys.Event{Key: "pgdown", Focus: keys.FocusTable},
			want:    pagination.State{PageIndex: 7, PageSize: 10},
			handled: true,
		},
		"page down near the end does nothing": {
			rows:  200,
			start: pagination.State{PageIndex: 16, PageSize: 10},
			ev:    keys.Event{Key: "pgdown"},
			want:  pagination.State{PageIndex: 16, PageSize: 10},
		},
		"page down at the threshold page": {
			rows:    200,
			start:   pagination.State{PageIndex: 14, PageSize: 10},
			ev:      keys.Event{Key: "pgdown"},
			want:    pagination.State{PageIndex: 19, PageSize: 10},
			handled: true,
		},
		"page up skips five pages": {
			rows:    200,
			start:   pagination.State{PageIndex: 10, PageSize: 10},
			ev:      keys.Event{Key: "pgup"},
			want:    pagination.State{PageIndex: 5, PageSize: 10},
			handled: true,
		},
		"page up from page five does nothing": {
			rows:  200,
			start: pagination.State{PageIndex: 4, PageSize: 10},
			ev:    keys.Event{Key: "pgup"},
			want:  pagination.State{PageIndex: 4, PageSize: 10},
		},
		"page up from page six": {
			rows:    200,
			start:   pagination.State{PageIndex: 5, PageSize: 10},
			ev:      keys.Event{Key: "pgup"},
			want:    pagination.State{PageIndex: 0, PageSize: 10},
			handled: true,
		},
		"page down without fast navigation": {
			rows:  75,
			start: pagination.State{PageIndex: 0, PageSize: 10},
			ev:    keys.Event{Key: "pgdown"},
			want:  pagination.State{PageIndex: 0, PageSize: 10},
		},
		"fast navigation forced on by override": {
			rows:     75,
			override: &pagination.Override{EnableFastNavigation: ptr(true)},
			start:    pagination.State{PageIndex: 0, PageSize: 10},
			ev:       keys.Event{Key: "pgdown"},
			want:     pagination.State{PageIndex: 5, PageSize: 10},
			handled:  true,
		},
		"suppressed over text input": {
			rows:  75,
			start: pagination.State{PageIndex: 0, PageSize: 10},
			ev:    keys.Event{Key: "right", Focus: keys.FocusText},
			want:  pagination.State{PageIndex: 0, PageSize: 10},
		},
		"suppressed over number input": {
			rows:  75,
			start: pagination.State{PageIndex: 3, PageSize: 10},
			ev:    keys.Event{Key: "home", Focus: keys.FocusNumber},
			want:  pagination.State{PageIndex: 3, PageSize: 10},
		},
		"suppressed over select": {
			rows:  75,
			start: pagination.State{PageIndex: 3, PageSize: 10},
			ev:    keys.Event{Key: "end", Focus: keys.FocusSelect},
			want:  pagination.State{PageIndex: 3, PageSize: 10},
		},
		"active inside the jump input": {
			rows:    75,
			start:   pagination.State{PageIndex: 0, PageSize: 10},
			ev:      keys.Event{Key: "right", Focus: keys.FocusJumpInput},
			want:    pagination.State{PageIndex: 1, PageSize: 10},
			handled: true,
		},
		"inactive pagination ignores keys": {
			rows:  10,
			start: pagination.State{PageIndex: 0, PageSize: 10},
			ev:    keys.Event{Key: "right"},
			want:  pagination.State{PageIndex: 0, PageSize: 10},
		},
		"plus grows the page size": {
			rows:    75,
			start:   pagination.State{PageIndex: 2, PageSize: 10},
			ev:      keys.Event{Key: "+"},
			want:    pagination.State{PageIndex: 0, PageSize: 25},
			handled: true,
		},
		"minus shrinks the page size": {
			rows:    75,
			start:   pagination.State{PageIndex: 1, PageSize: 25},
			ev:      keys.Event{Key: "-"},
			want:    pagination.State{PageIndex: 2, PageSize: 10},
			handled: true,
		},
		"minus at the smallest size": {
			rows:  75,
			start: pagination.State{PageIndex: 1, PageSize: 10},
			ev:    keys.Event{Key: "-"},
			want:  pagination.State{PageIndex: 1, PageSize: 10},
		},
		"page size keys ignored in the jump input": {
			rows:  75,
			start: pagination.State{PageIndex: 1, PageSize: 10},
			ev:    keys.Event{Key: "+", Focus: keys.FocusJumpInput},
			want:  pagination.State{PageIndex: 1, PageSize: 10},
		},
		"page size keys need the selector": {
			rows:     75,
			override: &pagination.Override{ShowSizeSelector: ptr(false)},
			start:    pagination.State{PageIndex: 1, PageSize: 10},
			ev:       keys.Event{Key: "+"},
			want:     pagination.State{PageIndex: 1, PageSize: 10},
		},
		"unbound key": {
			rows:  75,
			start: pagination.State{PageIndex: 1, PageSize: 10},
			ev:    keys.Event{Key: "x"},
			want:  pagination.State{PageIndex: 1, PageSize: 10},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pager := newPager(t, tc.rows, tc.override, tc.start)
			nav := navigator.New(pager, &fakeJump{}, nil)

			handled, _ := nav.HandleKey(tc.ev)
			assert.Equal(t, tc.handled, handled)
			assert.Equal(t, tc.want, pager.State())
		})
	}
}

func TestNavigator_JumpFromFastNavigationScenario(t *testing.T) {
	t.Parallel()

	// Page 3 of 20 with fast navigation: PageDown lands on page 8.
	pager := newPager(t, 200, nil, pagination.State{PageIndex: 2, PageSize: 10})
	require.True(t, pager.Policy().EnableFastNavigation)

	nav := navigator.New(pager, &fakeJump{}, nil)

	handled, _ := nav.HandleKey(keys.Event{Key: "pgdown", Focus: keys.FocusTable})
	require.True(t, handled)
	assert.Equal(t, 8, pager.Snapshot().CurrentPage)
}

func TestNavigator_Jump(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+g focuses and selects", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 250, nil, pagination.State{PageSize: 10})
		jump := &fakeJump{value: "4"}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "ctrl+g", Focus: keys.FocusTable})
		assert.True(t, handled)
		assert.True(t, jump.focused)
		assert.True(t, jump.selected)
	})

	t.Run("ctrl+g works over other form controls", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 250, nil, pagination.State{PageSize: 10})
		jump := &fakeJump{}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "ctrl+g", Focus: keys.FocusText})
		assert.True(t, handled)
		assert.True(t, jump.focused)
	})

	t.Run("ctrl+g needs jump enabled", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 75, nil, pagination.State{PageSize: 10})
		require.False(t, pager.Policy().EnableJumpToPage)

		jump := &fakeJump{}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "ctrl+g"})
		assert.False(t, handled)
		assert.False(t, jump.focused)
	})

	t.Run("enter commits a valid page", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 250, nil, pagination.State{PageSize: 10})
		jump := &fakeJump{value: "12", focused: true}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "enter", Focus: keys.FocusJumpInput})
		assert.True(t, handled)
		assert.Equal(t, pagination.State{PageIndex: 11, PageSize: 10}, pager.State())
		assert.Empty(t, jump.value)
		assert.False(t, jump.focused)
	})

	t.Run("enter keeps invalid input", func(t *testing.T) {
		t.Parallel()

		// 25 pages; 999 is out of range.
		pager := newPager(t, 250, nil, pagination.State{PageSize: 10})
		jump := &fakeJump{value: "999", focused: true}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "enter", Focus: keys.FocusJumpInput})
		assert.True(t, handled)
		assert.Equal(t, pagination.State{PageIndex: 0, PageSize: 10}, pager.State())
		assert.Equal(t, "999", jump.value)
		assert.True(t, jump.focused)
	})

	t.Run("enter outside the jump input is ignored", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 250, nil, pagination.State{PageSize: 10})
		jump := &fakeJump{value: "12"}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "enter", Focus: keys.FocusTable})
		assert.False(t, handled)
		assert.Equal(t, 0, pager.State().PageIndex)
	})

	t.Run("escape clears and blurs", func(t *testing.T) {
		t.Parallel()

		pager := newPager(t, 250, nil, pagination.State{PageIndex: 3, PageSize: 10})
		jump := &fakeJump{value: "12", focused: true}
		nav := navigator.New(pager, jump, nil)

		handled, _ := nav.HandleKey(keys.Event{Key: "esc", Focus: keys.FocusJumpInput})
		assert.True(t, handled)
		assert.Empty(t, jump.value)
		assert.False(t, jump.focused)
		assert.Equal(t, 3, pager.State().PageIndex)
	})
}

func TestNavigator_Loading(t *testing.T) {
	t.Parallel()

	pager, err := pagination.New(pagination.Props{TotalRows: 250, Loading: true})
	require.NoError(t, err)

	jump := &fakeJump{}
	nav := navigator.New(pager, jump, nil)

	for _, key := range []string{"right", "end", "pgdown", "ctrl+g", "+"} {
		handled, _ := nav.HandleKey(keys.Event{Key: key, Focus: keys.FocusTable})
		assert.False(t, handled, key)
	}

	assert.Equal(t, 0, pager.State().PageIndex)
	assert.False(t, jump.focused)
}

func TestNavigator_AttachDetach(t *testing.T) {
	t.Parallel()

	pager := newPager(t, 75, nil, pagination.State{PageSize: 10})
	nav := navigator.New(pager, &fakeJump{}, nil)
	d := keys.NewDispatcher()

	nav.Attach(d)
	nav.Attach(d)
	assert.True(t, nav.Attached())
	assert.Equal(t, 1, d.Len())

	handled, _ := d.Dispatch(keys.Event{Key: "right", Focus: keys.FocusTable})
	assert.True(t, handled)
	assert.Equal(t, 1, pager.State().PageIndex)

	require.NoError(t, nav.Close())
	assert.False(t, nav.Attached())
	assert.Equal(t, 0, d.Len())

	handled, _ = d.Dispatch(keys.Event{Key: "right", Focus: keys.FocusTable})
	assert.False(t, handled)
	assert.Equal(t, 1, pager.State().PageIndex)

	nav.Detach()
}

func TestNavigator_CustomKeyBinds(t *testing.T) {
	t.Parallel()

	pager := newPager(t, 75, nil, pagination.State{PageSize: 10})
	kb := &navigator.KeyBinds{
		Next: &keys.KeyBind{Keys: []keys.Key{keys.New("l")}},
	}
	nav := navigator.New(pager, &fakeJump{}, kb)

	assert.Equal(t, "next page", nav.KeyBinds().Next.Description)
	require.NotNil(t, nav.KeyBinds().Previous)

	handled, _ := nav.HandleKey(keys.Event{Key: "right"})
	assert.False(t, handled)

	handled, _ = nav.HandleKey(keys.Event{Key: "l"})
	assert.True(t, handled)
	assert.Equal(t, 1, pager.State().PageIndex)
}

func TestKeyBinds_Defaults(t *testing.T) {
	t.Parallel()

	kb := &navigator.KeyBinds{}
	kb.EnsureDefaults()

	require.NoError(t, keys.ValidateBinds(kb.GetKeyBinds()))
	assert.True(t, kb.Jump.Match("ctrl+g"))
	assert.True(t, kb.SkipForward.Match("pgdown"))
	assert.True(t, kb.Larger.Match("="))
}
