package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/keys"
)

func TestDispatcher_SubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()

	d := keys.NewDispatcher()

	var got []keys.Event
	unsubscribe := d.Subscribe(func(ev keys.Event) (bool, tea.Cmd) {
		got = append(got, ev)
		return true, nil
	})
	require.Equal(t, 1, d.Len())

	handled, _ := d.Dispatch(keys.Event{Key: "right", Focus: keys.FocusTable})
	assert.True(t, handled)
	assert.Equal(t, []keys.Event{{Key: "right", Focus: keys.FocusTable}}, got)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, d.Len())

	handled, _ = d.Dispatch(keys.Event{Key: "left"})
	assert.False(t, handled)
	assert.Len(t, got, 1)
}

func TestDispatcher_FirstConsumerWins(t *testing.T) {
	t.Parallel()

	d := keys.NewDispatcher()

	var order []string
	d.Subscribe(func(keys.Event) (bool, tea.Cmd) {
		order = append(order, "first")
		return false, nil
	})
	d.Subscribe(func(keys.Event) (bool, tea.Cmd) {
		order = append(order, "second")
		return true, tea.Quit
	})
	d.Subscribe(func(keys.Event) (bool, tea.Cmd) {
		order = append(order, "third")
		return true, nil
	})

	handled, cmd := d.Dispatch(keys.Event{Key: "q"})
	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcher_UnsubscribeDuringDispatch(t *testing.T) {
	t.Parallel()

	d := keys.NewDispatcher()

	var unsubscribe func()
	unsubscribe = d.Subscribe(func(keys.Event) (bool, tea.Cmd) {
		unsubscribe()
		return false, nil
	})

	calls := 0
	d.Subscribe(func(keys.Event) (bool, tea.Cmd) {
		calls++
		return true, nil
	})

	handled, _ := d.Dispatch(keys.Event{Key: "x"})
	assert.True(t, handled)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, d.Len())
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	ev := keys.NewEvent(tea.KeyMsg{Type: tea.KeyCtrlG}, keys.FocusText)
	assert.Equal(t, keys.Event{Key: "ctrl+g", Focus: keys.FocusText}, ev)

	ev = keys.NewEvent(tea.KeyMsg{Type: tea.KeyPgDown}, keys.FocusTable)
	assert.Equal(t, "pgdown", ev.Key)

	ev = keys.NewEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")}, keys.FocusJumpInput)
	assert.Equal(t, "7", ev.Key)
}

func TestFocus(t *testing.T) {
	t.Parallel()

	tcs := map[keys.Focus]struct {
		name        string
		formControl bool
	}{
		keys.FocusNone:      {name: "none"},
		keys.FocusTable:     {name: "table"},
		keys.FocusText:      {name: "text", formControl: true},
		keys.FocusNumber:    {name: "number", formControl: true},
		keys.FocusSelect:    {name: "select", formControl: true},
		keys.FocusJumpInput: {name: "jump", formControl: true},
	}

	for f, tc := range tcs {
		assert.Equal(t, tc.name, f.String())
		assert.Equal(t, tc.formControl, f.IsFormControl(), tc.name)
	}

	assert.Equal(t, "unknown", keys.Focus(99).String())
}
