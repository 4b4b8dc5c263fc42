// Package navigator maps key presses to pagination intents.
//
// A [Navigator] subscribes to a [keys.Dispatcher] and only acts on events
// whose focus allows it: while a generic form control is focused, every
// binding except jump-to-page is ignored so that typing is not hijacked.
package navigator

import (
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/keys"
	"github.com/macropower/tabula/pkg/pagination"
)

// FastSkip is the number of pages moved by fast navigation.
const FastSkip = 5

// Pager is the pagination state the navigator reads and drives.
// [*pagination.Controller] implements it.
type Pager interface {
	Policy() pagination.Policy
	State() pagination.State
	Snapshot() pagination.Snapshot
	Loading() bool

	GoToPage(n int) pagination.State
	NextPage() pagination.State
	PreviousPage() pagination.State
	GoFirst() pagination.State
	GoLast() pagination.State
	SkipBy(delta int) pagination.State
	SetPageSize(size int) pagination.State
}

// JumpInput is the jump-to-page text field.
type JumpInput interface {
	Focus() tea.Cmd
	Blur()
	Value() string
	Reset()
	// SelectAll marks the current contents so the next typed character
	// replaces them.
	SelectAll()
}

// Navigator is the keyboard navigation controller.
type Navigator struct {
	pager       Pager
	jump        JumpInput
	kb          *KeyBinds
	unsubscribe func()
}

// New creates a [Navigator]. Missing key binds are filled with defaults.
func New(pager Pager, jump JumpInput, kb *KeyBinds) *Navigator {
	if kb == nil {
		kb = &KeyBinds{}
	}

	kb.EnsureDefaults()

	return &Navigator{
		pager: pager,
		jump:  jump,
		kb:    kb,
	}
}

// Attach subscribes the navigator to d, replacing any earlier subscription.
func (n *Navigator) Attach(d *keys.Dispatcher) {
	n.Detach()
	n.unsubscribe = d.Subscribe(n.HandleKey)
}

// Detach removes the navigator's subscription, if any.
func (n *Navigator) Detach() {
	if n.unsubscribe == nil {
		return
	}

	n.unsubscribe()
	n.unsubscribe = nil
}

// Attached reports whether the navigator is subscribed to a dispatcher.
func (n *Navigator) Attached() bool {
	return n.unsubscribe != nil
}

// Close detaches the navigator. It implements [io.Closer].
func (n *Navigator) Close() error {
	n.Detach()

	return nil
}

// KeyBinds returns the active key binds.
func (n *Navigator) KeyBinds() *KeyBinds {
	return n.kb
}

// HandleKey applies ev and reports whether it triggered an action.
// It satisfies [keys.Listener].
func (n *Navigator) HandleKey(ev keys.Event) (bool, tea.Cmd) {
	if n.pager.Loading() {
		return false, nil
	}

	policy := n.pager.Policy()
	if !policy.Active {
		return false, nil
	}

	// Jump works over any focus, including unrelated form fields.
	if n.kb.Jump.Match(ev.Key) {
		if !policy.EnableJumpToPage {
			return false, nil
		}

		cmd := n.jump.Focus()
		n.jump.SelectAll()

		return true, cmd
	}

	inJump := ev.Focus == keys.FocusJumpInput
	if ev.Focus.IsFormControl() && !inJump {
		return false, nil
	}

	if inJump {
		switch {
		case n.kb.Submit.Match(ev.Key):
			n.submitJump()

			return true, nil

		case n.kb.Cancel.Match(ev.Key):
			n.jump.Reset()
			n.jump.Blur()

			return true, nil
		}
	}

	return n.navigate(ev, policy, inJump)
}

func (n *Navigator) navigate(ev keys.Event, policy pagination.Policy, inJump bool) (bool, tea.Cmd) {
	snap := n.pager.Snapshot()

	switch {
	case n.kb.Previous.Match(ev.Key):
		if !snap.CanGoPrevious {
			return false, nil
		}

		n.pager.PreviousPage()

	case n.kb.Next.Match(ev.Key):
		if !snap.CanGoNext {
			return false, nil
		}

		n.pager.NextPage()

	case n.kb.First.Match(ev.Key):
		if !snap.CanGoPrevious {
			return false, nil
		}

		n.pager.GoFirst()

	case n.kb.Last.Match(ev.Key):
		if !snap.CanGoNext {
			return false, nil
		}

		n.pager.GoLast()

	case n.kb.SkipBack.Match(ev.Key):
		if !policy.EnableFastNavigation || snap.CurrentPage <= FastSkip {
			return false, nil
		}

		n.pager.SkipBy(-FastSkip)

	case n.kb.SkipForward.Match(ev.Key):
		if !policy.EnableFastNavigation || snap.CurrentPage > snap.PageCount-FastSkip {
			return false, nil
		}

		n.pager.SkipBy(FastSkip)

	case !inJump && n.kb.Smaller.Match(ev.Key):
		return n.cyclePageSize(policy, -1), nil

	case !inJump && n.kb.Larger.Match(ev.Key):
		return n.cyclePageSize(policy, 1), nil

	default:
		return false, nil
	}

	slog.Debug("navigated",
		slog.String("key", ev.Key),
		slog.String("focus", ev.Focus.String()),
		slog.Int("page", n.pager.Snapshot().CurrentPage),
	)

	return true, nil
}

// submitJump commits the jump input if it holds a valid page. Invalid input
// is left in place, still focused.
func (n *Navigator) submitJump() {
	page, ok := pagination.ValidateJump(n.jump.Value(), n.pager.Snapshot().PageCount)
	if !ok {
		slog.Debug("jump rejected", slog.String("input", n.jump.Value()))

		return
	}

	n.pager.GoToPage(page)
	n.jump.Reset()
	n.jump.Blur()
}

// cyclePageSize moves to the neighbouring entry of the page size options.
func (n *Navigator) cyclePageSize(policy pagination.Policy, dir int) bool {
	if !policy.ShowSizeSelector || len(policy.PageSizeOptions) == 0 {
		return false
	}

	opts := policy.PageSizeOptions
	cur := n.pager.State().PageSize

	i, found := slices.BinarySearch(opts, cur)
	switch {
	case dir > 0 && found:
		i++
	case dir < 0:
		i--
	}

	if i < 0 || i >= len(opts) {
		return false
	}

	n.pager.SetPageSize(opts[i])

	return true
}
