package keys

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Focus describes which kind of element holds input focus when a key is
// pressed.
type Focus int

const (
	FocusNone      Focus = iota // Nothing focused, or a non-input element.
	FocusTable                  // The table body.
	FocusText                   // A generic text input.
	FocusNumber                 // A generic numeric input.
	FocusSelect                 // A generic selection control.
	FocusJumpInput              // The jump-to-page input.
)

func (f Focus) String() string {
	switch f {
	case FocusNone:
		return "none"
	case FocusTable:
		return "table"
	case FocusText:
		return "text"
	case FocusNumber:
		return "number"
	case FocusSelect:
		return "select"
	case FocusJumpInput:
		return "jump"
	}

	return "unknown"
}

// IsFormControl reports whether typing goes into the focused element. The
// jump-to-page input is a form control too.
func (f Focus) IsFormControl() bool {
	switch f {
	case FocusText, FocusNumber, FocusSelect, FocusJumpInput:
		return true
	case FocusNone, FocusTable:
		return false
	}

	return false
}

// Event is a key-down notification together with the focus at the time.
type Event struct {
	Key   string
	Focus Focus
}

// NewEvent builds an [Event] from a Bubble Tea key message.
func NewEvent(msg tea.KeyMsg, focus Focus) Event {
	return Event{Key: msg.String(), Focus: focus}
}

// Listener handles an [Event]. It returns true when the event was consumed,
// along with an optional command for the Bubble Tea runtime.
type Listener func(Event) (bool, tea.Cmd)

type subscription struct {
	listen Listener
	id     int
}

// Dispatcher delivers key events to subscribed listeners in subscription
// order, stopping at the first listener that consumes the event.
//
// A Dispatcher is used from the Bubble Tea update loop and is not safe for
// concurrent use.
type Dispatcher struct {
	subs   []subscription
	nextID int
}

// NewDispatcher creates an empty [Dispatcher].
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers l and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (d *Dispatcher) Subscribe(l Listener) func() {
	id := d.nextID
	d.nextID++
	d.subs = append(d.subs, subscription{id: id, listen: l})

	return func() {
		d.subs = slices.DeleteFunc(d.subs, func(s subscription) bool {
			return s.id == id
		})
	}
}

// Dispatch delivers ev and reports whether a listener consumed it.
func (d *Dispatcher) Dispatch(ev Event) (bool, tea.Cmd) {
	// Listeners may unsubscribe while handling.
	subs := slices.Clone(d.subs)
	for _, s := range subs {
		if handled, cmd := s.listen(ev); handled {
			return true, cmd
		}
	}

	return false, nil
}

// Len returns the number of subscribed listeners.
func (d *Dispatcher) Len() int {
	return len(d.subs)
}
