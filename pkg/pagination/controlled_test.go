package pagination_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tabula/pkg/pagination"
)

// parent plays the role of a caller that owns the pagination state.
type parent struct {
	c       *pagination.Controller
	changes []pagination.State
	state   pagination.State
	rows    int
	echo    bool // Push every requested change straight back.
}

func newParent(t *testing.T, rows int, state pagination.State, echo bool) *parent {
	t.Helper()

	p := &parent{rows: rows, state: state, echo: echo}

	c, err := pagination.New(p.props())
	require.NoError(t, err)

	p.c = c

	return p
}

func (p *parent) props() pagination.Props {
	s := p.state

	return pagination.Props{
		TotalRows:     p.rows,
		State:         &s,
		OnStateChange: p.onChange,
	}
}

func (p *parent) onChange(s pagination.State) {
	p.changes = append(p.changes, s)
	if !p.echo {
		return
	}

	p.state = s
	if err := p.c.SetProps(p.props()); err != nil {
		panic(err)
	}
}

func TestControlled_ReadsComeFromCaller(t *testing.T) {
	t.Parallel()

	p := newParent(t, 200, pagination.State{PageIndex: 4, PageSize: 20}, false)

	assert.Equal(t, pagination.Controlled, p.c.Mode())
	assert.IsType(t, &pagination.External{}, p.c.Owner())
	assert.Equal(t, pagination.State{PageIndex: 4, PageSize: 20}, p.c.State())
	assert.Equal(t, 10, p.c.PageCount())
	assert.Equal(t, 5, p.c.Snapshot().CurrentPage)
}

func TestControlled_IntentsAreForwarded(t *testing.T) {
	t.Parallel()

	p := newParent(t, 200, pagination.State{PageIndex: 0, PageSize: 10}, false)

	got := p.c.NextPage()
	assert.Equal(t, pagination.State{PageIndex: 1, PageSize: 10}, got)
	require.Len(t, p.changes, 1)
	assert.Equal(t, got, p.changes[0])

	// The controller does not adopt the change until the caller pushes it.
	assert.Equal(t, pagination.State{PageIndex: 0, PageSize: 10}, p.c.State())
	assert.Equal(t, pagination.State{PageIndex: 0, PageSize: 10}, p.state)

	// A second intent is computed from the caller's state, not the request.
	p.c.NextPage()
	require.Len(t, p.changes, 2)
	assert.Equal(t, pagination.State{PageIndex: 1, PageSize: 10}, p.changes[1])

	p.state = p.changes[1]
	require.NoError(t, p.c.SetProps(p.props()))
	assert.Equal(t, pagination.State{PageIndex: 1, PageSize: 10}, p.c.State())
}

func TestControlled_NoCallbackForNoOps(t *testing.T) {
	t.Parallel()

	p := newParent(t, 200, pagination.State{PageIndex: 0, PageSize: 10}, false)

	p.c.PreviousPage()
	p.c.GoFirst()
	p.c.GoToPage(1)
	p.c.GoToPage(-10)
	p.c.SkipBy(-5)
	p.c.SetPageSize(10)

	assert.Empty(t, p.changes)
}

func TestControlled_CallerStateNeverWritten(t *testing.T) {
	t.Parallel()

	state := pagination.State{PageIndex: 2, PageSize: 10}
	var requested []pagination.State

	c, err := pagination.New(pagination.Props{
		TotalRows: 300,
		State:     &state,
		OnStateChange: func(s pagination.State) {
			requested = append(requested, s)
		},
	})
	require.NoError(t, err)

	c.GoLast()
	c.GoFirst()
	c.SkipBy(5)
	c.SetPageSize(50)
	c.GoToPage(7)

	assert.Equal(t, pagination.State{PageIndex: 2, PageSize: 10}, state)
	assert.Len(t, requested, 5)
}

func TestControlled_OutOfRangeCallerState(t *testing.T) {
	t.Parallel()

	// The caller may hold a stale index after the dataset shrinks.
	p := newParent(t, 30, pagination.State{PageIndex: 9, PageSize: 10}, false)

	snap := p.c.Snapshot()
	assert.Equal(t, 3, snap.CurrentPage)
	assert.Equal(t, 21, snap.StartRow)
	assert.Equal(t, 30, snap.EndRow)

	// Reconciliation does not write back on its own.
	assert.Empty(t, p.changes)
	assert.Equal(t, 9, p.c.State().PageIndex)

	// The next intent resolves the stale index into range.
	p.c.PreviousPage()
	require.Len(t, p.changes, 1)
	assert.Equal(t, pagination.State{PageIndex: 1, PageSize: 10}, p.changes[0])
}

func TestControlled_ModeSwitchRejected(t *testing.T) {
	t.Parallel()

	p := newParent(t, 100, pagination.State{PageIndex: 3, PageSize: 10}, false)

	err := p.c.SetProps(pagination.Props{TotalRows: 100})
	require.ErrorIs(t, err, pagination.ErrModeChanged)

	var ce *pagination.ContractError
	require.ErrorAs(t, err, &ce)

	// The controller keeps its original owner and inputs.
	assert.Equal(t, pagination.Controlled, p.c.Mode())
	assert.Equal(t, 3, p.c.State().PageIndex)
}

func TestUncontrolled_ModeSwitchRejected(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 100})
	c.GoToPage(2)

	state := pagination.State{PageIndex: 7, PageSize: 10}
	err := c.SetProps(pagination.Props{
		TotalRows:     100,
		State:         &state,
		OnStateChange: func(pagination.State) {},
	})
	require.ErrorIs(t, err, pagination.ErrModeChanged)

	assert.Equal(t, pagination.Uncontrolled, c.Mode())
	assert.IsType(t, &pagination.Internal{}, c.Owner())
	assert.Equal(t, 1, c.State().PageIndex)
}

func TestControlled_InvalidPropsKeepPreviousInputs(t *testing.T) {
	t.Parallel()

	p := newParent(t, 100, pagination.State{PageIndex: 3, PageSize: 10}, false)

	bad := pagination.State{PageIndex: 0, PageSize: 0}
	err := p.c.SetProps(pagination.Props{
		TotalRows:     100,
		State:         &bad,
		OnStateChange: p.onChange,
	})
	require.ErrorIs(t, err, pagination.ErrInvalidConfig)
	assert.Equal(t, pagination.State{PageIndex: 3, PageSize: 10}, p.c.State())
}

// An echoing controlled caller must observe exactly the same state sequence
// as an uncontrolled controller driven by the same intents.
func TestControlled_MatchesUncontrolled(t *testing.T) {
	t.Parallel()

	sizes := []int{5, 10, 25, 50, 100}

	for seed := range uint64(25) {
		rng := rand.New(rand.NewPCG(seed, seed*31+7))
		rows := 16 + rng.IntN(600)

		p := newParent(t, rows, pagination.State{PageSize: 10}, true)
		u := newController(t, pagination.Props{TotalRows: rows})

		for step := range 200 {
			var op func(c *pagination.Controller)

			switch rng.IntN(7) {
			case 0:
				n := rng.IntN(80) - 10
				op = func(c *pagination.Controller) { c.GoToPage(n) }
			case 1:
				op = func(c *pagination.Controller) { c.NextPage() }
			case 2:
				op = func(c *pagination.Controller) { c.PreviousPage() }
			case 3:
				op = func(c *pagination.Controller) { c.GoFirst() }
			case 4:
				op = func(c *pagination.Controller) { c.GoLast() }
			case 5:
				d := rng.IntN(21) - 10
				op = func(c *pagination.Controller) { c.SkipBy(d) }
			case 6:
				s := sizes[rng.IntN(len(sizes))]
				op = func(c *pagination.Controller) { c.SetPageSize(s) }
			}

			op(p.c)
			op(u)

			require.Equal(t, u.State(), p.c.State(), "seed %d step %d", seed, step)
			require.Equal(t, u.State(), p.state, "seed %d step %d", seed, step)
			require.Equal(t, u.Snapshot(), p.c.Snapshot(), "seed %d step %d", seed, step)

			pageCount := p.c.PageCount()
			require.GreaterOrEqual(t, p.c.State().PageIndex, 0)
			require.Less(t, p.c.State().PageIndex, max(pageCount, 1))
		}
	}
}

// Every callback carries a valid state, and no-ops never call back.
func TestControlled_CallbackStatesAreValid(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 1024))

	for range 50 {
		rows := rng.IntN(1000)
		p := newParent(t, rows, pagination.State{PageSize: 25}, true)

		for range 100 {
			before := p.c.State()
			calls := len(p.changes)

			switch rng.IntN(3) {
			case 0:
				p.c.GoToPage(rng.IntN(100) - 20)
			case 1:
				p.c.SkipBy(rng.IntN(30) - 15)
			case 2:
				p.c.SetPageSize(1 + rng.IntN(60))
			}

			if p.c.State() == before {
				assert.Equal(t, calls, len(p.changes), "no-op intents must not call back")
				continue
			}

			require.Equal(t, calls+1, len(p.changes))

			last := p.changes[len(p.changes)-1]
			assert.Positive(t, last.PageSize)
			assert.GreaterOrEqual(t, last.PageIndex, 0)
			assert.Less(t, last.PageIndex, max(p.c.PageCount(), 1))
		}
	}
}
