package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tabula/pkg/pagination"
)

func newController(t *testing.T, p pagination.Props) *pagination.Controller {
	t.Helper()

	c, err := pagination.New(p)
	require.NoError(t, err)

	return c
}

func TestController_ScenarioLastThenPrevious(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 75})

	require.True(t, c.Policy().Active)
	assert.Equal(t, 8, c.PageCount())

	c.GoLast()
	c.PreviousPage()

	snap := c.Snapshot()
	assert.Equal(t, pagination.Snapshot{
		CurrentPage:   7,
		PageCount:     8,
		StartRow:      61,
		EndRow:        70,
		TotalRows:     75,
		CanGoPrevious: true,
		CanGoNext:     true,
	}, snap)
}

func TestController_SmallDatasetIsSinglePage(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 10})

	assert.False(t, c.Policy().Active)
	assert.Equal(t, pagination.State{PageIndex: 0, PageSize: 10}, c.State())
	assert.Equal(t, 1, c.PageCount())
	assert.Equal(t, pagination.Snapshot{
		CurrentPage: 1,
		PageCount:   1,
		StartRow:    1,
		EndRow:      10,
		TotalRows:   10,
	}, c.Snapshot())

	// Intents are ignored while pagination is inactive.
	c.NextPage()
	c.GoLast()
	c.SetPageSize(2)
	assert.Equal(t, pagination.State{PageIndex: 0, PageSize: 10}, c.State())
}

func TestController_Disabled(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{
		TotalRows:  1000,
		Pagination: &pagination.Override{Disabled: true},
	})

	assert.False(t, c.Policy().Active)
	assert.Equal(t, 1, c.PageCount())
	assert.Equal(t, 1000, c.State().PageSize)
	assert.Equal(t, 1000, c.Snapshot().EndRow)
}

func TestController_EmptyDataset(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{
		TotalRows:  0,
		Pagination: &pagination.Override{},
	})

	assert.True(t, c.Policy().Active)
	assert.Equal(t, 0, c.PageCount())

	c.GoToPage(3)
	c.NextPage()
	c.GoLast()

	assert.Equal(t, pagination.State{PageSize: 10}, c.State())
	assert.Equal(t, pagination.Snapshot{CurrentPage: 1}, c.Snapshot())
}

func TestController_Intents(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		do   func(c *pagination.Controller)
		want pagination.State
	}{
		"go to page": {
			do:   func(c *pagination.Controller) { c.GoToPage(4) },
			want: pagination.State{PageIndex: 3, PageSize: 10},
		},
		"go to page beyond end": {
			do:   func(c *pagination.Controller) { c.GoToPage(99) },
			want: pagination.State{PageIndex: 19, PageSize: 10},
		},
		"go to page before start": {
			do:   func(c *pagination.Controller) { c.GoToPage(-4) },
			want: pagination.State{PageIndex: 0, PageSize: 10},
		},
		"next": {
			do:   func(c *pagination.Controller) { c.NextPage() },
			want: pagination.State{PageIndex: 1, PageSize: 10},
		},
		"previous at first page": {
			do:   func(c *pagination.Controller) { c.PreviousPage() },
			want: pagination.State{PageIndex: 0, PageSize: 10},
		},
		"next at last page": {
			do: func(c *pagination.Controller) {
				c.GoLast()
				c.NextPage()
			},
			want: pagination.State{PageIndex: 19, PageSize: 10},
		},
		"first": {
			do: func(c *pagination.Controller) {
				c.GoToPage(9)
				c.GoFirst()
			},
			want: pagination.State{PageIndex: 0, PageSize: 10},
		},
		"skip forward": {
			do:   func(c *pagination.Controller) { c.SkipBy(5) },
			want: pagination.State{PageIndex: 5, PageSize: 10},
		},
		"skip back past start": {
			do: func(c *pagination.Controller) {
				c.GoToPage(3)
				c.SkipBy(-5)
			},
			want: pagination.State{PageIndex: 0, PageSize: 10},
		},
		"skip forward past end": {
			do: func(c *pagination.Controller) {
				c.GoToPage(18)
				c.SkipBy(5)
			},
			want: pagination.State{PageIndex: 19, PageSize: 10},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, pagination.Props{TotalRows: 200})
			tc.do(c)
			assert.Equal(t, tc.want, c.State())
		})
	}
}

func TestController_GoToPageAlwaysClamped(t *testing.T) {
	t.Parallel()

	for rows := 16; rows <= 240; rows += 37 {
		c := newController(t, pagination.Props{TotalRows: rows})
		pageCount := c.PageCount()

		for n := -20; n <= pageCount+20; n++ {
			s := c.GoToPage(n)
			assert.GreaterOrEqual(t, s.PageIndex, 0)
			assert.LessOrEqual(t, s.PageIndex, pageCount-1)
			assert.Equal(t, s, c.State())
		}
	}
}

func TestController_SetPageSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		start     int // 1-based page before resizing.
		size      int
		totalRows int
		want      pagination.State
	}{
		"first row stays visible when growing": {
			totalRows: 100,
			start:     4, // Rows 31-40.
			size:      25,
			want:      pagination.State{PageIndex: 1, PageSize: 25}, // Rows 26-50.
		},
		"first row stays visible when shrinking": {
			totalRows: 100,
			start:     3, // Rows 21-30.
			size:      5,
			want:      pagination.State{PageIndex: 4, PageSize: 5}, // Rows 21-25.
		},
		"single page after growing": {
			totalRows: 75,
			start:     8,
			size:      100,
			want:      pagination.State{PageIndex: 0, PageSize: 100},
		},
		"same first row on boundary": {
			totalRows: 100,
			start:     6, // Rows 51-60.
			size:      50,
			want:      pagination.State{PageIndex: 1, PageSize: 50}, // Rows 51-100.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, pagination.Props{TotalRows: tc.totalRows})
			c.GoToPage(tc.start)
			c.SetPageSize(tc.size)

			got := c.State()
			assert.Equal(t, tc.want, got)
			assert.Less(t, got.PageIndex, c.PageCount())
		})
	}
}

func TestController_SetPageSizeManualClampsToLastPage(t *testing.T) {
	t.Parallel()

	// Server reports 10 pages of 10 rows but the row count is unknown.
	c := newController(t, pagination.Props{
		TotalRows: 10,
		Manual:    true,
		PageCount: ptr(10),
	})

	c.GoToPage(10)
	c.SetPageSize(50)

	assert.Equal(t, pagination.State{PageIndex: 1, PageSize: 50}, c.State())
}

func TestController_PageSizeOptionsIncludeActiveSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		props  pagination.Props
		resize int
	}{
		"uncontrolled resize": {
			props:  pagination.Props{TotalRows: 100},
			resize: 33,
		},
		"initial state": {
			props: pagination.Props{
				TotalRows:    100,
				InitialState: &pagination.State{PageSize: 33},
			},
		},
		"caller state": {
			props: pagination.Props{
				TotalRows:     100,
				State:         &pagination.State{PageSize: 33},
				OnStateChange: func(pagination.State) {},
			},
		},
		"configured options": {
			props: pagination.Props{
				TotalRows: 100,
				Pagination: &pagination.Override{
					PageSizeOptions: []int{20, 40},
				},
			},
			resize: 33,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, tc.props)
			if tc.resize > 0 {
				c.SetPageSize(tc.resize)
			}

			size := c.State().PageSize
			require.Equal(t, 33, size)

			opts := c.Policy().PageSizeOptions
			assert.Contains(t, opts, size)
			assert.IsIncreasing(t, opts)
			assert.Equal(t, opts, pagination.ResolveOptions(opts, size))
		})
	}
}

func TestController_SetPageSizeContractViolation(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 100})

	assert.Panics(t, func() { c.SetPageSize(0) })
	assert.Panics(t, func() { c.SetPageSize(-10) })
}

func TestController_InitialState(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		initial pagination.State
		want    pagination.State
		rows    int
	}{
		"used as given": {
			rows:    100,
			initial: pagination.State{PageIndex: 3, PageSize: 20},
			want:    pagination.State{PageIndex: 3, PageSize: 20},
		},
		"index clamped": {
			rows:    100,
			initial: pagination.State{PageIndex: 30, PageSize: 20},
			want:    pagination.State{PageIndex: 4, PageSize: 20},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			initial := tc.initial
			c := newController(t, pagination.Props{TotalRows: tc.rows, InitialState: &initial})
			assert.Equal(t, tc.want, c.State())
			assert.Equal(t, pagination.Uncontrolled, c.Mode())
		})
	}
}

func TestController_ConfiguredPageSize(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{
		TotalRows:  100,
		Pagination: &pagination.Override{PageSize: ptr(20)},
	})

	assert.Equal(t, 20, c.State().PageSize)
	assert.Equal(t, []int{10, 20, 25, 50, 100}, c.Policy().PageSizeOptions)
	assert.Equal(t, 5, c.PageCount())
}

func TestController_RowCountOverride(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{
		TotalRows: 10, // Only the current page is held locally.
		RowCount:  ptr(245),
	})

	assert.True(t, c.Policy().Active)
	assert.True(t, c.Policy().EnableJumpToPage)
	assert.Equal(t, 25, c.PageCount())

	c.GoLast()
	snap := c.Snapshot()
	assert.Equal(t, 241, snap.StartRow)
	assert.Equal(t, 245, snap.EndRow)
	assert.Equal(t, 245, snap.TotalRows)
}

func TestController_ManualPageCount(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{
		TotalRows: 10,
		RowCount:  ptr(1000),
		Manual:    true,
		PageCount: ptr(7),
	})

	assert.Equal(t, 7, c.PageCount())

	c.GoToPage(50)
	assert.Equal(t, 6, c.State().PageIndex)
}

func TestController_SetPropsUncontrolled(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 200})
	c.GoToPage(15)
	c.SetPageSize(10)

	// Dataset shrinks (filter applied).
	require.NoError(t, c.SetProps(pagination.Props{TotalRows: 42}))
	assert.Equal(t, pagination.State{PageIndex: 4, PageSize: 10}, c.State())

	// User chosen size is kept across unrelated updates.
	c.SetPageSize(25)
	require.NoError(t, c.SetProps(pagination.Props{TotalRows: 60}))
	assert.Equal(t, 25, c.State().PageSize)

	// A new configured size is adopted.
	require.NoError(t, c.SetProps(pagination.Props{
		TotalRows:  60,
		Pagination: &pagination.Override{PageSize: ptr(50)},
	}))
	assert.Equal(t, 50, c.State().PageSize)
	assert.Equal(t, 0, c.State().PageIndex)

	// Dataset empties out.
	require.NoError(t, c.SetProps(pagination.Props{TotalRows: 0}))
	assert.Equal(t, 0, c.PageCount())
}

func TestController_Loading(t *testing.T) {
	t.Parallel()

	c := newController(t, pagination.Props{TotalRows: 100, Loading: true})
	assert.True(t, c.Loading())

	c.GoToPage(3)
	require.NoError(t, c.SetProps(pagination.Props{TotalRows: 100}))

	// State survives the loading transition.
	assert.False(t, c.Loading())
	assert.Equal(t, 2, c.State().PageIndex)
}

func TestNew_InvalidProps(t *testing.T) {
	t.Parallel()

	state := pagination.State{PageSize: 10}

	tcs := map[string]pagination.Props{
		"negative rows":      {TotalRows: -1},
		"negative row count": {RowCount: ptr(-3)},
		"negative pages":     {PageCount: ptr(-1)},
		"negative fallback":  {FallbackPageSize: -10},
		"zero initial size":  {InitialState: &pagination.State{}},
		"negative index":     {InitialState: &pagination.State{PageIndex: -1, PageSize: 10}},
		"bad override":       {Pagination: &pagination.Override{PageSize: ptr(-5)}},
		"missing callback":   {State: &state},
		"initial and controlled": {
			State:         &state,
			InitialState:  &state,
			OnStateChange: func(pagination.State) {},
		},
	}

	for name, p := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := pagination.New(p)
			require.ErrorIs(t, err, pagination.ErrInvalidConfig)
			assert.Nil(t, c)

			var ce *pagination.ContractError
			require.ErrorAs(t, err, &ce)
		})
	}
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "controlled", pagination.Controlled.String())
	assert.Equal(t, "uncontrolled", pagination.Uncontrolled.String())
	assert.Equal(t, "Mode(7)", pagination.Mode(7).String())
}

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		state     pagination.State
		want      pagination.Snapshot
		totalRows int
		pageCount int
	}{
		"first page": {
			state:     pagination.State{PageIndex: 0, PageSize: 10},
			totalRows: 75,
			pageCount: 8,
			want: pagination.Snapshot{
				CurrentPage: 1, PageCount: 8, StartRow: 1, EndRow: 10, TotalRows: 75,
				CanGoNext: true,
			},
		},
		"partial last page": {
			state:     pagination.State{PageIndex: 7, PageSize: 10},
			totalRows: 75,
			pageCount: 8,
			want: pagination.Snapshot{
				CurrentPage: 8, PageCount: 8, StartRow: 71, EndRow: 75, TotalRows: 75,
				CanGoPrevious: true,
			},
		},
		"no rows": {
			state:     pagination.State{PageIndex: 0, PageSize: 10},
			totalRows: 0,
			pageCount: 0,
			want:      pagination.Snapshot{CurrentPage: 1},
		},
		"stale index clamped for display": {
			state:     pagination.State{PageIndex: 12, PageSize: 10},
			totalRows: 30,
			pageCount: 3,
			want: pagination.Snapshot{
				CurrentPage: 3, PageCount: 3, StartRow: 21, EndRow: 30, TotalRows: 30,
				CanGoPrevious: true,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := pagination.NewSnapshot(tc.state, tc.totalRows, tc.pageCount)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, pagination.PageCount(0, 10))
	assert.Equal(t, 1, pagination.PageCount(1, 10))
	assert.Equal(t, 1, pagination.PageCount(10, 10))
	assert.Equal(t, 2, pagination.PageCount(11, 10))
	assert.Equal(t, 8, pagination.PageCount(75, 10))
	assert.Equal(t, 0, pagination.PageCount(10, 0))
}
