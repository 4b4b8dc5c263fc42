package pagination

// State is the currently displayed page and the number of rows per page.
type State struct {
	PageIndex int `json:"pageIndex" jsonschema:"title=Page Index,minimum=0"`
	PageSize  int `json:"pageSize"  jsonschema:"title=Page Size,minimum=1"`
}

// Snapshot is the read-only view model handed to navigation UI.
type Snapshot struct {
	CurrentPage   int // 1-based.
	PageCount     int
	StartRow      int // 1-based, 0 when there are no rows.
	EndRow        int
	TotalRows     int
	CanGoPrevious bool
	CanGoNext     bool
}

// PageCount returns the number of pages needed to show totalRows rows.
func PageCount(totalRows, pageSize int) int {
	if totalRows <= 0 || pageSize <= 0 {
		return 0
	}

	return (totalRows + pageSize - 1) / pageSize
}

// NewSnapshot derives a [Snapshot] from s. The page index is clamped into
// the valid range for display, s itself is not modified.
func NewSnapshot(s State, totalRows, pageCount int) Snapshot {
	idx := clamp(s.PageIndex, 0, pageCount-1)

	snap := Snapshot{
		CurrentPage:   idx + 1,
		PageCount:     pageCount,
		TotalRows:     totalRows,
		CanGoPrevious: idx > 0,
		CanGoNext:     idx < pageCount-1,
	}
	if totalRows > 0 {
		snap.StartRow = idx*s.PageSize + 1
		snap.EndRow = min((idx+1)*s.PageSize, totalRows)
	}

	return snap
}

// clamp limits n to [lo, hi]. When hi < lo, lo wins.
func clamp(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}

	return n
}
