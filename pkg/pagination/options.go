package pagination

import "slices"

// DefaultPageSizeOptions is used when the caller does not configure a page
// size menu.
var DefaultPageSizeOptions = []int{10, 25, 50, 100}

// ResolveOptions returns the page size menu for the given active size: the
// union of base and active, deduplicated and sorted ascending. An empty base
// falls back to [DefaultPageSizeOptions].
//
// Non-positive sizes are a contract violation and panic with a
// [*ContractError].
func ResolveOptions(base []int, active int) []int {
	mustPositive("page size", active)

	if len(base) == 0 {
		base = DefaultPageSizeOptions
	}

	opts := make([]int, 0, len(base)+1)
	for _, o := range base {
		mustPositive("page size option", o)

		opts = append(opts, o)
	}

	opts = append(opts, active)
	slices.Sort(opts)

	return slices.Compact(opts)
}
