package pagination

import (
	"errors"
	"fmt"
)

// Row count thresholds used when pagination is not explicitly configured.
const (
	AutoPaginateThreshold   = 15  // Paginate only above this many rows.
	FastNavigationThreshold = 100 // Enable +/-5 page skipping above this many rows.
	JumpToPageThreshold     = 200 // Enable the jump-to-page input above this many rows.

	DefaultPageSize = 10
)

// Override is a partial, caller-supplied pagination configuration. Unset
// fields fall back to the values [ResolvePolicy] would pick automatically.
type Override struct {
	// PageSize is the requested number of rows per page.
	PageSize *int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1"`
	// ShowSizeSelector toggles the rows-per-page selector.
	ShowSizeSelector *bool `json:"showSizeSelector,omitempty" jsonschema:"title=Show Size Selector"`
	// ShowPageInfo toggles the "1-10 of 75" row range display.
	ShowPageInfo *bool `json:"showPageInfo,omitempty" jsonschema:"title=Show Page Info"`
	// ShowNavigation toggles the page navigation strip.
	ShowNavigation *bool `json:"showNavigation,omitempty" jsonschema:"title=Show Navigation"`
	// EnableFastNavigation enables skipping five pages at a time.
	EnableFastNavigation *bool `json:"enableFastNavigation,omitempty" jsonschema:"title=Enable Fast Navigation"`
	// EnableJumpToPage enables the jump-to-page input.
	EnableJumpToPage *bool `json:"enableJumpToPage,omitempty" jsonschema:"title=Enable Jump To Page"`
	// PageSizeOptions is the candidate page size menu.
	PageSizeOptions []int `json:"pageSizeOptions,omitempty" jsonschema:"title=Page Size Options"`
	// Disabled turns pagination off regardless of the row count.
	Disabled bool `json:"disabled,omitempty" jsonschema:"title=Disabled"`
}

// Validate reports configuration values that [ResolvePolicy] would reject.
func (o *Override) Validate() error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.PageSize != nil && *o.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("pageSize: must be positive, got %d", *o.PageSize))
	}

	for i, size := range o.PageSizeOptions {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("pageSizeOptions[%d]: must be positive, got %d", i, size))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// Policy is the resolved pagination behaviour for a dataset.
type Policy struct {
	PageSizeOptions      []int
	PageSize             int
	Active               bool
	ShowSizeSelector     bool
	ShowPageInfo         bool
	ShowNavigation       bool
	EnableFastNavigation bool
	EnableJumpToPage     bool
}

// ResolvePolicy decides whether pagination is active for totalRows and fills
// in every setting the override leaves unset. It is deterministic.
func ResolvePolicy(totalRows int, override *Override, fallbackPageSize int) Policy {
	mustNonNegative("total rows", totalRows)
	mustPositive("fallback page size", fallbackPageSize)

	if override != nil && override.Disabled {
		return Policy{}
	}

	p := Policy{
		Active:               totalRows > AutoPaginateThreshold,
		PageSize:             fallbackPageSize,
		ShowSizeSelector:     true,
		ShowPageInfo:         true,
		ShowNavigation:       true,
		EnableFastNavigation: totalRows > FastNavigationThreshold,
		EnableJumpToPage:     totalRows > JumpToPageThreshold,
	}

	if override == nil {
		p.PageSizeOptions = ResolveOptions(nil, p.PageSize)

		return p
	}

	p.Active = true
	p.PageSize = valueOr(override.PageSize, p.PageSize)
	p.ShowSizeSelector = valueOr(override.ShowSizeSelector, p.ShowSizeSelector)
	p.ShowPageInfo = valueOr(override.ShowPageInfo, p.ShowPageInfo)
	p.ShowNavigation = valueOr(override.ShowNavigation, p.ShowNavigation)
	p.EnableFastNavigation = valueOr(override.EnableFastNavigation, p.EnableFastNavigation)
	p.EnableJumpToPage = valueOr(override.EnableJumpToPage, p.EnableJumpToPage)
	p.PageSizeOptions = ResolveOptions(override.PageSizeOptions, p.PageSize)

	return p
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}

	return *v
}
