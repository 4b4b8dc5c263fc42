// Package pagination reconciles pagination configuration against a live
// dataset and turns navigation intents into new page state.
//
// A [Controller] either owns its [State] (uncontrolled) or reads it from the
// caller and reports changes through a callback (controlled). The choice is
// made once, when the controller is created, and is recorded as an [Owner].
package pagination

import (
	"errors"
	"fmt"
	"log/slog"
)

// Mode identifies who owns the pagination [State].
type Mode int

const (
	Uncontrolled Mode = iota // The controller owns the state.
	Controlled               // The caller owns the state.
)

func (m Mode) String() string {
	switch m {
	case Uncontrolled:
		return "uncontrolled"
	case Controlled:
		return "controlled"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// Owner holds the single source of truth for a controller's [State]. It is
// implemented only by [*External] and [*Internal].
type Owner interface {
	mode() Mode
	current() State
}

// External is the [Owner] used in controlled mode. State is the value most
// recently pushed by the caller; the controller never writes it. Intents are
// forwarded to OnChange.
type External struct {
	OnChange func(State)
	State    State
}

func (o *External) mode() Mode     { return Controlled }
func (o *External) current() State { return o.State }

// Internal is the [Owner] used in uncontrolled mode.
type Internal struct {
	State State
}

func (o *Internal) mode() Mode     { return Uncontrolled }
func (o *Internal) current() State { return o.State }

// Props are the inputs of a [Controller] for one update cycle.
type Props struct {
	// Pagination is the optional caller configuration. Nil selects the
	// automatic policy based on the row count.
	Pagination *Override

	// RowCount overrides TotalRows for display math (server-driven data).
	RowCount *int
	// PageCount is trusted instead of a computed page count when Manual is set.
	PageCount *int

	// InitialState seeds the state in uncontrolled mode.
	InitialState *State
	// State selects controlled mode. It must be paired with OnStateChange.
	State *State
	// OnStateChange receives every state change requested in controlled mode.
	OnStateChange func(State)

	// TotalRows is the number of rows known locally.
	TotalRows int
	// FallbackPageSize is the page size used when none is configured.
	// Zero selects [DefaultPageSize].
	FallbackPageSize int

	Manual  bool
	Loading bool
}

func (p Props) mode() Mode {
	if p.State != nil {
		return Controlled
	}

	return Uncontrolled
}

func (p Props) fallbackPageSize() int {
	if p.FallbackPageSize == 0 {
		return DefaultPageSize
	}

	return p.FallbackPageSize
}

// rowTotal is the row count used for display math.
func (p Props) rowTotal() int {
	if p.RowCount != nil {
		return *p.RowCount
	}

	return p.TotalRows
}

// policyRows is the row count the automatic policy thresholds apply to.
// Manual datasets with only a page count are estimated from it.
func (p Props) policyRows() int {
	if p.RowCount != nil {
		return *p.RowCount
	}
	if p.Manual && p.PageCount != nil {
		return *p.PageCount * p.fallbackPageSize()
	}

	return p.TotalRows
}

func (p Props) validate() error {
	var errs []error

	if p.TotalRows < 0 {
		errs = append(errs, fmt.Errorf("total rows must not be negative, got %d", p.TotalRows))
	}
	if p.RowCount != nil && *p.RowCount < 0 {
		errs = append(errs, fmt.Errorf("row count must not be negative, got %d", *p.RowCount))
	}
	if p.PageCount != nil && *p.PageCount < 0 {
		errs = append(errs, fmt.Errorf("page count must not be negative, got %d", *p.PageCount))
	}
	if p.FallbackPageSize < 0 {
		errs = append(errs, fmt.Errorf("fallback page size must not be negative, got %d", p.FallbackPageSize))
	}
	if err := p.Pagination.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validateState("initial state", p.InitialState); err != nil {
		errs = append(errs, err)
	}
	if err := validateState("state", p.State); err != nil {
		errs = append(errs, err)
	}
	if p.State != nil && p.OnStateChange == nil {
		errs = append(errs, errors.New("controlled state requires a change callback"))
	}
	if p.State != nil && p.InitialState != nil {
		errs = append(errs, errors.New("initial state cannot be combined with controlled state"))
	}

	if len(errs) > 0 {
		return violation(ErrInvalidConfig, "%v", errors.Join(errs...))
	}

	return nil
}

func validateState(name string, s *State) error {
	if s == nil {
		return nil
	}
	if s.PageIndex < 0 {
		return fmt.Errorf("%s: page index must not be negative, got %d", name, s.PageIndex)
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("%s: page size must be positive, got %d", name, s.PageSize)
	}

	return nil
}

// Controller routes pagination intents to the owner of the [State].
type Controller struct {
	owner  Owner
	props  Props
	policy Policy
}

// New creates a [Controller]. The ownership mode is fixed by whether
// p.State is set.
func New(p Props) (*Controller, error) {
	err := p.validate()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		props:  p,
		policy: ResolvePolicy(p.policyRows(), p.Pagination, p.fallbackPageSize()),
	}

	if p.State != nil {
		c.owner = &External{State: *p.State, OnChange: p.OnStateChange}

		return c, nil
	}

	var s State
	if p.InitialState != nil {
		s = *p.InitialState
	} else {
		s = State{PageSize: c.configuredPageSize()}
	}

	owned := &Internal{State: s}
	c.owner = owned
	owned.State.PageIndex = clamp(s.PageIndex, 0, c.PageCount()-1)

	return c, nil
}

// SetProps replaces the controller inputs for a new update cycle. Switching
// between controlled and uncontrolled props returns [ErrModeChanged].
func (c *Controller) SetProps(p Props) error {
	err := p.validate()
	if err != nil {
		return err
	}

	if p.mode() != c.Mode() {
		err := violation(ErrModeChanged, "controller is %s, props are %s", c.Mode(), p.mode())
		slog.Error("pagination contract violation",
			slog.String("mode", c.Mode().String()),
			slog.Any("err", err),
		)

		return err
	}

	prevSize := c.configuredPageSize()
	c.props = p
	c.policy = ResolvePolicy(p.policyRows(), p.Pagination, p.fallbackPageSize())

	switch o := c.owner.(type) {
	case *External:
		o.State = *p.State
		o.OnChange = p.OnStateChange

	case *Internal:
		if size := c.configuredPageSize(); size != prevSize {
			slog.Debug("configured page size changed",
				slog.Int("from", prevSize),
				slog.Int("to", size),
			)

			firstRow := o.State.PageIndex * o.State.PageSize
			o.State = State{PageIndex: firstRow / size, PageSize: size}
		}

		o.State.PageIndex = clamp(o.State.PageIndex, 0, c.PageCount()-1)
	}

	return nil
}

// configuredPageSize is the page size the configuration asks for.
func (c *Controller) configuredPageSize() int {
	if c.policy.PageSize > 0 {
		return c.policy.PageSize
	}

	return c.props.fallbackPageSize()
}

// Mode reports who owns the state.
func (c *Controller) Mode() Mode {
	return c.owner.mode()
}

// Owner returns the current [Owner].
//
//nolint:ireturn // Sealed union.
func (c *Controller) Owner() Owner {
	return c.owner
}

// Policy returns the resolved policy for the current props. While pagination
// is active, the page size in use is always one of its PageSizeOptions.
func (c *Controller) Policy() Policy {
	p := c.policy
	if p.Active {
		p.PageSizeOptions = ResolveOptions(p.PageSizeOptions, c.owner.current().PageSize)
	}

	return p
}

// Props returns the current props.
func (c *Controller) Props() Props {
	return c.props
}

// Loading reports whether the dataset is being (re)loaded.
func (c *Controller) Loading() bool {
	return c.props.Loading
}

// State returns the effective state. When pagination is inactive the whole
// dataset is a single page.
func (c *Controller) State() State {
	if !c.policy.Active {
		return State{PageSize: max(c.props.rowTotal(), 1)}
	}

	return c.owner.current()
}

// PageCount returns the number of pages for the effective state.
func (c *Controller) PageCount() int {
	if !c.policy.Active {
		return min(c.props.rowTotal(), 1)
	}
	if c.props.Manual && c.props.PageCount != nil {
		return *c.props.PageCount
	}

	return PageCount(c.props.rowTotal(), c.owner.current().PageSize)
}

// Snapshot returns the navigation view model for the effective state.
func (c *Controller) Snapshot() Snapshot {
	return NewSnapshot(c.State(), c.props.rowTotal(), c.PageCount())
}

// GoToPage moves to the 1-based page n, clamped to the valid range.
func (c *Controller) GoToPage(n int) State {
	return c.apply("go to page", true, func(s State, pageCount int) State {
		s.PageIndex = clamp(n-1, 0, pageCount-1)
		return s
	})
}

// NextPage moves forward one page unless already on the last page.
func (c *Controller) NextPage() State {
	return c.SkipBy(1)
}

// PreviousPage moves back one page unless already on the first page.
func (c *Controller) PreviousPage() State {
	return c.SkipBy(-1)
}

// GoFirst moves to the first page.
func (c *Controller) GoFirst() State {
	return c.apply("go first", true, func(s State, _ int) State {
		s.PageIndex = 0
		return s
	})
}

// GoLast moves to the last page.
func (c *Controller) GoLast() State {
	return c.apply("go last", true, func(s State, pageCount int) State {
		s.PageIndex = pageCount - 1
		return s
	})
}

// SkipBy moves delta pages, clamped to the valid range.
func (c *Controller) SkipBy(delta int) State {
	return c.apply("skip", true, func(s State, pageCount int) State {
		s.PageIndex = clamp(s.PageIndex+delta, 0, pageCount-1)
		return s
	})
}

// SetPageSize changes the page size, keeping the first row of the current
// page visible when possible and otherwise moving to the new last page.
// A non-positive size panics with a [*ContractError].
func (c *Controller) SetPageSize(size int) State {
	mustPositive("page size", size)

	return c.apply("set page size", false, func(s State, _ int) State {
		firstRow := s.PageIndex * s.PageSize
		pageCount := c.pageCountFor(s.PageSize, size)

		return State{
			PageIndex: clamp(firstRow/size, 0, pageCount-1),
			PageSize:  size,
		}
	})
}

// pageCountFor predicts the page count after switching from oldSize to
// newSize.
func (c *Controller) pageCountFor(oldSize, newSize int) int {
	p := c.props
	if p.Manual && p.PageCount != nil && p.RowCount == nil {
		return PageCount(*p.PageCount*oldSize, newSize)
	}

	return PageCount(p.rowTotal(), newSize)
}

// apply computes the next state with fn and hands it to the owner. Intents
// are no-ops while pagination is inactive, when the result equals the
// current state, or (if needsPages is set) when there are no pages.
func (c *Controller) apply(intent string, needsPages bool, fn func(State, int) State) State {
	cur := c.State()
	if !c.policy.Active {
		return cur
	}

	pageCount := c.PageCount()
	if needsPages && pageCount == 0 {
		return cur
	}

	// A caller-owned index may be stale; navigate from the displayed page.
	base := cur
	base.PageIndex = clamp(cur.PageIndex, 0, pageCount-1)

	next := fn(base, pageCount)
	if next == cur {
		return cur
	}

	slog.Debug("pagination intent",
		slog.String("intent", intent),
		slog.String("mode", c.Mode().String()),
		slog.Int("from_page", cur.PageIndex),
		slog.Int("to_page", next.PageIndex),
		slog.Int("page_size", next.PageSize),
	)

	switch o := c.owner.(type) {
	case *External:
		o.OnChange(next)

	case *Internal:
		o.State = next
	}

	return next
}
