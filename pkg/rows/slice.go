package rows

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"
)

// Predicate decides whether the row at index is part of the dataset.
type Predicate func(index int, r Row) (bool, error)

// Slice is an in-memory [Source]. It is safe for concurrent use; rows can be
// swapped with [Slice.Replace] while a table reads from it.
type Slice struct {
	where   Predicate
	cols    []Column
	visible []Row
	total   int
	mu      sync.RWMutex
}

// SliceOpt configures a [Slice].
type SliceOpt func(*Slice)

// WithWhere drops rows for which p returns false.
func WithWhere(p Predicate) SliceOpt {
	return func(s *Slice) {
		s.where = p
	}
}

// NewSlice creates a [Slice]. When cols is empty the columns are inferred
// from the row keys.
func NewSlice(cols []Column, rs []Row, opts ...SliceOpt) (*Slice, error) {
	s := &Slice{}
	for _, opt := range opts {
		opt(s)
	}

	if len(cols) == 0 {
		cols = inferColumns(rs)
	}

	s.cols = cols

	err := s.Replace(rs)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Replace swaps the rows of s. The columns are kept.
func (s *Slice) Replace(rs []Row) error {
	visible := rs
	if s.where != nil {
		visible = make([]Row, 0, len(rs))
		for i, r := range rs {
			ok, err := s.where(i, r)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			if ok {
				visible = append(visible, r)
			}
		}
	}

	slog.Debug("rows replaced",
		slog.Int("rows", len(rs)),
		slog.Int("visible", len(visible)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = visible
	s.total = len(rs)

	return nil
}

// Columns implements [Source].
func (s *Slice) Columns() []Column {
	return s.cols
}

// Manual implements [Source]. A [Slice] is paginated by its reader.
func (s *Slice) Manual() bool {
	return false
}

// Len returns the number of rows left after the where predicate.
func (s *Slice) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.visible)
}

// Unfiltered returns the number of rows before the where predicate.
func (s *Slice) Unfiltered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total
}

// Fetch implements [Source].
func (s *Slice) Fetch(ctx context.Context, req Request) (Page, error) {
	err := ctx.Err()
	if err != nil {
		return Page{}, fmt.Errorf("fetch rows: %w", err)
	}

	err = req.Validate()
	if err != nil {
		return Page{}, err
	}

	s.mu.RLock()
	matched := s.match(req.Query)
	s.mu.RUnlock()

	page := Page{
		TotalRows: len(matched),
		PageCount: pageCount(len(matched), req.PageSize),
	}

	if req.PageSize == 0 {
		page.Rows = matched

		return page, nil
	}

	start := min(req.Offset(), len(matched))
	end := min(start+req.PageSize, len(matched))
	page.Rows = matched[start:end]

	return page, nil
}

// match returns the visible rows matching query, best matches first.
func (s *Slice) match(query string) []Row {
	if query == "" {
		return s.visible
	}

	targets := make([]string, 0, len(s.visible))
	for _, r := range s.visible {
		targets = append(targets, r.Text(s.cols))
	}

	ranks := fuzzy.Find(query, targets)
	sort.Stable(ranks)

	out := make([]Row, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, s.visible[r.Index])
	}

	return out
}
