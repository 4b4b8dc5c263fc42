// Package rows provides the datasets shown by the paginated table.
//
// A [Source] returns one page of rows at a time. Local sources ([*Slice])
// hold every row in memory and paginate on the client; remote sources
// ([*SQL]) paginate on the server and report the total row count alongside
// each page.
package rows

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoColumns      = errors.New("dataset has no columns")
)

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
	Width int    `json:"width,omitempty"`
}

// Header returns the column title, or its key when no title is set.
func (c Column) Header() string {
	if c.Title != "" {
		return c.Title
	}

	return c.Key
}

// Row maps column keys to cell values.
type Row map[string]any

// Cell returns the formatted value for key, or an empty string if unset.
func (r Row) Cell(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

// Text joins every cell of r, in column order, for searching.
func (r Row) Text(cols []Column) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, r.Cell(c.Key))
	}

	return strings.Join(parts, " ")
}

// Request selects a page of a dataset.
type Request struct {
	// Query is an optional fuzzy filter applied before paginating.
	Query     string
	PageIndex int
	// PageSize is the number of rows per page. Zero returns every row.
	PageSize int
}

// Validate reports malformed requests.
func (r Request) Validate() error {
	if r.PageIndex < 0 {
		return fmt.Errorf("%w: page index %d is negative", ErrInvalidRequest, r.PageIndex)
	}
	if r.PageSize < 0 {
		return fmt.Errorf("%w: page size %d is negative", ErrInvalidRequest, r.PageSize)
	}

	return nil
}

// Offset returns the index of the first row of the requested page.
func (r Request) Offset() int {
	return r.PageIndex * r.PageSize
}

// Page is one page of a dataset.
type Page struct {
	Rows []Row
	// TotalRows counts every row matching the request's query.
	TotalRows int
	// PageCount is the number of pages of the requested size.
	PageCount int
}

// Source is a dataset that can be read one page at a time.
type Source interface {
	Columns() []Column
	Fetch(ctx context.Context, req Request) (Page, error)
	// Manual reports whether the source paginates on its side. The table
	// then trusts the reported totals instead of counting rows itself.
	Manual() bool
}

// Local is a [Source] that holds every row in memory.
type Local interface {
	Source
	// Len returns the number of rows before any query is applied.
	Len() int
}

// pageCount returns the number of pages needed for total rows.
func pageCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}

	return (total + size - 1) / size
}

// inferColumns collects the keys of all rows, sorted.
func inferColumns(rs []Row) []Column {
	seen := map[string]bool{}
	for _, r := range rs {
		for k := range r {
			seen[k] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, Column{Key: k})
	}

	return cols
}
