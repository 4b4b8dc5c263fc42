package rows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/tabula/pkg/log"
)

var ErrUnknownDriver = errors.New("unknown SQL driver")

// Dialect holds the driver specific parts of the generated SQL.
type Dialect struct {
	// Placeholder returns the bind parameter for the 1-based argument n.
	Placeholder func(n int) string
	Name        string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
	SQLite = Dialect{
		Name:        "sqlite3",
		Placeholder: func(int) string { return "?" },
	}
)

// DialectFor returns the [Dialect] for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	}

	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// quoteIdent quotes a table or column name. Both supported dialects use
// standard double quoted identifiers.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}

	return strings.Join(parts, ".")
}

// SQL is a server paginated [Source] reading one table with LIMIT and
// OFFSET. The total row count is queried alongside each page.
type SQL struct {
	tracer  trace.Tracer
	db      *sql.DB
	dialect Dialect
	table   string
	orderBy string
	cols    []Column
}

// SQLOpt configures a [SQL] source.
type SQLOpt func(*SQL)

// WithOrderBy sorts pages by the given column. By default the first column
// is used, so that pages are stable.
func WithOrderBy(column string) SQLOpt {
	return func(s *SQL) {
		s.orderBy = column
	}
}

// WithColumns skips column discovery and reads only cols.
func WithColumns(cols ...Column) SQLOpt {
	return func(s *SQL) {
		s.cols = cols
	}
}

// NewSQL creates a [SQL] source for table. Unless [WithColumns] is given,
// the columns are discovered with an empty query.
func NewSQL(ctx context.Context, db *sql.DB, dialect Dialect, table string, opts ...SQLOpt) (*SQL, error) {
	s := &SQL{
		tracer:  otel.Tracer("sql-source"),
		db:      db,
		dialect: dialect,
		table:   table,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.cols) == 0 {
		cols, err := s.discoverColumns(ctx)
		if err != nil {
			return nil, err
		}

		s.cols = cols
	}

	if len(s.cols) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, ErrNoColumns)
	}

	if s.orderBy == "" {
		s.orderBy = s.cols[0].Key
	}

	return s, nil
}

func (s *SQL) discoverColumns(ctx context.Context) ([]Column, error) {
	//nolint:gosec // G202: Identifiers are quoted.
	q := "SELECT * FROM " + quoteIdent(s.table) + " LIMIT 0"

	rs, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("discover columns of %s: %w", s.table, err)
	}
	defer closeRows(rs)

	names, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("discover columns of %s: %w", s.table, err)
	}

	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, Column{Key: n})
	}

	return cols, nil
}

// Columns implements [Source].
func (s *SQL) Columns() []Column {
	return s.cols
}

// Manual implements [Source]. The database paginates.
func (s *SQL) Manual() bool {
	return true
}

// Fetch implements [Source].
func (s *SQL) Fetch(ctx context.Context, req Request) (Page, error) {
	ctx, span := s.tracer.Start(ctx, "fetch", trace.WithAttributes(
		attribute.String("table", s.table),
		attribute.Int("page_index", req.PageIndex),
		attribute.Int("page_size", req.PageSize),
	))
	defer span.End()

	page, err := s.fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return Page{}, err
	}

	span.SetAttributes(attribute.Int("total_rows", page.TotalRows))

	return page, nil
}

func (s *SQL) fetch(ctx context.Context, req Request) (Page, error) {
	err := req.Validate()
	if err != nil {
		return Page{}, err
	}

	where, args := s.where(req.Query)

	var total int

	//nolint:gosec // G202: Identifiers are quoted, values are bound.
	countQuery := "SELECT COUNT(*) FROM " + quoteIdent(s.table) + where

	err = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return Page{}, fmt.Errorf("count rows of %s: %w", s.table, err)
	}

	q, args := s.pageQuery(where, args, req)

	log.WithContext(ctx).Debug("fetch page",
		slog.String("table", s.table),
		slog.Int("page_index", req.PageIndex),
		slog.Int("page_size", req.PageSize),
		slog.Int("total", total),
	)

	rs, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return Page{}, fmt.Errorf("query rows of %s: %w", s.table, err)
	}
	defer closeRows(rs)

	out, err := s.scan(rs)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Rows:      out,
		TotalRows: total,
		PageCount: pageCount(total, req.PageSize),
	}, nil
}

// where builds a filter matching query as a substring of any column.
func (s *SQL) where(query string) (string, []any) {
	if query == "" {
		return "", nil
	}

	conds := make([]string, 0, len(s.cols))
	for _, c := range s.cols {
		conds = append(conds, "CAST("+quoteIdent(c.Key)+" AS TEXT) LIKE "+s.dialect.Placeholder(1))
	}

	arg := "%" + query + "%"
	if s.dialect.Placeholder(1) == "?" {
		args := make([]any, len(conds))
		for i := range args {
			args[i] = arg
		}

		return " WHERE " + strings.Join(conds, " OR "), args
	}

	return " WHERE " + strings.Join(conds, " OR "), []any{arg}
}

func (s *SQL) pageQuery(where string, args []any, req Request) (string, []any) {
	names := make([]string, 0, len(s.cols))
	for _, c := range s.cols {
		names = append(names, quoteIdent(c.Key))
	}

	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(s.table))
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(quoteIdent(s.orderBy))

	if req.PageSize > 0 {
		n := len(args)
		b.WriteString(" LIMIT " + s.dialect.Placeholder(n+1))
		b.WriteString(" OFFSET " + s.dialect.Placeholder(n+2))

		args = append(args, req.PageSize, req.Offset())
	}

	return b.String(), args
}

func (s *SQL) scan(rs *sql.Rows) ([]Row, error) {
	var out []Row

	for rs.Next() {
		vals := make([]any, len(s.cols))
		ptrs := make([]any, len(s.cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		err := rs.Scan(ptrs...)
		if err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", s.table, err)
		}

		r := make(Row, len(s.cols))
		for i, c := range s.cols {
			if b, ok := vals[i].([]byte); ok {
				r[c.Key] = string(b)
			} else {
				r[c.Key] = vals[i]
			}
		}

		out = append(out, r)
	}

	err := rs.Err()
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", s.table, err)
	}

	return out, nil
}

func closeRows(rs *sql.Rows) {
	err := rs.Close()
	if err != nil {
		slog.Error("close rows", slog.Any("err", err))
	}
}
