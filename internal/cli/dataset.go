package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	// SQL drivers selectable with --driver.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/macropower/tabula/pkg/rows"
)

// dataset is an opened [rows.Source] and the resources backing it.
type dataset struct {
	source  rows.Source
	reloads <-chan rows.ReloadEvent
	title   string
	closers []io.Closer
}

func openDataset(ctx context.Context, stdin io.Reader, ra *RunArgs) (*dataset, error) {
	if ra.Driver != "" {
		return openSQL(ctx, ra)
	}

	return openFile(ctx, stdin, ra)
}

func openSQL(ctx context.Context, ra *RunArgs) (*dataset, error) {
	dialect, err := rows.DialectFor(ra.Driver)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	db, err := sql.Open(ra.Driver, ra.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ds := &dataset{
		title:   ra.Table,
		closers: []io.Closer{db},
	}

	var opts []rows.SQLOpt
	if ra.OrderBy != "" {
		opts = append(opts, rows.WithOrderBy(ra.OrderBy))
	}

	src, err := rows.NewSQL(ctx, db, dialect, ra.Table, opts...)
	if err != nil {
		closeDataset(ds)

		return nil, fmt.Errorf("open table: %w", err)
	}

	ds.source = src

	return ds, nil
}

func openFile(ctx context.Context, stdin io.Reader, ra *RunArgs) (*dataset, error) {
	var (
		doc *rows.Document
		err error
	)

	title := filepath.Base(ra.Path)
	if ra.Path == "-" {
		title = "stdin"
		doc, err = rows.Decode(stdin)
	} else {
		doc, err = rows.LoadFile(ra.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	var opts []rows.SliceOpt
	if ra.Where != "" {
		where, err := rows.NewWhere(ra.Where)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}

		opts = append(opts, rows.WithWhere(where))
	}

	slice, err := rows.NewSlice(doc.Columns, doc.Rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	ds := &dataset{
		source: slice,
		title:  title,
	}

	if !ra.Watch {
		return ds, nil
	}

	w, err := rows.NewWatcher(ra.Path, slice)
	if err != nil {
		return nil, fmt.Errorf("watch dataset: %w", err)
	}

	reloads := make(chan rows.ReloadEvent, 1)
	w.Subscribe(reloads)

	go w.Run(ctx)

	ds.reloads = reloads
	ds.closers = append(ds.closers, w)

	return ds, nil
}

func closeDataset(ds *dataset) {
	for _, c := range ds.closers {
		err := c.Close()
		if err != nil {
			slog.Error("close dataset", slog.Any("err", err))
		}
	}
}
