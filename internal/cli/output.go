package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/macropower/tabula/pkg/config"
	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/rows"
	"github.com/macropower/tabula/pkg/ui/table"
)

// printPage writes one page of src as a plain table. Datasets that are too
// small to paginate are written whole, and a page past the end is replaced
// by the last page.
func printPage(ctx context.Context, w io.Writer, src rows.Source, cfg *config.Config, page int) error {
	req := rows.Request{
		PageIndex: page - 1,
		PageSize:  pageSize(cfg),
	}

	p, err := src.Fetch(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch rows: %w", err)
	}

	policy := pagination.ResolvePolicy(p.TotalRows, cfg.Pagination, *cfg.FallbackPageSize)

	refetch := false
	switch last := p.PageCount - 1; {
	case !policy.Active:
		req = rows.Request{}
		refetch = true
	case last >= 0 && req.PageIndex > last:
		req.PageIndex = last
		refetch = true
	}

	if refetch {
		p, err = src.Fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("fetch rows: %w", err)
		}
	}

	if policy.Active {
		snap := pagination.NewSnapshot(
			pagination.State{PageIndex: req.PageIndex, PageSize: req.PageSize},
			p.TotalRows, p.PageCount,
		)

		slog.Info("print page",
			slog.String("page", fmt.Sprintf("%d/%d", snap.CurrentPage, snap.PageCount)),
			slog.String("rows", fmt.Sprintf("%d-%d of %d", snap.StartRow, snap.EndRow, snap.TotalRows)),
		)
	}

	_, err = fmt.Fprintln(w, table.Plain(src.Columns(), p.Rows))
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
