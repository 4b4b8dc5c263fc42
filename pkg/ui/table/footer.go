package table

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/ui/navigator"
	"github.com/macropower/tabula/pkg/ui/theme"
)

const footerGap = "   "

// footer renders the pagination controls below the table.
type footer struct {
	theme    *theme.Theme
	loading  string
	jump     string
	jumpHint string
	policy   pagination.Policy
	snap     pagination.Snapshot
	pageSize int
	width    int
}

func (f footer) Render() string {
	var parts []string

	if f.loading != "" {
		parts = append(parts, f.loading+f.theme.InfoStyle.Render(" loading"+f.theme.Ellipsis))
	}

	if !f.policy.Active {
		parts = append(parts, f.theme.InfoStyle.Render(rowCount(f.snap.TotalRows)))
	} else {
		if f.policy.ShowSizeSelector {
			parts = append(parts, f.sizeSelector())
		}
		if f.policy.ShowPageInfo {
			parts = append(parts, f.theme.InfoStyle.Render(pageInfo(f.snap)))
		}
		if f.policy.ShowNavigation {
			parts = append(parts, f.navigation())
		}
		if f.policy.EnableJumpToPage {
			parts = append(parts, f.jumpView())
		}
	}

	line := strings.Join(parts, footerGap)
	if f.width > 0 {
		line = truncate.StringWithTail(line, uint(f.width), f.theme.Ellipsis) //nolint:gosec // Checked above.
	}

	return line
}

func (f footer) sizeSelector() string {
	opts := make([]string, 0, len(f.policy.PageSizeOptions))
	for _, size := range f.policy.PageSizeOptions {
		label := strconv.Itoa(size)
		if size == f.pageSize {
			opts = append(opts, f.theme.ActiveSizeStyle.Render("["+label+"]"))

			continue
		}

		opts = append(opts, f.theme.SizeStyle.Render(label))
	}

	return f.theme.SizeStyle.Render("rows ") + strings.Join(opts, " ")
}

func (f footer) navigation() string {
	var b strings.Builder

	arrow := func(label string, enabled bool) {
		if enabled {
			b.WriteString(f.theme.PageStyle.Render(label))
		} else {
			b.WriteString(f.theme.DisabledStyle.Padding(0, 1).Render(label))
		}
	}

	fast := f.policy.EnableFastNavigation
	if fast {
		arrow("«", f.snap.CurrentPage > navigator.FastSkip)
	}

	arrow("‹", f.snap.CanGoPrevious)

	for _, tok := range pagination.Window(f.snap.CurrentPage, f.snap.PageCount) {
		switch {
		case tok.Ellipsis:
			b.WriteString(f.theme.DisabledStyle.Padding(0, 1).Render(f.theme.Ellipsis))
		case tok.Page == f.snap.CurrentPage:
			b.WriteString(f.theme.CurrentPageStyle.Render(tok.String()))
		default:
			b.WriteString(f.theme.PageStyle.Render(tok.String()))
		}
	}

	arrow("›", f.snap.CanGoNext)

	if fast {
		arrow("»", f.snap.CurrentPage <= f.snap.PageCount-navigator.FastSkip)
	}

	return b.String()
}

func (f footer) jumpView() string {
	if f.jump != "" {
		return f.jump
	}

	return f.theme.SubtleStyle.Render(f.jumpHint + " go to page")
}

// pageInfo formats the visible row range, e.g. "11-20 of 1,234".
func pageInfo(s pagination.Snapshot) string {
	if s.TotalRows == 0 {
		return "no rows"
	}

	return humanize.Comma(int64(s.StartRow)) + "-" +
		humanize.Comma(int64(s.EndRow)) + " of " +
		humanize.Comma(int64(s.TotalRows))
}

func rowCount(n int) string {
	switch n {
	case 0:
		return "no rows"
	case 1:
		return "1 row"
	}

	return humanize.Comma(int64(n)) + " rows"
}
