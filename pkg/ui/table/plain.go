package table

import (
	"github.com/charmbracelet/lipgloss"

	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/macropower/tabula/pkg/rows"
)

// Plain renders rs as a bordered table without colors, for output that is
// not a terminal.
func Plain(cols []rows.Column, rs []rows.Row) string {
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Header())
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for _, r := range rs {
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			cells = append(cells, r.Cell(c.Key))
		}

		t.Row(cells...)
	}

	return t.String()
}
