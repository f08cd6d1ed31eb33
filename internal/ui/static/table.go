// Package static renders non-interactive terminal output such as the
// command listing of "hub help".
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/hub/internal/ui/styles"
)

// RenderSection renders a bold title followed by an indented two-column
// list of names and descriptions.
func RenderSection(title string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := borderless(table.New().Rows(rows...)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().PaddingLeft(3).PaddingRight(3)
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(styles.Bold.Render(title))
	b.WriteString("\n")
	for _, line := range strings.Split(t.String(), "\n") {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func borderless(t *table.Table) *table.Table {
	return t.
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false)
}
