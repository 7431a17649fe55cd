package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/leaderboard/internal/leaderboard"
)

// renderTable draws a rendered leaderboard with the theme's table styles.
// Even body rows use the alternate surface, like the default stylesheet's
// striped rows.
func renderTable(t leaderboard.Table, styles Styles) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeader
			case row%2 == 1:
				return styles.CellAlt
			default:
				return styles.Cell
			}
		}).
		Headers(t.Header...)

	for _, cells := range t.Body {
		tbl.Row(cells...)
	}
	return tbl.String()
}

// renderButton draws the continue control.
func renderButton(styles Styles) string {
	return styles.Button.Render(leaderboard.ContinueLabel)
}

// RenderTable draws t with the named theme, for printing outside the program.
func RenderTable(t leaderboard.Table, themeName string) string {
	return renderTable(t, GetTheme(themeName).Styles())
}
