package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tmengistu/stratum/pkg/takeoff"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	tableLayerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Padding(0, 1)
)

// RenderTable renders the takeoff records as a styled terminal table.
// An empty report renders as a short notice instead of an empty frame.
func RenderTable(records []takeoff.Record) string {
	if len(records) == 0 {
		return "No material layers extracted."
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 4:
				return tableLayerStyle
			default:
				return tableCellStyle
			}
		}).
		Headers("Family", "Type", "Category", "Material", "Layer")

	for _, rec := range records {
		t.Row(
			rec.FamilyName,
			rec.TypeName,
			rec.CategoryName,
			rec.MaterialName,
			strconv.Itoa(rec.LayerNumber),
		)
	}
	return t.Render()
}
