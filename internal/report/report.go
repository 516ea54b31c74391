// Package report renders run statistics for terminals: a styled summary
// table per run and a Markdown rendering of a whole results document.
package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sysloadbench/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	componentStyle = cellStyle.Foreground(lipgloss.Color("86"))
)

// tableHeaders matches the column order of summaryRow.
var tableHeaders = []string{
	"System Component", "Max.", "Mean", "Std. Dev.",
	"25th perc.", "50th perc.", "75th perc.", "90th perc.", "95th perc.", "99th perc.",
}

// RunTable renders the cross-round summary of one run as a bordered table.
func RunTable(name string, rs stats.RunStats) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(tableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return componentStyle
			}
			return cellStyle
		}).
		Row(summaryRow("CPU (%)", rs.CPU.Total, 2)...).
		Row(summaryRow("RAM (Bytes)", rs.RAM.Total, 2)...).
		Row(summaryRow("Time (Seconds)", rs.Duration.Total, 4)...)

	return titleStyle.Render("Results for run: "+name) + "\n" + t.Render()
}

// summaryRow flattens a StatSummary into the table's column order.
func summaryRow(component string, s stats.StatSummary, decimals int) []string {
	row := []string{
		component,
		formatValue(s.Max, decimals),
		formatValue(s.Mean, decimals),
		formatValue(s.StdDev, decimals),
	}
	for _, p := range stats.Percentiles {
		row = append(row, formatValue(s.Percentiles[p], decimals))
	}
	return row
}

func formatValue(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}
