package main

import (
	"fmt"
	"strings"

	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)

	labelStyles = map[kpi.Classification]lipgloss.Style{
		kpi.ClassBelowNormal: cellStyle.Foreground(lipgloss.Color("9")).Bold(true),
		kpi.ClassNormal:      cellStyle,
		kpi.ClassAboveNormal: cellStyle.Foreground(lipgloss.Color("10")).Bold(true),
		kpi.ClassUndefined:   cellStyle.Foreground(lipgloss.Color("8")).Italic(true),
	}
)

// numeric output columns: final score, mean, std, z
const firstNumberCol, lastNumberCol = 3, 6

func renderTable(rows []kpi.Deviation) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			r.EmployeeID,
			r.Position,
			r.Company,
			fmt.Sprintf("%.2f", r.FinalScore),
			formatValue(r.GroupMean),
			formatValue(r.GroupStdDev),
			formatValue(r.ZScore),
			string(r.Classification),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(kpi.OutputColumns...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == len(kpi.OutputColumns)-1:
				return labelStyles[rows[row].Classification]
			case col >= firstNumberCol && col <= lastNumberCol:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func renderCounts(result *pipeline.Result) string {
	parts := make([]string, 0, len(kpi.Classifications))
	for _, c := range kpi.Classifications {
		parts = append(parts, fmt.Sprintf("%s: %d", c, result.Counts[c]))
	}
	return fmt.Sprintf("%d employees grouped by %s (|z| > %g). %s",
		len(result.Rows), result.Level, result.Threshold, strings.Join(parts, ", "))
}

func formatValue(v kpi.Value) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return "-"
}
