package export

import (
	"bytes"
	"fmt"
	"strings"

	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"
)

// Markdown renders the group report and the flagged employees
func Markdown(res *pipeline.Result) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Deviation report: %s\n\n", escapeCell(res.Source))
	fmt.Fprintf(&b, "- Run: `%s`\n", res.RunID.Short())
	fmt.Fprintf(&b, "- Grouped by: %s (%s)\n", res.Level, res.Level.Column())
	fmt.Fprintf(&b, "- Threshold: |z| > %s\n", formatFloat(res.Threshold))
	fmt.Fprintf(&b, "- Rows read: %d, employees scored: %d", res.InputRows, len(res.Rows))
	if res.DroppedKeys > 0 {
		fmt.Fprintf(&b, ", dropped for zero weight: %d", res.DroppedKeys)
	}
	b.WriteString("\n")
	if n := res.Coercion.Total(); n > 0 {
		fmt.Fprintf(&b, "- Numeric cells left undefined: %d\n", n)
	}
	if res.Coercion.UnknownPolarity > 0 {
		fmt.Fprintf(&b, "- Rows with unrecognized polarity: %d\n", res.Coercion.UnknownPolarity)
	}

	b.WriteString("\n## Classification\n\n")
	b.WriteString("| Label | Count |\n|---|---:|\n")
	for _, c := range kpi.Classifications {
		fmt.Fprintf(&b, "| %s | %d |\n", c, res.Counts[c])
	}

	b.WriteString("\n## Groups\n\n")
	b.WriteString("| Group | Size | Mean | Std | Median | Min | Max | Below | Above | Undefined |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, g := range res.Groups {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %d | %d | %d |\n",
			escapeCell(g.Key), g.Size,
			formatValue(g.Mean), formatValue(g.StdDev),
			formatFloat(g.Median), formatFloat(g.Min), formatFloat(g.Max),
			g.Counts[kpi.ClassBelowNormal], g.Counts[kpi.ClassAboveNormal], g.Counts[kpi.ClassUndefined])
	}

	var flagged []kpi.Deviation
	for _, r := range res.Rows {
		if r.Classification == kpi.ClassBelowNormal || r.Classification == kpi.ClassAboveNormal {
			flagged = append(flagged, r)
		}
	}
	b.WriteString("\n## Outliers\n\n")
	if len(flagged) == 0 {
		b.WriteString("No employee is outside the threshold.\n")
		return b.Bytes()
	}
	b.WriteString("| NIPP | Position | Company | Final score | Z | Label |\n")
	b.WriteString("|---|---|---|---:|---:|---|\n")
	for _, r := range flagged {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			escapeCell(r.EmployeeID), escapeCell(r.Position), escapeCell(r.Company),
			formatFloat(r.FinalScore), formatValue(r.ZScore), r.Classification)
	}
	return b.Bytes()
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatValue(v kpi.Value) string {
	if f, ok := v.Get(); ok {
		return formatFloat(f)
	}
	return "-"
}

var cellEscaper = strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
