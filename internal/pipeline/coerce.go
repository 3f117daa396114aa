package pipeline

import (
	"godeviate/adapters/datareadiness/coercer"
	"godeviate/domain/dataset"
	"godeviate/domain/kpi"
)

// CoercionStats counts cells that did not survive coercion. None of them
// stop the run; they only explain undefined values downstream.
type CoercionStats struct {
	Unparseable     map[string]int `json:"unparseable"` // non-blank numeric cells that failed to parse
	Blank           map[string]int `json:"blank"`       // blank numeric cells
	UnknownPolarity int            `json:"unknown_polarity"`
}

// Total returns the number of numeric cells that became undefined
func (s CoercionStats) Total() int {
	n := 0
	for _, c := range s.Unparseable {
		n += c
	}
	for _, c := range s.Blank {
		n += c
	}
	return n
}

var numericColumns = []string{kpi.ColWeight, kpi.ColRealized, kpi.ColTarget}

// Coerce converts raw rows into typed records. It never fails: bad cells
// become undefined values and are counted in the returned stats.
func Coerce(table *dataset.Table, c *coercer.TypeCoercer) ([]kpi.InputRecord, CoercionStats) {
	stats := CoercionStats{
		Unparseable: make(map[string]int, len(numericColumns)),
		Blank:       make(map[string]int, len(numericColumns)),
	}

	records := make([]kpi.InputRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		numeric := func(col string) kpi.Value {
			raw := row[col]
			v := c.Numeric(raw)
			if !v.IsDefined() {
				if isBlank(raw) {
					stats.Blank[col]++
				} else {
					stats.Unparseable[col]++
				}
			}
			return v
		}

		polarityText, polarity := c.Polarity(row[kpi.ColPolarity])
		if polarity == kpi.PolarityUnknown {
			stats.UnknownPolarity++
		}

		records = append(records, kpi.InputRecord{
			Row:          i + 1,
			EmployeeID:   row[kpi.ColEmployeeID],
			Position:     row[kpi.ColPosition],
			Company:      row[kpi.ColCompany],
			Weight:       numeric(kpi.ColWeight),
			Realized:     numeric(kpi.ColRealized),
			Target:       numeric(kpi.ColTarget),
			PolarityText: polarityText,
			Polarity:     polarity,
		})
	}
	return records, stats
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}

// Derive applies the per-row achievement calculation to every record
func Derive(records []kpi.InputRecord) []kpi.DerivedRecord {
	derived := make([]kpi.DerivedRecord, len(records))
	for i, r := range records {
		derived[i] = kpi.Derive(r)
	}
	return derived
}
