// Package export writes deviation results as CSV, XLSX, JSON and markdown.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"godeviate/domain/kpi"
)

// Row is one line of the exported table, in OutputColumns order
type Row struct {
	EmployeeID     string             `json:"employee_id"`
	Position       string             `json:"position"`
	Company        string             `json:"company"`
	FinalScore     float64            `json:"final_score"`
	GroupMean      kpi.Value          `json:"group_mean"`
	GroupStdDev    kpi.Value          `json:"group_std"`
	ZScore         kpi.Value          `json:"z_score"`
	Classification kpi.Classification `json:"classification"`
}

// NewRow projects a deviation onto the output columns
func NewRow(d kpi.Deviation) Row {
	return Row{
		EmployeeID:     d.EmployeeID,
		Position:       d.Position,
		Company:        d.Company,
		FinalScore:     d.FinalScore,
		GroupMean:      d.GroupMean,
		GroupStdDev:    d.GroupStdDev,
		ZScore:         d.ZScore,
		Classification: d.Classification,
	}
}

// Rows projects every deviation
func Rows(ds []kpi.Deviation) []Row {
	out := make([]Row, len(ds))
	for i, d := range ds {
		out[i] = NewRow(d)
	}
	return out
}

// Record formats a row as CSV fields. Floats use the shortest form that
// parses back to the same bits; undefined values are empty cells.
func (r Row) Record() []string {
	return []string{
		r.EmployeeID,
		r.Position,
		r.Company,
		strconv.FormatFloat(r.FinalScore, 'g', -1, 64),
		r.GroupMean.String(),
		r.GroupStdDev.String(),
		r.ZScore.String(),
		string(r.Classification),
	}
}

// WriteCSV writes the header and one line per deviation, with no index column
func WriteCSV(w io.Writer, ds []kpi.Deviation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(kpi.OutputColumns); err != nil {
		return err
	}
	for _, d := range ds {
		if err := cw.Write(NewRow(d).Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path
func WriteCSVFile(path string, ds []kpi.Deviation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a file produced by WriteCSV
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export is empty")
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(kpi.OutputColumns) {
		return fmt.Errorf("export header has %d columns, want %d", len(header), len(kpi.OutputColumns))
	}
	for i, col := range kpi.OutputColumns {
		if header[i] != col {
			return fmt.Errorf("export column %d is %q, want %q", i+1, header[i], col)
		}
	}
	return nil
}

func parseRecord(rec []string) (Row, error) {
	final, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", kpi.ColFinalScore, err)
	}
	mean, err := parseValue(rec[4])
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", kpi.ColGroupMean, err)
	}
	std, err := parseValue(rec[5])
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", kpi.ColGroupStdDev, err)
	}
	z, err := parseValue(rec[6])
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", kpi.ColZScore, err)
	}
	class, err := kpi.ParseClassification(rec[7])
	if err != nil {
		return Row{}, err
	}
	return Row{
		EmployeeID:     rec[0],
		Position:       rec[1],
		Company:        rec[2],
		FinalScore:     final,
		GroupMean:      mean,
		GroupStdDev:    std,
		ZScore:         z,
		Classification: class,
	}, nil
}

func parseValue(s string) (kpi.Value, error) {
	if s == "" {
		return kpi.Undefined(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return kpi.Undefined(), err
	}
	return kpi.NewValue(f), nil
}
