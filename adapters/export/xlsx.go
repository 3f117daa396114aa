package export

import (
	"io"
	"os"

	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX export
const (
	SheetDeviations = "Deviasi"
	SheetGroups     = "Ringkasan Grup"
)

// GroupColumns is the header of the group report sheet
var GroupColumns = []string{"GRUP", "JUMLAH", "RATA-RATA", "STD", "MEDIAN", "MIN", "MAX"}

// WriteXLSX writes the result table and the group report as a workbook
func WriteXLSX(w io.Writer, res *pipeline.Result) error {
	f, err := buildWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// WriteXLSXFile writes the workbook to path
func WriteXLSXFile(path string, res *pipeline.Result) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteXLSX(out, res); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func buildWorkbook(res *pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDeviations); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetGroups); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeDeviationSheet(f, res.Rows, bold); err != nil {
		return nil, err
	}
	if err := writeGroupSheet(f, res.Groups, bold); err != nil {
		return nil, err
	}
	return f, nil
}

func writeDeviationSheet(f *excelize.File, rows []kpi.Deviation, headerStyle int) error {
	if err := writeHeader(f, SheetDeviations, kpi.OutputColumns, headerStyle); err != nil {
		return err
	}
	for i, d := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			d.EmployeeID,
			d.Position,
			d.Company,
			d.FinalScore,
			cellValue(d.GroupMean),
			cellValue(d.GroupStdDev),
			cellValue(d.ZScore),
			string(d.Classification),
		}
		if err := f.SetSheetRow(SheetDeviations, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetDeviations, "A", "H", 18)
}

func writeGroupSheet(f *excelize.File, groups []pipeline.GroupSummary, headerStyle int) error {
	header := make([]string, 0, len(GroupColumns)+len(kpi.Classifications))
	header = append(header, GroupColumns...)
	for _, c := range kpi.Classifications {
		header = append(header, string(c))
	}
	if err := writeHeader(f, SheetGroups, header, headerStyle); err != nil {
		return err
	}

	for i, g := range groups {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			g.Key,
			g.Size,
			cellValue(g.Mean),
			cellValue(g.StdDev),
			g.Median,
			g.Min,
			g.Max,
		}
		for _, c := range kpi.Classifications {
			values = append(values, g.Counts[c])
		}
		if err := f.SetSheetRow(SheetGroups, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetGroups, "A", "A", 24)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// cellValue leaves undefined values as empty cells
func cellValue(v kpi.Value) interface{} {
	if f, ok := v.Get(); ok {
		return f
	}
	return nil
}
