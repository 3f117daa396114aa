package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"godeviate/domain/core"
	"godeviate/domain/dataset"
	"godeviate/internal"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\uFEFF"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if config.Comma == 0 {
		config.Comma = ','
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// DetectFormat picks the serialization from the file extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", core.NewUnsupportedFormatError(filepath.Base(name))
	}
}

// ReadFile reads a CSV or XLSX file from disk
func (r *DataReader) ReadFile(path string) (*dataset.Table, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return r.Read(filepath.Base(path), f)
}

// Read parses src according to the extension of name
func (r *DataReader) Read(name string, src io.Reader) (*dataset.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] Starting to read %s file: %s", format, name)
	readStart := time.Now()

	var rows [][]string
	var sheet string
	switch format {
	case FormatCSV:
		rows, err = r.readCSVRows(src)
	case FormatXLSX:
		sheet, rows, err = r.readExcelRows(src)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	table, err := r.processRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	table.Source = name
	table.Sheet = sheet
	return table, nil
}

// readExcelRows reads raw cell values from the configured (or first) worksheet
func (r *DataReader) readExcelRows(src io.Reader) (string, [][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, core.ErrNoWorksheet
		}
		sheet = sheets[0]
	}

	// Raw values keep numbers free of display formats such as "1,234" or "50%"
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return sheet, rows, nil
}

// readCSVRows reads every record of a CSV stream
func (r *DataReader) readCSVRows(src io.Reader) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(utf8BOM))))
	reader.Comma = r.config.Comma
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into a Table
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, core.ErrEmptyFile
	}

	// Headers are matched exactly downstream, so only a leading BOM is removed
	headers := make([]string, len(rows[0]))
	copy(headers, rows[0])
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	// A repeated header keeps its first column
	firstIndex := make(map[string]int, len(headers))
	for j, header := range headers {
		if _, seen := firstIndex[header]; !seen {
			firstIndex[header] = j
		}
	}

	dataRows := make([]dataset.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(dataset.RawRow, len(firstIndex))
		for header, j := range firstIndex {
			if j < len(row) {
				rowData[header] = row[j]
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("[DataReader] processed %d columns, %d rows", len(headers), len(dataRows))

	return &dataset.Table{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
