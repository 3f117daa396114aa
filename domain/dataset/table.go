package dataset

// RawRow maps a header to the cell text of one data row
type RawRow map[string]string

// Table is one worksheet or CSV file as read from disk
type Table struct {
	Source  string   // file name the table came from
	Sheet   string   // worksheet name; empty for CSV
	Headers []string // column headers in file order
	Rows    []RawRow // data rows
}
