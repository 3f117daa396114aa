package excel

// Format is a supported input serialization
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)
