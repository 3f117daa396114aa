package excel

// ReaderConfig holds configuration for reading KPI files
type ReaderConfig struct {
	Comma rune   `json:"comma"` // CSV field delimiter
	Sheet string `json:"sheet"` // worksheet to read; empty means the first one
}

// DefaultReaderConfig returns sensible defaults for KPI files
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Comma: ',',
	}
}
