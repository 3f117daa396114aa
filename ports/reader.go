package ports

import (
	"io"

	"godeviate/domain/dataset"
)

// TableReader parses an uploaded or on-disk KPI file into a raw table.
// The file name decides the serialization.
type TableReader interface {
	Read(name string, src io.Reader) (*dataset.Table, error)
	ReadFile(path string) (*dataset.Table, error)
}
