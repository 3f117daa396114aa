package core

import (
	"strings"

	"github.com/google/uuid"
)

// RunID identifies one pass of a file through the pipeline
type RunID string

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID {
	// v7 sorts by creation time; v4 is the fallback if the clock read fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id RunID) IsEmpty() bool {
	return id == ""
}

// Short returns the first block of the ID, for file names
func (id RunID) Short() string {
	s := string(id)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}
