package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrMissingColumns    = errors.New("required columns missing")
	ErrEmptyFile         = errors.New("file has no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoWorksheet       = errors.New("workbook has no worksheet")

	// Analysis errors
	ErrInvalidLevel     = errors.New("invalid deviation level")
	ErrInvalidThreshold = errors.New("z-score threshold must be positive")
	ErrNoSession        = errors.New("no file has been analysed yet")
)

// NewMissingColumnsError names the absent columns
func NewMissingColumnsError(missing []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
}

// NewUnsupportedFormatError names the rejected file
func NewUnsupportedFormatError(name string) error {
	return fmt.Errorf("%w: %s (want .csv or .xlsx)", ErrUnsupportedFormat, name)
}

// IsSchemaError reports whether err is a fatal schema failure
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrMissingColumns)
}

// IsInputError reports whether err comes from an unreadable input file
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrNoWorksheet)
}
