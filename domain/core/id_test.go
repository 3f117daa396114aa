package core

import (
	"errors"
	"testing"
)

// TestNewRunIDUniqueness tests that NewRunID generates unique identifiers
func TestNewRunIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[RunID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewRunID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestRunIDShort tests the file-name prefix
func TestRunIDShort(t *testing.T) {
	id := RunID("0191f7a2-1c2d-7000-8000-000000000000")
	if id.Short() != "0191f7a2" {
		t.Errorf("Expected Short() to return '0191f7a2', got '%s'", id.Short())
	}
	if RunID("plain").Short() != "plain" {
		t.Error("Expected Short() of an ID without dashes to be the ID itself")
	}
}

// TestErrorClassification tests the sentinel helpers
func TestErrorClassification(t *testing.T) {
	schemaErr := NewMissingColumnsError([]string{"BOBOT", "POLARITAS"})
	if !IsSchemaError(schemaErr) {
		t.Error("Expected missing columns error to be a schema error")
	}
	if IsInputError(schemaErr) {
		t.Error("Expected missing columns error not to be an input error")
	}
	if schemaErr.Error() != "required columns missing: BOBOT, POLARITAS" {
		t.Errorf("Unexpected message: %s", schemaErr.Error())
	}

	formatErr := NewUnsupportedFormatError("data.json")
	if !IsInputError(formatErr) || !errors.Is(formatErr, ErrUnsupportedFormat) {
		t.Error("Expected unsupported format error to be an input error")
	}
}
