// Package schema checks that an input table carries the required KPI columns.
package schema

import (
	"godeviate/domain/core"
	"godeviate/domain/kpi"
	"godeviate/internal/errors"
)

// MissingColumns returns the required columns absent from headers, in
// required order. Matching is exact and case-sensitive.
func MissingColumns(headers, required []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Validate fails with a SCHEMA_ERROR when any KPI column is missing.
// Extra columns are ignored.
func Validate(headers []string) error {
	missing := MissingColumns(headers, kpi.RequiredColumns)
	if len(missing) == 0 {
		return nil
	}
	return errors.SchemaError("required KPI columns not found", core.NewMissingColumnsError(missing))
}
