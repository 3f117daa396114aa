package kpi

import (
	"fmt"
	"strings"

	"godeviate/domain/core"
)

// Required input column names, matched exactly
const (
	ColEmployeeID = "NIPP PEKERJA"
	ColPosition   = "POSISI PEKERJA"
	ColCompany    = "PERUSAHAAN"
	ColWeight     = "BOBOT"
	ColRealized   = "REALISASI TW TERKAIT"
	ColTarget     = "TARGET TW TERKAIT"
	ColPolarity   = "POLARITAS"
)

// Output column names
const (
	ColFinalScore     = "SKOR AKHIR"
	ColGroupMean      = "DEV_GROUP"
	ColGroupStdDev    = "STD_GROUP"
	ColZScore         = "Z_SCORE"
	ColClassification = "ANOMALI"
)

// RequiredColumns lists the input columns in their canonical order
var RequiredColumns = []string{
	ColEmployeeID,
	ColPosition,
	ColCompany,
	ColWeight,
	ColRealized,
	ColTarget,
	ColPolarity,
}

// OutputColumns is the fixed column order of the result table and its exports
var OutputColumns = []string{
	ColEmployeeID,
	ColPosition,
	ColCompany,
	ColFinalScore,
	ColGroupMean,
	ColGroupStdDev,
	ColZScore,
	ColClassification,
}

// InputRecord is one KPI row after coercion
type InputRecord struct {
	Row          int // 1-based data row number in the source file
	EmployeeID   string
	Position     string
	Company      string
	Weight       Value
	Realized     Value
	Target       Value
	PolarityText string // trimmed, lowercased
	Polarity     Polarity
}

// DerivedRecord extends an InputRecord with its per-row scores
type DerivedRecord struct {
	InputRecord
	Achievement   Value
	WeightedScore Value
}

// Key identifies one employee-role-company assignment
type Key struct {
	EmployeeID string
	Position   string
	Company    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.EmployeeID, k.Position, k.Company)
}

// Summary is the aggregated score of one Key. TotalWeight is never zero.
type Summary struct {
	Key
	TotalWeightedScore float64
	TotalWeight        float64
	FinalScore         float64
	KPICount           int
}

// Level selects the grouping key for deviation statistics
type Level string

const (
	LevelCompany  Level = "company"
	LevelPosition Level = "position"
)

// Levels lists the accepted grouping levels
var Levels = []Level{LevelCompany, LevelPosition}

// ParseLevel accepts the level name or its column header, case-insensitively
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "company", strings.ToLower(ColCompany):
		return LevelCompany, nil
	case "position", strings.ToLower(ColPosition):
		return LevelPosition, nil
	}
	return "", fmt.Errorf("%w: %q (want company or position)", core.ErrInvalidLevel, s)
}

// Column returns the input column the level groups by
func (l Level) Column() string {
	if l == LevelPosition {
		return ColPosition
	}
	return ColCompany
}

// GroupKey extracts the level's key from a summary
func (l Level) GroupKey(s Summary) string {
	if l == LevelPosition {
		return s.Position
	}
	return s.Company
}

// Deviation is one row of the result table
type Deviation struct {
	Summary
	GroupKey       string
	GroupMean      Value
	GroupStdDev    Value
	ZScore         Value
	Classification Classification
}
