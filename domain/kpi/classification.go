package kpi

import "fmt"

// DefaultThreshold is the absolute z-score beyond which a score is flagged
const DefaultThreshold = 1.5

// Classification labels a z-score relative to its group
type Classification string

const (
	ClassBelowNormal Classification = "Below Normal"
	ClassNormal      Classification = "Normal"
	ClassAboveNormal Classification = "Above Normal"
	// ClassUndefined marks a row whose z-score cannot be computed
	ClassUndefined Classification = "Undefined"
)

// Classifications lists every label in display order
var Classifications = []Classification{
	ClassBelowNormal,
	ClassNormal,
	ClassAboveNormal,
	ClassUndefined,
}

// Classify labels z with strict thresholds; |z| == threshold is Normal.
func Classify(z Value, threshold float64) Classification {
	v, ok := z.Get()
	if !ok {
		return ClassUndefined
	}
	switch {
	case v < -threshold:
		return ClassBelowNormal
	case v > threshold:
		return ClassAboveNormal
	default:
		return ClassNormal
	}
}

// ParseClassification maps an exported label back to a Classification
func ParseClassification(s string) (Classification, error) {
	for _, c := range Classifications {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown classification %q", s)
}
