package kpi

import "strings"

// Polarity says whether a higher realized value is better
type Polarity int

const (
	PolarityUnknown Polarity = iota
	PolarityPositive
	PolarityNegative
)

var polarityTokens = map[string]Polarity{
	"positive": PolarityPositive,
	"positif":  PolarityPositive,
	"negative": PolarityNegative,
	"negatif":  PolarityNegative,
}

// NormalizePolarity trims surrounding whitespace and lowercases the text
func NormalizePolarity(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParsePolarity maps normalized polarity text to a Polarity.
// Anything outside the recognized vocabulary is PolarityUnknown.
func ParsePolarity(normalized string) Polarity {
	return polarityTokens[normalized]
}

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "positive"
	case PolarityNegative:
		return "negative"
	default:
		return "unknown"
	}
}
