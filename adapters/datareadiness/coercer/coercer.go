package coercer

import (
	"strconv"
	"strings"

	"godeviate/domain/kpi"
)

// CoercionConfig defines how numeric cells are read
type CoercionConfig struct {
	// Lenient accepts currency symbols, percent signs, thousands separators,
	// European decimal commas and parenthesised negatives.
	Lenient bool `json:"lenient"`
}

// DefaultCoercionConfig returns the strict configuration
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{Lenient: false}
}

// TypeCoercer turns raw cell text into typed values. It never fails:
// anything unparseable becomes undefined.
type TypeCoercer struct {
	config CoercionConfig
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Numeric parses a cell as a number
func (c *TypeCoercer) Numeric(raw string) kpi.Value {
	v, ok := c.tryParseNumeric(raw)
	if !ok {
		return kpi.Undefined()
	}
	return kpi.NewValue(v)
}

// Polarity normalizes polarity text and maps it to a Polarity
func (c *TypeCoercer) Polarity(raw string) (string, kpi.Polarity) {
	normalized := kpi.NormalizePolarity(raw)
	return normalized, kpi.ParsePolarity(normalized)
}

func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	if c.config.Lenient {
		cleanVal = normalizeLenient(cleanVal)
	}

	// ParseFloat also reads hex floats, which no spreadsheet produces
	if strings.ContainsAny(cleanVal, "xX") {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// normalizeLenient rewrites international number formats into Go syntax.
// A result that cannot be read unambiguously comes back empty, which the
// caller turns into an undefined value.
func normalizeLenient(cleanVal string) string {
	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	rupiah := strings.Contains(cleanVal, "Rp") || strings.Contains(cleanVal, "IDR")
	for _, symbol := range []string{"Rp", "IDR", "$", "€", "£", "¥", "USD", "EUR", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	// Spaces (including no-break spaces) only ever group digits
	cleanVal = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, cleanVal)

	sign := ""
	if strings.HasPrefix(cleanVal, "-") || strings.HasPrefix(cleanVal, "+") {
		sign, cleanVal = cleanVal[:1], cleanVal[1:]
	}
	if isNegative {
		sign = "-"
	}

	cleanVal = normalizeSeparators(cleanVal, rupiah)
	if cleanVal == "" {
		return ""
	}
	return sign + cleanVal
}

// normalizeSeparators decides which of "," and "." is the decimal mark.
//   - both present: the last one is decimal, the other groups thousands
//   - one kind repeated: it groups thousands
//   - a lone "," before exactly three digits groups thousands (12,000)
//   - a lone "." before exactly three digits groups thousands only for
//     rupiah amounts, since 98.125 is an ordinary decimal otherwise
//   - any other lone separator is decimal
func normalizeSeparators(s string, rupiah bool) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimal, group := ",", "."
		if lastDot > lastComma {
			decimal, group = ".", ","
		}
		idx := strings.LastIndex(s, decimal)
		intPart, frac := s[:idx], s[idx+1:]
		if strings.Contains(intPart, decimal) {
			return ""
		}
		digits, ok := ungroup(intPart, group)
		if !ok {
			return ""
		}
		return digits + "." + frac

	case lastComma >= 0 || lastDot >= 0:
		sep := ","
		if lastDot >= 0 {
			sep = "."
		}
		parts := strings.Split(s, sep)
		if len(parts) > 2 {
			digits, ok := ungroup(s, sep)
			if !ok {
				return ""
			}
			return digits
		}
		intPart, frac := parts[0], parts[1]
		grouping := len(frac) == 3 && allDigits(frac) &&
			len(intPart) >= 1 && len(intPart) <= 3 && allDigits(intPart) && intPart != "0" &&
			(sep == "," || rupiah)
		if grouping {
			return intPart + frac
		}
		return intPart + "." + frac

	default:
		return s
	}
}

// ungroup removes thousands separators, requiring 1-3 leading digits and
// exactly three digits in every later group.
func ungroup(s, sep string) (string, bool) {
	groups := strings.Split(s, sep)
	if len(groups[0]) == 0 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
