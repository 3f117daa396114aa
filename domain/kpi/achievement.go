package kpi

// Achievement returns the direction-adjusted percentage of target met.
// Zero or missing realized/target values are treated as not measured.
func Achievement(realized, target Value, polarity Polarity) Value {
	if !realized.IsDefined() || !target.IsDefined() {
		return Undefined()
	}
	if realized.IsZero() || target.IsZero() {
		return Undefined()
	}
	switch polarity {
	case PolarityPositive:
		return realized.Div(target).Scale(100)
	case PolarityNegative:
		return target.Div(realized).Scale(100)
	default:
		return Undefined()
	}
}

var hundred = NewValue(100)

// WeightedScore is achievement * weight / 100
func WeightedScore(achievement, weight Value) Value {
	return achievement.Mul(weight).Div(hundred)
}

// Derive computes the per-row scores of an input record
func Derive(r InputRecord) DerivedRecord {
	a := Achievement(r.Realized, r.Target, r.Polarity)
	return DerivedRecord{
		InputRecord:   r,
		Achievement:   a,
		WeightedScore: WeightedScore(a, r.Weight),
	}
}
