package pipeline

import (
	"sort"

	"godeviate/domain/kpi"

	"gonum.org/v1/gonum/floats"
)

type accumulator struct {
	weighted []float64
	weights  []float64
	count    int
}

// Aggregate collapses derived records into one summary per
// employee/position/company. Undefined scores and weights add nothing.
// Keys with a zero weight sum are dropped, as are rows with a blank key
// part. Summaries come out in order of first appearance.
func Aggregate(records []kpi.DerivedRecord) []kpi.Summary {
	var order []kpi.Key
	groups := make(map[kpi.Key]*accumulator)

	for _, r := range records {
		if r.EmployeeID == "" || r.Position == "" || r.Company == "" {
			continue
		}
		key := kpi.Key{EmployeeID: r.EmployeeID, Position: r.Position, Company: r.Company}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
			order = append(order, key)
		}
		acc.count++
		if v, ok := r.WeightedScore.Get(); ok {
			acc.weighted = append(acc.weighted, v)
		}
		if v, ok := r.Weight.Get(); ok {
			acc.weights = append(acc.weights, v)
		}
	}

	summaries := make([]kpi.Summary, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		totalWeight := orderedSum(acc.weights)
		if totalWeight == 0 {
			continue
		}
		totalWeighted := orderedSum(acc.weighted)
		summaries = append(summaries, kpi.Summary{
			Key:                key,
			TotalWeightedScore: totalWeighted,
			TotalWeight:        totalWeight,
			FinalScore:         totalWeighted / totalWeight * 100,
			KPICount:           acc.count,
		})
	}
	return summaries
}

// orderedSum adds values in ascending order so the result does not depend
// on input row order.
func orderedSum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return floats.Sum(sorted)
}
