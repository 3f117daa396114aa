package pipeline

import (
	"fmt"
	"math"
	"sort"

	"godeviate/domain/core"
	"godeviate/domain/kpi"

	"gonum.org/v1/gonum/stat"
)

// GroupStats is the mean and sample standard deviation of final scores
// within one group. StdDev is undefined for a group of one.
type GroupStats struct {
	Key    string
	Size   int
	Mean   kpi.Value
	StdDev kpi.Value
}

// groupIndex partitions summaries by level key, keeping first-seen order
func groupIndex(summaries []kpi.Summary, level kpi.Level) ([]string, map[string][]int) {
	var order []string
	members := make(map[string][]int)
	for i, s := range summaries {
		key := level.GroupKey(s)
		if _, ok := members[key]; !ok {
			order = append(order, key)
		}
		members[key] = append(members[key], i)
	}
	return order, members
}

// ComputeGroupStats returns per-group statistics keyed by group value
func ComputeGroupStats(summaries []kpi.Summary, level kpi.Level) map[string]GroupStats {
	order, members := groupIndex(summaries, level)
	out := make(map[string]GroupStats, len(order))
	for _, key := range order {
		idx := members[key]
		scores := make([]float64, len(idx))
		for j, i := range idx {
			scores[j] = summaries[i].FinalScore
		}
		// sorted so the statistics do not depend on input row order
		sort.Float64s(scores)

		gs := GroupStats{Key: key, Size: len(scores)}
		if len(scores) < 2 {
			gs.Mean = kpi.NewValue(stat.Mean(scores, nil))
			gs.StdDev = kpi.Undefined()
		} else {
			// MeanStdDev uses the unbiased (n-1) estimator
			mean, std := stat.MeanStdDev(scores, nil)
			gs.Mean = kpi.NewValue(mean)
			gs.StdDev = kpi.NewValue(std)
		}
		out[key] = gs
	}
	return out
}

// Deviations broadcasts group statistics onto every summary, computes the
// z-score and classifies it.
func Deviations(summaries []kpi.Summary, level kpi.Level, threshold float64) ([]kpi.Deviation, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	stats := ComputeGroupStats(summaries, level)
	rows := make([]kpi.Deviation, len(summaries))
	for i, s := range summaries {
		key := level.GroupKey(s)
		gs := stats[key]
		z := ZScore(s.FinalScore, gs.Mean, gs.StdDev)
		rows[i] = kpi.Deviation{
			Summary:        s,
			GroupKey:       key,
			GroupMean:      gs.Mean,
			GroupStdDev:    gs.StdDev,
			ZScore:         z,
			Classification: kpi.Classify(z, threshold),
		}
	}
	return rows, nil
}

// ZScore is (score - mean) / std; undefined when std is undefined or zero
func ZScore(score float64, mean, std kpi.Value) kpi.Value {
	return kpi.NewValue(score).Sub(mean).Div(std)
}

func checkLevel(level kpi.Level) error {
	for _, l := range kpi.Levels {
		if l == level {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", core.ErrInvalidLevel, level)
}

func checkThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold <= 0 {
		return fmt.Errorf("%w: %v", core.ErrInvalidThreshold, threshold)
	}
	return nil
}
