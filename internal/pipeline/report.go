package pipeline

import (
	"godeviate/domain/kpi"

	"github.com/montanaflynn/stats"
)

// GroupSummary describes one deviation group after classification
type GroupSummary struct {
	Key    string                     `json:"key"`
	Size   int                        `json:"size"`
	Mean   kpi.Value                  `json:"-"`
	StdDev kpi.Value                  `json:"-"`
	Median float64                    `json:"median"`
	Min    float64                    `json:"min"`
	Max    float64                    `json:"max"`
	Counts map[kpi.Classification]int `json:"counts"`
}

// Summarize builds one GroupSummary per group, in first-seen order
func Summarize(rows []kpi.Deviation) []GroupSummary {
	var order []string
	scores := make(map[string][]float64)
	first := make(map[string]kpi.Deviation)
	counts := make(map[string]map[kpi.Classification]int)

	for _, r := range rows {
		if _, ok := scores[r.GroupKey]; !ok {
			order = append(order, r.GroupKey)
			first[r.GroupKey] = r
			counts[r.GroupKey] = make(map[kpi.Classification]int, len(kpi.Classifications))
		}
		scores[r.GroupKey] = append(scores[r.GroupKey], r.FinalScore)
		counts[r.GroupKey][r.Classification]++
	}

	out := make([]GroupSummary, 0, len(order))
	for _, key := range order {
		data := stats.Float64Data(scores[key])
		// Groups are never empty, so these cannot fail
		median, _ := data.Median()
		min, _ := data.Min()
		max, _ := data.Max()

		out = append(out, GroupSummary{
			Key:    key,
			Size:   data.Len(),
			Mean:   first[key].GroupMean,
			StdDev: first[key].GroupStdDev,
			Median: median,
			Min:    min,
			Max:    max,
			Counts: counts[key],
		})
	}
	return out
}

// CountByClass tallies classifications across all rows
func CountByClass(rows []kpi.Deviation) map[kpi.Classification]int {
	counts := make(map[kpi.Classification]int, len(kpi.Classifications))
	for _, r := range rows {
		counts[r.Classification]++
	}
	return counts
}
