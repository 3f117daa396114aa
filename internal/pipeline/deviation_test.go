package pipeline

import (
	"testing"

	"godeviate/domain/kpi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(id, position, company string, final float64) kpi.Summary {
	return kpi.Summary{
		Key:         kpi.Key{EmployeeID: id, Position: position, Company: company},
		TotalWeight: 100,
		FinalScore:  final,
		KPICount:    1,
	}
}

func TestComputeGroupStats(t *testing.T) {
	summaries := []kpi.Summary{
		summary("E1", "Analyst", "PT A", 80),
		summary("E2", "Analyst", "PT A", 100),
		summary("E3", "Analyst", "PT A", 120),
		summary("E4", "Manager", "PT B", 95),
	}

	stats := ComputeGroupStats(summaries, kpi.LevelCompany)
	require.Len(t, stats, 2)

	a := stats["PT A"]
	assert.Equal(t, 3, a.Size)
	assert.InDelta(t, 100, valueOr(a.Mean, 0), 1e-9)
	assert.InDelta(t, 20, valueOr(a.StdDev, 0), 1e-9)

	b := stats["PT B"]
	assert.Equal(t, 1, b.Size)
	assert.Equal(t, 95.0, valueOr(b.Mean, 0))
	assert.False(t, b.StdDev.IsDefined())

	byPosition := ComputeGroupStats(summaries, kpi.LevelPosition)
	assert.Equal(t, 3, byPosition["Analyst"].Size)
	assert.Equal(t, 1, byPosition["Manager"].Size)
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		mean    kpi.Value
		std     kpi.Value
		want    float64
		defined bool
	}{
		{"above mean", 130, kpi.NewValue(100), kpi.NewValue(20), 1.5, true},
		{"below mean", 70, kpi.NewValue(100), kpi.NewValue(20), -1.5, true},
		{"at mean", 100, kpi.NewValue(100), kpi.NewValue(20), 0, true},
		{"zero std", 100, kpi.NewValue(100), kpi.NewValue(0), 0, false},
		{"undefined std", 100, kpi.NewValue(100), kpi.Undefined(), 0, false},
		{"undefined mean", 100, kpi.Undefined(), kpi.NewValue(20), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := ZScore(tt.score, tt.mean, tt.std)
			got, ok := z.Get()
			assert.Equal(t, tt.defined, ok)
			if tt.defined {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDeviationsBoundaryIsNormal(t *testing.T) {
	// mean 100, sample std 20: the outer members sit exactly on +-1
	summaries := []kpi.Summary{
		summary("E1", "Analyst", "PT A", 80),
		summary("E2", "Analyst", "PT A", 100),
		summary("E3", "Analyst", "PT A", 120),
	}
	rows, err := Deviations(summaries, kpi.LevelCompany, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, kpi.ClassNormal, rows[0].Classification, "z == -1 ties to Normal")
	assert.Equal(t, kpi.ClassNormal, rows[1].Classification)
	assert.Equal(t, kpi.ClassNormal, rows[2].Classification, "z == 1 ties to Normal")

	rows, err = Deviations(summaries, kpi.LevelCompany, 0.5)
	require.NoError(t, err)
	assert.Equal(t, kpi.ClassBelowNormal, rows[0].Classification)
	assert.Equal(t, kpi.ClassNormal, rows[1].Classification)
	assert.Equal(t, kpi.ClassAboveNormal, rows[2].Classification)
}

func TestDeviationsDoesNotMutateInput(t *testing.T) {
	summaries := []kpi.Summary{
		summary("E1", "Analyst", "PT A", 80),
		summary("E2", "Analyst", "PT A", 100),
	}
	before := make([]kpi.Summary, len(summaries))
	copy(before, summaries)

	_, err := Deviations(summaries, kpi.LevelPosition, kpi.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, before, summaries)
}

func TestAggregateSumsDefinedValuesOnly(t *testing.T) {
	key := kpi.Key{EmployeeID: "E1", Position: "Analyst", Company: "PT A"}
	record := func(weight, weighted kpi.Value) kpi.DerivedRecord {
		return kpi.DerivedRecord{
			InputRecord:   kpi.InputRecord{EmployeeID: key.EmployeeID, Position: key.Position, Company: key.Company, Weight: weight},
			WeightedScore: weighted,
		}
	}

	summaries := Aggregate([]kpi.DerivedRecord{
		record(kpi.NewValue(30), kpi.NewValue(33)),
		record(kpi.NewValue(70), kpi.Undefined()),
		record(kpi.Undefined(), kpi.Undefined()),
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, key, summaries[0].Key)
	assert.Equal(t, 33.0, summaries[0].TotalWeightedScore)
	assert.Equal(t, 100.0, summaries[0].TotalWeight)
	assert.Equal(t, 33.0, summaries[0].FinalScore)
	assert.Equal(t, 3, summaries[0].KPICount)
}
