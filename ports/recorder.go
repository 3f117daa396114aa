package ports

import (
	"time"

	"godeviate/domain/kpi"
)

// RunRecorder receives pipeline outcomes for metrics
type RunRecorder interface {
	// RunCompleted records a successful run
	RunCompleted(level kpi.Level, inputRows int, counts map[kpi.Classification]int, elapsed time.Duration)
	// RunFailed records a run that halted; code is the AppError code
	RunFailed(code string)
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RunCompleted(kpi.Level, int, map[kpi.Classification]int, time.Duration) {}
func (NopRecorder) RunFailed(string) {}
