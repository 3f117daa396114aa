// Package pipeline turns a raw KPI table into classified deviation rows.
// Every stage takes a table and returns a new one; nothing is mutated.
package pipeline

import (
	"time"

	"godeviate/adapters/datareadiness/coercer"
	"godeviate/domain/core"
	"godeviate/domain/dataset"
	"godeviate/domain/kpi"
	"godeviate/internal"
	"godeviate/internal/errors"
	"godeviate/internal/schema"
	"godeviate/ports"
)

// Prepared holds the level-independent part of a run: everything up to
// and including aggregation. Changing the level only re-runs Evaluate.
type Prepared struct {
	RunID     core.RunID
	Source    string
	InputRows int
	Coercion  CoercionStats
	Summaries []kpi.Summary
	// DroppedKeys counts employee keys removed for a zero weight sum
	DroppedKeys int
}

// Result is the output table of one run plus its group report
type Result struct {
	RunID       core.RunID
	Source      string
	Level       kpi.Level
	Threshold   float64
	InputRows   int
	DroppedKeys int
	Coercion    CoercionStats
	Rows        []kpi.Deviation
	Groups      []GroupSummary
	Counts      map[kpi.Classification]int
}

// Analyzer runs tables through the pipeline
type Analyzer struct {
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
	recorder ports.RunRecorder
}

// NewAnalyzer creates an analyzer. A nil recorder disables metrics.
func NewAnalyzer(config coercer.CoercionConfig, logger *internal.Logger, recorder ports.RunRecorder) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &Analyzer{
		coercer:  coercer.NewTypeCoercer(config),
		logger:   logger,
		recorder: recorder,
	}
}

// Prepare validates, coerces, derives and aggregates a table.
// A schema error halts here before any computation.
func (a *Analyzer) Prepare(table *dataset.Table) (*Prepared, error) {
	runID := core.NewRunID()
	log := a.logger.With("run_id", runID.String(), "source", table.Source)

	if err := schema.Validate(table.Headers); err != nil {
		log.Warn("schema validation failed: %v", err)
		a.recorder.RunFailed(errors.GetCode(err))
		return nil, err
	}

	records, stats := Coerce(table, a.coercer)
	if n := stats.Total(); n > 0 || stats.UnknownPolarity > 0 {
		log.Info("coercion left %d numeric cells undefined and %d rows with unrecognized polarity", n, stats.UnknownPolarity)
	}

	derived := Derive(records)
	if a.logger.GetLevel() >= internal.LogLevelTrace {
		for _, d := range derived {
			log.Trace("row %d %s achievement=%s weighted=%s", d.Row, d.EmployeeID, d.Achievement, d.WeightedScore)
		}
	}

	summaries := Aggregate(derived)
	dropped := countKeys(derived) - len(summaries)
	log.Debug("aggregated %d rows into %d summaries (%d dropped)", len(records), len(summaries), dropped)

	return &Prepared{
		RunID:       runID,
		Source:      table.Source,
		InputRows:   len(records),
		Coercion:    stats,
		Summaries:   summaries,
		DroppedKeys: dropped,
	}, nil
}

// Evaluate computes group statistics and classifications for one level
func (a *Analyzer) Evaluate(p *Prepared, level kpi.Level, threshold float64) (*Result, error) {
	start := time.Now()
	rows, err := Deviations(p.Summaries, level, threshold)
	if err != nil {
		a.recorder.RunFailed(errors.CodeValidationError)
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	result := &Result{
		RunID:       p.RunID,
		Source:      p.Source,
		Level:       level,
		Threshold:   threshold,
		InputRows:   p.InputRows,
		DroppedKeys: p.DroppedKeys,
		Coercion:    p.Coercion,
		Rows:        rows,
		Groups:      Summarize(rows),
		Counts:      CountByClass(rows),
	}

	a.recorder.RunCompleted(level, p.InputRows, result.Counts, time.Since(start))
	a.logger.With("run_id", p.RunID.String()).Info("classified %d summaries by %s: %d below, %d above, %d undefined",
		len(rows), level, result.Counts[kpi.ClassBelowNormal], result.Counts[kpi.ClassAboveNormal], result.Counts[kpi.ClassUndefined])
	return result, nil
}

// Run is Prepare followed by Evaluate
func (a *Analyzer) Run(table *dataset.Table, level kpi.Level, threshold float64) (*Result, error) {
	p, err := a.Prepare(table)
	if err != nil {
		return nil, err
	}
	return a.Evaluate(p, level, threshold)
}

func countKeys(records []kpi.DerivedRecord) int {
	seen := make(map[kpi.Key]struct{})
	for _, r := range records {
		if r.EmployeeID == "" || r.Position == "" || r.Company == "" {
			continue
		}
		seen[kpi.Key{EmployeeID: r.EmployeeID, Position: r.Position, Company: r.Company}] = struct{}{}
	}
	return len(seen)
}
