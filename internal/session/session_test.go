package session

import (
	"errors"
	"testing"

	"godeviate/domain/core"
	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluator struct {
	calls []kpi.Level
	err   error
}

func (f *fakeEvaluator) Evaluate(p *pipeline.Prepared, level kpi.Level, threshold float64) (*pipeline.Result, error) {
	f.calls = append(f.calls, level)
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Result{RunID: p.RunID, Level: level, Threshold: threshold}, nil
}

func newSession(level kpi.Level) *Session {
	p := &pipeline.Prepared{RunID: core.NewRunID()}
	return &Session{
		FileName: "kpi.csv",
		Prepared: p,
		Result:   &pipeline.Result{RunID: p.RunID, Level: level, Threshold: 2},
	}
}

func TestStoreEmpty(t *testing.T) {
	st := NewStore()
	_, err := st.Current()
	assert.True(t, errors.Is(err, core.ErrNoSession))

	_, err = st.AtLevel(kpi.LevelCompany, &fakeEvaluator{})
	assert.True(t, errors.Is(err, core.ErrNoSession))
}

func TestStoreReplace(t *testing.T) {
	st := NewStore()
	first := newSession(kpi.LevelCompany)
	second := newSession(kpi.LevelPosition)

	st.Replace(first)
	got, err := st.Current()
	require.NoError(t, err)
	assert.Same(t, first, got)

	st.Replace(second)
	got, err = st.Current()
	require.NoError(t, err)
	assert.Same(t, second, got)

	st.Clear()
	_, err = st.Current()
	assert.Error(t, err)
}

func TestAtLevelReusesMatchingResult(t *testing.T) {
	st := NewStore()
	s := newSession(kpi.LevelCompany)
	st.Replace(s)

	ev := &fakeEvaluator{}
	res, err := st.AtLevel(kpi.LevelCompany, ev)
	require.NoError(t, err)
	assert.Same(t, s.Result, res)
	assert.Empty(t, ev.calls)
}

func TestAtLevelRecomputes(t *testing.T) {
	st := NewStore()
	s := newSession(kpi.LevelCompany)
	st.Replace(s)

	ev := &fakeEvaluator{}
	res, err := st.AtLevel(kpi.LevelPosition, ev)
	require.NoError(t, err)
	assert.Equal(t, kpi.LevelPosition, res.Level)
	assert.Equal(t, 2.0, res.Threshold, "threshold is kept across levels")
	assert.Equal(t, []kpi.Level{kpi.LevelPosition}, ev.calls)

	current, err := st.Current()
	require.NoError(t, err)
	assert.Same(t, res, current.Result)
	assert.Same(t, s.Prepared, current.Prepared)
	assert.Equal(t, kpi.LevelCompany, s.Result.Level, "the old session value is not mutated")
}

func TestAtLevelError(t *testing.T) {
	st := NewStore()
	s := newSession(kpi.LevelCompany)
	st.Replace(s)

	_, err := st.AtLevel(kpi.LevelPosition, &fakeEvaluator{err: core.ErrInvalidLevel})
	assert.ErrorIs(t, err, core.ErrInvalidLevel)

	current, _ := st.Current()
	assert.Same(t, s, current)
}
