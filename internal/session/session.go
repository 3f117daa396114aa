// Package session holds the one analysis the web UI is currently showing.
// A new upload replaces it wholesale; nothing is kept across uploads.
package session

import (
	"sync"
	"time"

	"godeviate/domain/core"
	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"
)

// Session is the latest upload and its current evaluation
type Session struct {
	FileName   string
	UploadedAt time.Time
	Prepared   *pipeline.Prepared
	Result     *pipeline.Result
}

// Evaluator recomputes a result for another level
type Evaluator interface {
	Evaluate(p *pipeline.Prepared, level kpi.Level, threshold float64) (*pipeline.Result, error)
}

// Store keeps a single Session behind a lock
type Store struct {
	mu      sync.RWMutex
	current *Session
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{}
}

// Replace discards whatever was held and installs s
func (st *Store) Replace(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = s
}

// Current returns the held session, or core.ErrNoSession
func (st *Store) Current() (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return nil, core.ErrNoSession
	}
	return st.current, nil
}

// Clear drops the held session
func (st *Store) Clear() {
	st.Replace(nil)
}

// AtLevel returns the held result for level, re-evaluating the held
// summaries when the level differs. The new result replaces the old one
// only if no upload happened in between.
func (st *Store) AtLevel(level kpi.Level, ev Evaluator) (*pipeline.Result, error) {
	s, err := st.Current()
	if err != nil {
		return nil, err
	}
	if s.Result.Level == level {
		return s.Result, nil
	}

	result, err := ev.Evaluate(s.Prepared, level, s.Result.Threshold)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current == s {
		updated := *s
		updated.Result = result
		st.current = &updated
	}
	return result, nil
}
