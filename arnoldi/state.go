// SPDX-License-Identifier: MIT

package arnoldi

import (
	"sync"
	"time"

	"github.com/katalvlaran/mcarnoldi/matrix"
)

// phaseSeries keeps one bookkeeping series split by phase.
type phaseSeries[E any] struct {
	inactive []E
	active   []E
}

func (p *phaseSeries[E]) add(active bool, v E) {
	if active {
		p.active = append(p.active, v)
		return
	}
	p.inactive = append(p.inactive, v)
}

// get returns the active series, prefixed with the inactive one when asked.
func (p *phaseSeries[E]) get(includeInactive bool) []E {
	out := make([]E, 0, len(p.inactive)+len(p.active))
	if includeInactive {
		out = append(out, p.inactive...)
	}

	return append(out, p.active...)
}

func (p *phaseSeries[E]) last(active bool) (E, bool) {
	var zero E
	s := p.inactive
	if active {
		s = p.active
	}
	if len(s) == 0 {
		return zero, false
	}

	return s[len(s)-1], true
}

// RunState is the queryable outcome of a run. A single solver goroutine writes
// it; every accessor returns copies and is safe to call concurrently.
type RunState struct {
	mu sync.RWMutex

	status    Status
	restart   int
	iteration int
	invariant bool
	err       error

	eig *eigenpairs

	residuals     phaseSeries[float64]
	histories     phaseSeries[int64] // cumulative per restart
	iterHistories phaseSeries[int64] // cumulative per iteration
	elapsed       phaseSeries[time.Duration]
	reports       []RestartReport
}

func newRunState() *RunState { return &RunState{status: StatusIdle} }

func (s *RunState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusIdle
	s.restart, s.iteration = 0, 0
	s.invariant = false
	s.err = nil
	s.eig = nil
	s.residuals = phaseSeries[float64]{}
	s.histories = phaseSeries[int64]{}
	s.iterHistories = phaseSeries[int64]{}
	s.elapsed = phaseSeries[time.Duration]{}
	s.reports = nil
}

func (s *RunState) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *RunState) fail(st Status, err error) {
	s.mu.Lock()
	s.status = st
	s.err = err
	s.mu.Unlock()
}

func (s *RunState) setPosition(restart, iteration int) {
	s.mu.Lock()
	s.restart, s.iteration = restart, iteration
	s.mu.Unlock()
}

// recordIteration appends the per-iteration budget to the cumulative series and returns the new total.
func (s *RunState) recordIteration(active bool, budget int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, _ := s.iterHistories.last(active)
	total := prev + int64(budget)
	s.iterHistories.add(active, total)

	return total
}

// recordRestart stores the snapshot and bookkeeping of a completed restart.
func (s *RunState) recordRestart(rep RestartReport, eig *eigenpairs) RestartReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, _ := s.histories.last(rep.Active)
	rep.TotalHistories = prev + rep.Histories
	s.eig = eig
	s.invariant = rep.InvariantSubspace
	s.residuals.add(rep.Active, rep.Residual)
	s.histories.add(rep.Active, rep.TotalHistories)
	s.elapsed.add(rep.Active, rep.Elapsed)
	s.reports = append(s.reports, rep)

	return rep
}

// Status returns the state-machine position.
func (s *RunState) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error that aborted the run, if any.
func (s *RunState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Restart returns the global index of the current (or last) restart.
func (s *RunState) Restart() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restart
}

// Iteration returns the index of the newest Krylov column.
func (s *RunState) Iteration() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iteration
}

// InvariantSubspace reports whether the last restart ended on an invariant Krylov subspace.
func (s *RunState) InvariantSubspace() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invariant
}

// Eigenvalues returns the eigenvalues of the last H, ascending by (real, imag).
func (s *RunState) Eigenvalues() []complex128 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil {
		return nil
	}
	return append([]complex128(nil), s.eig.values...)
}

// Eigenvectors returns the unit eigenvectors of the last H, one column per eigenvalue.
func (s *RunState) Eigenvectors() *matrix.CDense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil {
		return nil
	}
	return s.eig.vectors.Clone()
}

// RitzValues returns the current Ritz values, ascending by (real, imag).
func (s *RunState) RitzValues() []complex128 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil {
		return nil
	}
	return append([]complex128(nil), s.eig.ritzValues...)
}

// RitzVectors returns copies of the current unit Ritz vectors, same order as RitzValues.
func (s *RunState) RitzVectors() [][]complex128 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil {
		return nil
	}
	return copyVectors(s.eig.ritzVectors)
}

// Ritz returns the index-th Ritz pair counted from the dominant one (index 0).
func (s *RunState) Ritz(index int) (complex128, []complex128, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil || index < 0 || index >= len(s.eig.ritzValues) {
		return 0, nil, false
	}
	at := len(s.eig.ritzValues) - 1 - index
	return s.eig.ritzValues[at], append([]complex128(nil), s.eig.ritzVectors[at]...), true
}

// Residual returns the residual estimate of the last completed restart.
func (s *RunState) Residual() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.eig == nil {
		return 0
	}
	return s.eig.residual
}

// Residuals returns the per-restart residual history.
func (s *RunState) Residuals(includeInactive bool) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.residuals.get(includeInactive)
}

// Histories returns cumulative samples per restart, accumulated per phase.
func (s *RunState) Histories(includeInactive bool) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.histories.get(includeInactive)
}

// HistoriesByIteration returns cumulative samples per Arnoldi step, accumulated per phase.
func (s *RunState) HistoriesByIteration(includeInactive bool) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iterHistories.get(includeInactive)
}

// Elapsed returns the run time at the end of every restart.
func (s *RunState) Elapsed(includeInactive bool) []time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed.get(includeInactive)
}

// Reports returns every restart report in order.
func (s *RunState) Reports() []RestartReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RestartReport, len(s.reports))
	for i, rep := range s.reports {
		out[i] = rep.clone()
	}

	return out
}

func copyVectors(in [][]complex128) [][]complex128 {
	out := make([][]complex128, len(in))
	for i, v := range in {
		out[i] = append([]complex128(nil), v...)
	}

	return out
}
