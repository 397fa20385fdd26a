// SPDX-License-Identifier: MIT

package convergence

import (
	"sync"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
)

// Default tracked indices.
const (
	DefaultTrackedValues  = 1
	DefaultTrackedVectors = 1
)

// TrackerOptions selects what a Tracker accumulates.
type TrackerOptions struct {
	// TrackedValues is the number of Ritz values (from the dominant one) with running statistics.
	TrackedValues int
	// TrackedVectors is the number of Ritz vectors (from the dominant one) with running statistics.
	TrackedVectors int
	// IncludeInactive feeds burn-in restarts into the running statistics as well.
	IncludeInactive bool
}

// DefaultTrackerOptions tracks the dominant pair over active restarts only.
func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{TrackedValues: DefaultTrackedValues, TrackedVectors: DefaultTrackedVectors}
}

// Tracker accumulates convergence statistics from solver reports.
// One goroutine (the solver) writes; queries may run concurrently.
//
// A Tracker follows one run at a time: the report of restart 0, iteration 0
// starts a new run and clears earlier data.
type Tracker struct {
	mu   sync.RWMutex
	opts TrackerOptions

	iterSeen bool

	values     []runningValue
	vectors    []runningVector
	valueMeans [][]complex128 // running mean after each accumulated restart, per index
	valueSDs   [][]complex128

	valueEst  []series[complex128]   // raw estimates of every reported index
	vectorEst []series[[]complex128] // raw estimates per index

	entropyRestart series[float64]
	entropyIter    series[float64]
	fomRestart     []float64
	fomIter        []float64
}

// NewTracker builds a tracker; non-positive counts fall back to the defaults.
func NewTracker(opts TrackerOptions) *Tracker {
	if opts.TrackedValues <= 0 {
		opts.TrackedValues = DefaultTrackedValues
	}
	if opts.TrackedVectors <= 0 {
		opts.TrackedVectors = DefaultTrackedVectors
	}
	t := &Tracker{opts: opts}
	t.resetLocked()

	return t
}

// Reset clears all accumulated data.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.resetLocked()
	t.mu.Unlock()
}

func (t *Tracker) resetLocked() {
	t.iterSeen = false
	t.values = make([]runningValue, t.opts.TrackedValues)
	t.vectors = make([]runningVector, t.opts.TrackedVectors)
	t.valueMeans = make([][]complex128, t.opts.TrackedValues)
	t.valueSDs = make([][]complex128, t.opts.TrackedValues)
	t.valueEst = nil
	t.vectorEst = make([]series[[]complex128], t.opts.TrackedVectors)
	t.entropyRestart = series[float64]{}
	t.entropyIter = series[float64]{}
	t.fomRestart = nil
	t.fomIter = nil
}

// ObserveRestart implements arnoldi.Observer.
func (t *Tracker) ObserveRestart(rep arnoldi.RestartReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rep.Restart == 0 && !t.iterSeen {
		t.resetLocked()
	}

	last := len(rep.RitzValues) - 1
	accumulate := rep.Active || t.opts.IncludeInactive
	for len(t.valueEst) <= last {
		t.valueEst = append(t.valueEst, series[complex128]{})
	}
	for i := 0; i <= last; i++ {
		t.valueEst[i].add(rep.Active, rep.RitzValues[last-i])
	}
	for i := range t.values {
		if last-i < 0 {
			break
		}
		v := rep.RitzValues[last-i]
		if accumulate {
			t.values[i].add(v)
			t.valueMeans[i] = append(t.valueMeans[i], t.values[i].mean())
			t.valueSDs[i] = append(t.valueSDs[i], t.values[i].stddev())
		}
	}
	for i := range t.vectors {
		if last-i < 0 || last-i >= len(rep.RitzVectors) {
			break
		}
		v := append([]complex128(nil), rep.RitzVectors[last-i]...)
		t.vectorEst[i].add(rep.Active, v)
		if accumulate {
			t.vectors[i].add(v)
		}
	}

	if _, dom := rep.Dominant(); dom != nil {
		t.entropyRestart.add(rep.Active, ShannonEntropy(realParts(dom)))
	}
	if rep.Active {
		t.fomRestart = append(t.fomRestart, t.fomLocked(rep.Elapsed.Seconds()))
	}
}

// ObserveIteration implements arnoldi.IterationObserver.
func (t *Tracker) ObserveIteration(rep arnoldi.IterationReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rep.Restart == 0 && rep.Iteration == 0 {
		t.resetLocked()
	}
	t.iterSeen = true
	t.entropyIter.add(rep.Active, ShannonEntropy(realParts(rep.DominantVector)))
	if rep.Active && rep.Relaxed {
		t.fomIter = append(t.fomIter, t.fomLocked(rep.Elapsed.Seconds()))
	}
}

// fomLocked is the figure of merit of the dominant value; 0 until two
// estimates have been accumulated.
func (t *Tracker) fomLocked(seconds float64) float64 {
	dom := &t.values[0]
	if dom.n < 2 || seconds <= 0 {
		return 0
	}
	sd := real(dom.stddev())
	if sd == 0 {
		return 0
	}

	return 1 / (sd * sd * seconds)
}

// Value returns the current running mean and standard deviation of the
// index-th Ritz value (0 = dominant); ok is false before any accumulation.
func (t *Tracker) Value(index int) (mean, stddev complex128, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.values) || t.values[index].n == 0 {
		return 0, 0, false
	}

	return t.values[index].mean(), t.values[index].stddev(), true
}

// MeanValues returns the running mean after every accumulated restart.
// With includeInactive, raw burn-in estimates are prepended (when they were
// not accumulated).
func (t *Tracker) MeanValues(index int, includeInactive bool) []complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.values) {
		return nil
	}
	var out []complex128
	if includeInactive && !t.opts.IncludeInactive {
		out = append(out, t.inactiveEstimates(index)...)
	}

	return append(out, t.valueMeans[index]...)
}

// StdDevValues returns the running standard deviation after every
// accumulated restart; prepended burn-in entries are 0.
func (t *Tracker) StdDevValues(index int, includeInactive bool) []complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.values) {
		return nil
	}
	var out []complex128
	if includeInactive && !t.opts.IncludeInactive {
		out = make([]complex128, len(t.inactiveEstimates(index)))
	}

	return append(out, t.valueSDs[index]...)
}

func (t *Tracker) inactiveEstimates(index int) []complex128 {
	if index >= len(t.valueEst) {
		return nil
	}

	return t.valueEst[index].inactive
}

// ValueEstimates returns the raw index-th Ritz value (0 = dominant) of every
// restart. Every reported index is kept, tracked or not.
func (t *Tracker) ValueEstimates(index int, includeInactive bool) []complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.valueEst) {
		return nil
	}

	return t.valueEst[index].get(includeInactive)
}

// MeanVector returns the running mean of the index-th Ritz vector.
func (t *Tracker) MeanVector(index int) []complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.vectors) {
		return nil
	}

	return t.vectors[index].mean()
}

// StdDevVector returns the per-component running standard deviation of the
// index-th Ritz vector.
func (t *Tracker) StdDevVector(index int) []complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.vectors) {
		return nil
	}

	return t.vectors[index].stddev()
}

// VectorEstimates returns every index-th Ritz vector estimate, sign-corrected
// against the current running mean.
func (t *Tracker) VectorEstimates(index int, includeInactive bool) [][]complex128 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.vectors) {
		return nil
	}
	ref := t.vectors[index].mean()
	raw := t.vectorEst[index].get(includeInactive)
	out := make([][]complex128, len(raw))
	for i, v := range raw {
		out[i] = SignCorrect(v, ref)
	}

	return out
}

// Entropy returns the per-iteration entropy of the dominant Ritz vector.
func (t *Tracker) Entropy(includeInactive bool) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entropyIter.get(includeInactive)
}

// EntropyByRestart returns the entropy of the dominant Ritz vector at the end of every restart.
func (t *Tracker) EntropyByRestart(includeInactive bool) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entropyRestart.get(includeInactive)
}

// FOM returns the figure of merit after every active restart.
func (t *Tracker) FOM() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]float64(nil), t.fomRestart...)
}

// FOMByIteration returns the figure of merit after every active Arnoldi
// iteration of a relaxed run; runs without a BudgetPolicy record none.
func (t *Tracker) FOMByIteration() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]float64(nil), t.fomIter...)
}

var (
	_ arnoldi.Observer          = (*Tracker)(nil)
	_ arnoldi.IterationObserver = (*Tracker)(nil)
)
