// SPDX-License-Identifier: MIT

package arnoldi

import (
	"context"
	"time"
)

// Scalar is the working arithmetic of a solver instantiation.
type Scalar interface {
	float64 | complex128
}

// Operator is the single capability the solver consumes: apply the (possibly
// stochastic) linear operator to v, spending budget samples. Deterministic
// operators ignore budget. Apply is synchronous and must not retain v.
type Operator[T Scalar] interface {
	Apply(v []T, budget int) ([]T, error)
}

// OperatorFunc adapts a plain function to Operator.
type OperatorFunc[T Scalar] func(v []T, budget int) ([]T, error)

// Apply calls f(v, budget).
func (f OperatorFunc[T]) Apply(v []T, budget int) ([]T, error) { return f(v, budget) }

// BudgetPolicy converts the latest residual estimate into the sample budget of
// the next operator application.
type BudgetPolicy interface {
	Budget(residual float64) int
	Base() int
}

// Observer receives one report per completed restart. Observers run on the
// solver goroutine and must not call back into the solver.
type Observer interface {
	ObserveRestart(RestartReport)
}

// IterationObserver is an optional extension of Observer for per-iteration reports.
type IterationObserver interface {
	ObserveIteration(IterationReport)
}

// Eigensolver is the shared surface of the real and complex instantiations.
// Run blocks until a terminal status or an error; State stays queryable afterwards.
type Eigensolver[T Scalar] interface {
	Run(ctx context.Context, start []T) error
	State() *RunState
}

// Method selects the restart discipline.
type Method int

const (
	// Implicit restarts with shifted-QR steps on H (exact shifts).
	Implicit Method = iota
	// Explicit restarts from a combination of dominant Ritz vectors.
	Explicit
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Implicit:
		return "implicit"
	case Explicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Weighting selects how explicit restarts combine Ritz vectors.
type Weighting int

const (
	// Unweighted sums the NumWanted dominant Ritz vectors.
	Unweighted Weighting = iota
	// MagnitudeWeighted scales each Ritz vector by |Ritz value|.
	MagnitudeWeighted
)

// Status is the solver state machine position.
type Status int

const (
	StatusIdle Status = iota
	StatusBuilding
	StatusComputing
	StatusRestarting
	StatusConverged
	StatusMaxRestarts
	StatusAborted
)

var statusNames = [...]string{"idle", "building", "computing", "restarting", "converged", "max-restarts", "aborted"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}

	return statusNames[s]
}

// Terminal reports whether s ends a run.
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusMaxRestarts || s == StatusAborted
}

// RestartReport summarizes one completed restart.
// RitzValues and RitzVectors are in ascending (real, imag) order: the dominant pair is last.
type RestartReport struct {
	Restart           int // global index, inactive restarts first
	Active            bool
	Iterations        int // Krylov columns in the factorization
	RitzValues        []complex128
	RitzVectors       [][]complex128 // unit 2-norm, length = operator dimension
	Residual          float64
	Histories         int64 // samples spent in this restart
	TotalHistories    int64 // cumulative within the phase (active or inactive)
	Elapsed           time.Duration
	InvariantSubspace bool
}

// Dominant returns the dominant Ritz value and vector of the report. The
// vector is nil when the report carries no matching Ritz vector.
func (r RestartReport) Dominant() (complex128, []complex128) {
	if len(r.RitzValues) == 0 {
		return 0, nil
	}
	last := len(r.RitzValues) - 1
	if last >= len(r.RitzVectors) {
		return r.RitzValues[last], nil
	}

	return r.RitzValues[last], r.RitzVectors[last]
}

// clone deep-copies the Ritz data of r.
func (r RestartReport) clone() RestartReport {
	r.RitzValues = append([]complex128(nil), r.RitzValues...)
	r.RitzVectors = copyVectors(r.RitzVectors)

	return r
}

// IterationReport summarizes one Arnoldi step.
type IterationReport struct {
	Restart        int
	Iteration      int // index k of the newest Krylov column
	Active         bool
	Beta           float64 // subdiagonal norm H(k, k-1)
	Budget         int     // samples spent on this step's operator application
	Relaxed        bool    // a BudgetPolicy may shrink active budgets
	TotalHistories int64   // cumulative within the phase
	Residual       float64
	Dominant       complex128
	DominantVector []complex128
	Elapsed        time.Duration
}
