// SPDX-License-Identifier: MIT

package arnoldi_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
	"github.com/katalvlaran/mcarnoldi/eigen"
	"github.com/katalvlaran/mcarnoldi/matrix"
)

// SolverSuite runs the restarted solvers against deterministic operators.
type SolverSuite struct {
	suite.Suite
	ctx  context.Context
	opts arnoldi.Options
}

func (s *SolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.opts = arnoldi.DefaultOptions()
	s.opts.NumWanted = 2
	s.opts.IterationsPerRestart = 4
	s.opts.ActiveRestarts = 5
	s.opts.ResidualTolerance = 1e-12
	s.opts.InvarianceTolerance = 1e-14
}

func (s *SolverSuite) newReal(op arnoldi.Operator[float64], dec eigen.Decomposer) *arnoldi.RealSolver {
	solver, err := arnoldi.NewReal(op, dec, eigen.Householder{}, s.opts)
	require.NoError(s.T(), err)

	return solver
}

// TestImplicitFindsDominant: 5×5, n=2, m=4, five restarts => λ = 5 ± 1e-6.
func (s *SolverSuite) TestImplicitFindsDominant() {
	for name, dec := range map[string]eigen.Decomposer{"schur": eigen.Schur{}, "gonum": eigen.Gonum{}} {
		s.Run(name, func() {
			op := &denseOperator{a: fivebyfive()}
			state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, s.newReal(op, dec), ones(5))
			require.NoError(s.T(), err)

			st := state.Status()
			require.True(s.T(), st == arnoldi.StatusConverged || st == arnoldi.StatusMaxRestarts, "status %s", st)
			val, vec, ok := state.Ritz(0)
			require.True(s.T(), ok)
			require.InDelta(s.T(), 5.0, real(val), 1e-6)
			require.InDelta(s.T(), 0.0, imag(val), 1e-9)
			require.Less(s.T(), state.Residual(), 1e-6)
			require.InDelta(s.T(), 1.0, matrix.CNorm2(vec), 1e-12)

			// The true dominant eigenvector is e4.
			require.InDelta(s.T(), 1.0, cmplx.Abs(vec[4]), 1e-6)

			res := state.Residuals(true)
			require.Len(s.T(), res, 5)
			for i := 1; i < len(res); i++ {
				require.LessOrEqual(s.T(), res[i], res[i-1], "residual grew at restart %d", i)
			}
		})
	}
}

// TestExplicitFindsDominant: the same scenario restarted from summed Ritz vectors.
func (s *SolverSuite) TestExplicitFindsDominant() {
	s.opts.Method = arnoldi.Explicit
	for name, dec := range map[string]eigen.Decomposer{"schur": eigen.Schur{}, "gonum": eigen.Gonum{}} {
		s.Run(name, func() {
			op := &denseOperator{a: fivebyfive()}
			solver := s.newReal(op, dec)
			require.NoError(s.T(), solver.Run(s.ctx, ones(5)))

			state := solver.State()
			st := state.Status()
			require.True(s.T(), st == arnoldi.StatusConverged || st == arnoldi.StatusMaxRestarts, "status %s", st)
			val, _, ok := state.Ritz(0)
			require.True(s.T(), ok)
			require.InDelta(s.T(), 5.0, real(val), 1e-6)
			require.Less(s.T(), state.Residual(), 1e-2)

			// Every explicit restart starts over: one start apply plus m−1 steps.
			require.Equal(s.T(), 5*4, op.calls())
		})
	}
}

// TestImplicitReusesFactorization: only the first restart pays for the start vector.
func (s *SolverSuite) TestImplicitReusesFactorization() {
	op := &denseOperator{a: fivebyfive()}
	require.NoError(s.T(), s.newReal(op, eigen.Schur{}).Run(s.ctx, ones(5)))

	// 4 applications to build the first factorization, then m−n = 2 per restart.
	require.Equal(s.T(), 4+4*2, op.calls())
}

// TestFactorizationInvariants checks the Hessenberg shape and orthonormal basis after every step.
func (s *SolverSuite) TestFactorizationInvariants() {
	const dim = 12
	a := make([][]float64, dim)
	for i := range a {
		a[i] = make([]float64, dim)
		for j := range a[i] {
			a[i][j] = math.Sin(float64(3*i+7*j+1)) / float64(1+abs(i-j))
		}
		a[i][i] += float64(i + 1)
	}
	s.opts.IterationsPerRestart = 6
	s.opts.ActiveRestarts = 4
	solver := s.newReal(&denseOperator{a: a}, eigen.Schur{})

	var steps int
	arnoldi.InspectReal(solver, func(snap arnoldi.Snapshot) {
		steps++
		k := len(snap.H)
		require.Equal(s.T(), snap.K+1, k)
		for i := 0; i < k; i++ {
			for j := 0; j+1 < i; j++ {
				require.Zero(s.T(), snap.H[i][j], "H(%d,%d) below the subdiagonal", i, j)
			}
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				var d float64
				for r := 0; r < dim; r++ {
					d += snap.Basis[i][r] * snap.Basis[j][r]
				}
				want := 0.0
				if i == j {
					want = 1
				}
				require.InDelta(s.T(), want, d, 1e-10, "V(:,%d)·V(:,%d)", i, j)
			}
		}
	})

	start := make([]float64, dim)
	for i := range start {
		start[i] = 1 + 0.1*float64(i)
	}
	require.NoError(s.T(), solver.Run(s.ctx, start))
	require.Positive(s.T(), steps)

	h, err := matrix.NewDenseFrom(arnoldi.FullHessenberg(solver))
	require.NoError(s.T(), err)
	require.True(s.T(), matrix.IsUpperHessenberg(h, 0))
}

// TestInvariantSubspace: a start vector in span{e0, e1} of a diagonal operator is invariant after two columns.
func (s *SolverSuite) TestInvariantSubspace() {
	a := fivebyfive()
	a[2][1] = 0
	rec := &recorder{}
	s.opts.Observers = []arnoldi.Observer{rec}
	op := &denseOperator{a: a}

	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, s.newReal(op, eigen.Schur{}), []float64{1, 1, 0, 0, 0})
	require.NoError(s.T(), err)
	require.Equal(s.T(), arnoldi.StatusConverged, state.Status())
	require.True(s.T(), state.InvariantSubspace())
	require.Equal(s.T(), 2, op.calls())

	vals := state.RitzValues()
	require.Len(s.T(), vals, 2)
	require.InDelta(s.T(), 1.0, real(vals[0]), 1e-12)
	require.InDelta(s.T(), 2.0, real(vals[1]), 1e-12)

	require.Len(s.T(), rec.restarts, 1)
	require.True(s.T(), rec.restarts[0].InvariantSubspace)
}

// TestRelaxedBudgets tracks budgets and per-phase histories with a relaxation policy.
func (s *SolverSuite) TestRelaxedBudgets() {
	rec := &recorder{}
	s.opts.InactiveRestarts = 1
	s.opts.ActiveRestarts = 2
	s.opts.BaseHistories = 7 // ignored once a policy is set
	s.opts.Relaxation = fixedPolicy{base: 100, relaxed: 0}
	s.opts.Observers = []arnoldi.Observer{rec}
	op := &denseOperator{a: fivebyfive()}

	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, s.newReal(op, eigen.Schur{}), ones(5))
	require.NoError(s.T(), err)
	require.Equal(s.T(), arnoldi.StatusMaxRestarts, state.Status())

	// Inactive restarts never relax; active ones clamp a zero budget to one sample.
	require.Equal(s.T(), []int{100, 100, 100, 100, 100, 1, 100, 1}, op.budgets)
	require.Equal(s.T(), []int64{101, 202}, state.Histories(false))
	require.Equal(s.T(), []int64{400, 101, 202}, state.Histories(true))
	require.Equal(s.T(), []int64{100, 101, 201, 202}, state.HistoriesByIteration(false))
	require.Equal(s.T(), []int64{100, 200, 300, 400, 100, 101, 201, 202}, state.HistoriesByIteration(true))
	require.Len(s.T(), state.Residuals(false), 2)
	require.Len(s.T(), state.Residuals(true), 3)
	require.Len(s.T(), state.Elapsed(true), 3)

	require.Len(s.T(), rec.restarts, 3)
	require.False(s.T(), rec.restarts[0].Active)
	require.True(s.T(), rec.restarts[1].Active)
	require.Equal(s.T(), int64(400), rec.restarts[0].Histories)
	require.Equal(s.T(), int64(202), rec.restarts[2].TotalHistories)

	require.Len(s.T(), rec.iterations, 8)
	budgets := make([]int, 0, len(rec.iterations))
	for _, it := range rec.iterations {
		budgets = append(budgets, it.Budget)
	}
	require.Equal(s.T(), op.budgets, budgets)
}

// TestConfigurationRejectedBeforeApply: invalid options never touch the operator.
func (s *SolverSuite) TestConfigurationRejectedBeforeApply() {
	s.opts.IterationsPerRestart = s.opts.NumWanted
	op := &denseOperator{a: fivebyfive()}
	solver := s.newReal(op, eigen.Schur{})

	err := solver.Run(s.ctx, ones(5))
	require.ErrorIs(s.T(), err, arnoldi.ErrConfiguration)
	require.Zero(s.T(), op.calls())
	require.Equal(s.T(), arnoldi.StatusIdle, solver.State().Status())
}

// TestDegenerateStartVector rejects zero and empty start vectors.
func (s *SolverSuite) TestDegenerateStartVector() {
	op := &denseOperator{a: fivebyfive()}
	solver := s.newReal(op, eigen.Schur{})

	require.ErrorIs(s.T(), solver.Run(s.ctx, make([]float64, 5)), arnoldi.ErrDegenerateStartVector)
	require.ErrorIs(s.T(), solver.Run(s.ctx, nil), arnoldi.ErrDegenerateStartVector)
	require.Zero(s.T(), op.calls())
}

// TestOperatorFailureAborts: the first failure is fatal and never retried.
func (s *SolverSuite) TestOperatorFailureAborts() {
	op := &denseOperator{a: fivebyfive(), failAt: 3, err: errTransport}
	solver := s.newReal(op, eigen.Schur{})

	err := solver.Run(s.ctx, ones(5))
	require.ErrorIs(s.T(), err, arnoldi.ErrStochasticOperator)
	require.ErrorIs(s.T(), err, errTransport)
	require.Equal(s.T(), 3, op.calls())

	state := solver.State()
	require.Equal(s.T(), arnoldi.StatusAborted, state.Status())
	require.ErrorIs(s.T(), state.Err(), errTransport)
}

// TestOperatorLengthMismatch: a result of the wrong length is an operator failure.
func (s *SolverSuite) TestOperatorLengthMismatch() {
	op := arnoldi.OperatorFunc[float64](func(v []float64, _ int) ([]float64, error) {
		return v[:len(v)-1], nil
	})
	err := s.newReal(op, eigen.Schur{}).Run(s.ctx, ones(5))
	require.ErrorIs(s.T(), err, arnoldi.ErrStochasticOperator)
	require.ErrorIs(s.T(), err, matrix.ErrDimensionMismatch)
}

// TestCancelledContext: cancellation is observed at restart boundaries.
func (s *SolverSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	op := &denseOperator{a: fivebyfive()}
	solver := s.newReal(op, eigen.Schur{})

	err := solver.Run(ctx, ones(5))
	require.ErrorIs(s.T(), err, context.Canceled)
	require.Zero(s.T(), op.calls())
	require.Equal(s.T(), arnoldi.StatusAborted, solver.State().Status())
}

// TestCancelledMidRun stops after the restart during which the context was cancelled.
func (s *SolverSuite) TestCancelledMidRun() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	op := &denseOperator{a: fivebyfive()}
	calls := 0
	wrapped := arnoldi.OperatorFunc[float64](func(v []float64, budget int) ([]float64, error) {
		calls++
		if calls == 4 {
			cancel()
		}
		return op.Apply(v, budget)
	})

	state, err := arnoldi.RunRestartedArnoldi[float64](ctx, s.newReal(wrapped, eigen.Schur{}), ones(5))
	require.ErrorIs(s.T(), err, context.Canceled)
	require.Len(s.T(), state.Reports(), 1)
	require.Equal(s.T(), 4, calls)
}

// TestRestartLogging emits one info line per restart.
func (s *SolverSuite) TestRestartLogging() {
	core, logs := observer.New(zap.InfoLevel)
	s.opts.Logger = zap.New(core)
	require.NoError(s.T(), s.newReal(&denseOperator{a: fivebyfive()}, eigen.Schur{}).Run(s.ctx, ones(5)))

	entries := logs.FilterMessage("Restart completed").All()
	require.Len(s.T(), entries, 5)
	require.EqualValues(s.T(), 4, entries[4].ContextMap()["restart"])
}

// TestComplexSolver finds the dominant pair of a complex non-normal operator.
func (s *SolverSuite) TestComplexSolver() {
	s.opts.ActiveRestarts = 6
	op := &complexOperator{a: complexFivebyfive()}
	solver, err := arnoldi.NewComplex(op, eigen.Schur{}, eigen.Householder{}, s.opts)
	require.NoError(s.T(), err)

	start := []complex128{1, 1, 1, 1, 1}
	state, err := arnoldi.RunRestartedArnoldi[complex128](s.ctx, solver, start)
	require.NoError(s.T(), err)

	val, vec, ok := state.Ritz(0)
	require.True(s.T(), ok)
	require.InDelta(s.T(), 0.0, cmplx.Abs(val-5), 1e-6)
	require.Less(s.T(), state.Residual(), 1e-5)
	require.InDelta(s.T(), 1.0, cmplx.Abs(vec[4]), 1e-5)
}

// TestNilCollaborators are rejected at construction.
func (s *SolverSuite) TestNilCollaborators() {
	_, err := arnoldi.NewReal(nil, eigen.Schur{}, eigen.Householder{}, s.opts)
	require.ErrorIs(s.T(), err, arnoldi.ErrNilOperator)
	_, err = arnoldi.NewReal(&denseOperator{}, nil, eigen.Householder{}, s.opts)
	require.ErrorIs(s.T(), err, arnoldi.ErrNilOperator)
	_, err = arnoldi.NewComplex(&complexOperator{}, eigen.Schur{}, nil, s.opts)
	require.ErrorIs(s.T(), err, arnoldi.ErrNilOperator)
}

// TestDecomposerFailureAborts: a failed eigen-decomposition of H ends the run before any report.
func (s *SolverSuite) TestDecomposerFailureAborts() {
	rec := &recorder{}
	s.opts.Observers = []arnoldi.Observer{rec}
	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, s.newReal(&denseOperator{a: fivebyfive()}, brokenDecomposer{}), ones(5))

	require.ErrorIs(s.T(), err, arnoldi.ErrExternalSolver)
	require.ErrorIs(s.T(), err, errDense)
	require.Equal(s.T(), arnoldi.StatusAborted, state.Status())
	require.ErrorIs(s.T(), state.Err(), arnoldi.ErrExternalSolver)
	require.Empty(s.T(), rec.restarts)
	require.Empty(s.T(), state.Reports())
}

// TestFactorizerFailureAborts: the first implicit restart needs QR, so exactly one restart is reported.
func (s *SolverSuite) TestFactorizerFailureAborts() {
	rec := &recorder{}
	s.opts.Observers = []arnoldi.Observer{rec}
	solver, err := arnoldi.NewReal(&denseOperator{a: fivebyfive()}, eigen.Schur{}, brokenFactorizer{}, s.opts)
	require.NoError(s.T(), err)

	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, solver, ones(5))
	require.ErrorIs(s.T(), err, arnoldi.ErrExternalSolver)
	require.ErrorIs(s.T(), err, errDense)
	require.Equal(s.T(), arnoldi.StatusAborted, state.Status())
	require.Len(s.T(), state.Reports(), 1)
	require.Len(s.T(), rec.restarts, 1)
}

// TestImplicitDoubleShift: the unwanted Ritz values come in conjugate pairs, so real
// arithmetic filters them with double shifts while H stays upper Hessenberg.
func (s *SolverSuite) TestImplicitDoubleShift() {
	s.opts.IterationsPerRestart = 5
	s.opts.ActiveRestarts = 12
	rec := &recorder{}
	s.opts.Observers = []arnoldi.Observer{rec}
	solver := s.newReal(&denseOperator{a: conjugateSixBySix()}, eigen.Schur{})

	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, solver, ones(6))
	require.NoError(s.T(), err)
	require.Equal(s.T(), arnoldi.StatusConverged, state.Status())

	val, _, ok := state.Ritz(0)
	require.True(s.T(), ok)
	require.InDelta(s.T(), 10.0, real(val), 1e-9)
	require.InDelta(s.T(), 0.0, imag(val), 1e-9)
	next, _, ok := state.Ritz(1)
	require.True(s.T(), ok)
	require.InDelta(s.T(), 8.0, real(next), 1e-6)

	// The first restart already sees a complex-conjugate pair among the shifts.
	first := rec.restarts[0].RitzValues
	require.Greater(s.T(), math.Abs(imag(first[0])), 1.0)
	require.InDelta(s.T(), 0.0, cmplx.Abs(first[1]-cmplx.Conj(first[0])), 1e-9)

	res := state.Residuals(false)
	require.Greater(s.T(), len(res), 2)
	for i := 1; i < len(res); i++ {
		require.LessOrEqual(s.T(), res[i], res[i-1], "residual grew at restart %d", i)
	}

	h, err := matrix.NewDenseFrom(arnoldi.FullHessenberg(solver))
	require.NoError(s.T(), err)
	require.NoError(s.T(), matrix.ValidateHessenberg(h, 0))
}

// TestReportsAreCopies: mutating returned or observed reports leaves the run state intact.
func (s *SolverSuite) TestReportsAreCopies() {
	rec := &recorder{}
	s.opts.Observers = []arnoldi.Observer{rec}
	state, err := arnoldi.RunRestartedArnoldi[float64](s.ctx, s.newReal(&denseOperator{a: fivebyfive()}, eigen.Schur{}), ones(5))
	require.NoError(s.T(), err)

	want := state.Reports()
	wantVal := want[0].RitzValues[0]
	wantComp := want[0].RitzVectors[0][0]

	got := state.Reports()
	got[0].RitzValues[0] = 42
	got[0].RitzVectors[0][0] = 42
	rec.restarts[0].RitzValues[0] = 42
	rec.restarts[0].RitzVectors[0][0] = 42

	again := state.Reports()
	require.Equal(s.T(), wantVal, again[0].RitzValues[0])
	require.Equal(s.T(), wantComp, again[0].RitzVectors[0][0])
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
