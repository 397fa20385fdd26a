// SPDX-License-Identifier: MIT

package convergence_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
	"github.com/katalvlaran/mcarnoldi/convergence"
	"github.com/katalvlaran/mcarnoldi/eigen"
	"github.com/katalvlaran/mcarnoldi/stochastic"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

// report builds a two-pair restart report whose dominant pair is (value, vec).
func report(restart int, active bool, value complex128, vec []complex128, elapsed time.Duration) arnoldi.RestartReport {
	other := make([]complex128, len(vec))
	return arnoldi.RestartReport{
		Restart:     restart,
		Active:      active,
		RitzValues:  []complex128{value / 2, value},
		RitzVectors: [][]complex128{other, vec},
		Elapsed:     elapsed,
	}
}

func TestShannonEntropy(t *testing.T) {
	require.InDelta(t, math.Log(4), convergence.ShannonEntropy([]float64{1, -1, 1, -1}), 1e-12)
	require.Zero(t, convergence.ShannonEntropy([]float64{0, 3, 0}))
	require.Zero(t, convergence.ShannonEntropy([]float64{0, 0}))
	require.Zero(t, convergence.ShannonEntropy([]float64{1, 1e-16}))
}

func TestFigureOfMerit(t *testing.T) {
	require.InDelta(t, 50.0, convergence.FigureOfMerit(0.1, 2*time.Second), 1e-9)
	require.Zero(t, convergence.FigureOfMerit(0, time.Second))
	require.Zero(t, convergence.FigureOfMerit(0.1, 0))
}

func TestSignCorrect(t *testing.T) {
	v := []complex128{1, 2}
	require.Equal(t, []complex128{-1, -2}, convergence.SignCorrect(v, []complex128{-1, -1}))
	require.Equal(t, []complex128{1, 2}, convergence.SignCorrect(v, []complex128{1, 0}))
	require.Equal(t, []complex128{1, 2}, convergence.SignCorrect(v, []complex128{0, 0}))
	require.Equal(t, []complex128{1, 2}, v, "input must not be modified")
}

// TestSignCorrectionIdempotence: v then −v accumulates exactly like v then v.
func TestSignCorrectionIdempotence(t *testing.T) {
	v := []complex128{0.6, -0.8, 0}
	neg := []complex128{-0.6, 0.8, 0}

	same := convergence.NewTracker(convergence.DefaultTrackerOptions())
	same.ObserveRestart(report(0, true, 3, v, time.Second))
	same.ObserveRestart(report(1, true, 3, v, 2*time.Second))

	flipped := convergence.NewTracker(convergence.DefaultTrackerOptions())
	flipped.ObserveRestart(report(0, true, 3, v, time.Second))
	flipped.ObserveRestart(report(1, true, 3, neg, 2*time.Second))

	require.Empty(t, cmp.Diff(same.MeanVector(0), flipped.MeanVector(0)))
	require.Empty(t, cmp.Diff(same.StdDevVector(0), flipped.StdDevVector(0)))
	require.Empty(t, cmp.Diff(v, flipped.MeanVector(0), approx))
	require.Empty(t, cmp.Diff([]complex128{0, 0, 0}, flipped.StdDevVector(0), approx))

	est := flipped.VectorEstimates(0, false)
	require.Len(t, est, 2)
	require.Empty(t, cmp.Diff(v, est[1], approx))
}

func TestValueStatisticsAndFOM(t *testing.T) {
	tr := convergence.NewTracker(convergence.DefaultTrackerOptions())
	vec := []complex128{1, 1}
	tr.ObserveRestart(report(0, false, 100, vec, time.Second))
	tr.ObserveRestart(report(1, true, 1, vec, time.Second))
	tr.ObserveRestart(report(2, true, 2, vec, 2*time.Second))
	tr.ObserveRestart(report(3, true, 3, vec, 3*time.Second))

	require.Equal(t, []complex128{1, 2, 3}, tr.ValueEstimates(0, false))
	require.Equal(t, []complex128{100, 1, 2, 3}, tr.ValueEstimates(0, true))
	require.Equal(t, []complex128{0.5, 1, 1.5}, tr.ValueEstimates(1, false))
	require.Equal(t, []complex128{50, 0.5, 1, 1.5}, tr.ValueEstimates(1, true))
	require.Nil(t, tr.ValueEstimates(2, true))

	require.Empty(t, cmp.Diff([]complex128{1, 1.5, 2}, tr.MeanValues(0, false), approx))
	require.Empty(t, cmp.Diff([]complex128{100, 1, 1.5, 2}, tr.MeanValues(0, true), approx))

	sd := tr.StdDevValues(0, true)
	require.Len(t, sd, 4)
	require.Zero(t, sd[0])
	require.Zero(t, sd[1])
	require.InDelta(t, math.Sqrt(0.125), real(sd[2]), 1e-12)
	require.InDelta(t, math.Sqrt(2.0/9), real(sd[3]), 1e-12)
	require.Zero(t, imag(sd[3]))

	mean, stddev, ok := tr.Value(0)
	require.True(t, ok)
	require.InDelta(t, 2.0, real(mean), 1e-12)
	require.InDelta(t, math.Sqrt(2.0/9), real(stddev), 1e-12)
	_, _, ok = tr.Value(5)
	require.False(t, ok)

	fom := tr.FOM()
	require.Len(t, fom, 3)
	require.Zero(t, fom[0])
	require.InDelta(t, 4.0, fom[1], 1e-9)
	require.InDelta(t, 1.5, fom[2], 1e-9)

	require.Len(t, tr.EntropyByRestart(true), 4)
	require.InDelta(t, math.Log(2), tr.EntropyByRestart(false)[0], 1e-12)
}

func TestIncludeInactiveFeedsStatistics(t *testing.T) {
	opts := convergence.DefaultTrackerOptions()
	opts.IncludeInactive = true
	tr := convergence.NewTracker(opts)
	vec := []complex128{1, 0}
	tr.ObserveRestart(report(0, false, 100, vec, time.Second))
	tr.ObserveRestart(report(1, true, 2, vec, time.Second))

	require.Empty(t, cmp.Diff([]complex128{100, 51}, tr.MeanValues(0, false), approx))
	require.Empty(t, cmp.Diff([]complex128{100, 51}, tr.MeanValues(0, true), approx))
}

// TestTrackerFollowsSolver observes the deterministic 5×5 run twice.
func TestTrackerFollowsSolver(t *testing.T) {
	a := [][]float64{
		{1, 0, 0, 0, 0},
		{0, 2, 0, 0, 0},
		{0, 1, 3, 0, 0},
		{0, 0, 0, 4, 0},
		{0, 0, 0, 0, 5},
	}
	op := arnoldi.OperatorFunc[float64](func(v []float64, _ int) ([]float64, error) {
		out := make([]float64, len(v))
		for i := range a {
			for j := range a[i] {
				out[i] += a[i][j] * v[j]
			}
		}
		return out, nil
	})
	tr := convergence.NewTracker(convergence.DefaultTrackerOptions())
	opts := arnoldi.DefaultOptions()
	opts.NumWanted = 2
	opts.IterationsPerRestart = 4
	opts.ActiveRestarts = 5
	opts.Observers = []arnoldi.Observer{tr}
	solver, err := arnoldi.NewReal(op, eigen.Schur{}, eigen.Householder{}, opts)
	require.NoError(t, err)

	for run := 0; run < 2; run++ {
		require.NoError(t, solver.Run(context.Background(), []float64{1, 1, 1, 1, 1}))

		require.Len(t, tr.EntropyByRestart(true), 5)
		require.Len(t, tr.Entropy(true), 4+4*2)
		require.Len(t, tr.MeanValues(0, false), 5)
		require.Len(t, tr.FOM(), 5)
		require.Empty(t, tr.FOMByIteration(), "unrelaxed runs keep no per-iteration FOM")

		ent := tr.EntropyByRestart(false)
		require.Less(t, ent[len(ent)-1], 1e-4)
		est := tr.ValueEstimates(0, false)
		require.InDelta(t, 5.0, real(est[len(est)-1]), 1e-6)
		mean := tr.MeanVector(0)
		require.Len(t, mean, 5)
		require.Greater(t, math.Abs(real(mean[4])), 0.8)
	}

	opts.Relaxation = stochastic.Relaxation{BaseHistories: 100, Tolerance: 1, Rule: stochastic.Quadratic}
	relaxed, err := arnoldi.NewReal(op, eigen.Schur{}, eigen.Householder{}, opts)
	require.NoError(t, err)
	require.NoError(t, relaxed.Run(context.Background(), []float64{1, 1, 1, 1, 1}))
	require.Len(t, tr.FOMByIteration(), 4+4*2)
	require.Len(t, tr.ValueEstimates(3, false), 5, "untracked indices keep raw estimates")
}
