// SPDX-License-Identifier: MIT

package arnoldi_test

import (
	"errors"
	"sync"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
	"github.com/katalvlaran/mcarnoldi/eigen"
	"github.com/katalvlaran/mcarnoldi/matrix"
)

// denseOperator applies a fixed real matrix and records every budget it is handed.
type denseOperator struct {
	a       [][]float64
	budgets []int
	failAt  int // 1-based call that fails; 0 never fails
	err     error
}

func (d *denseOperator) Apply(v []float64, budget int) ([]float64, error) {
	d.budgets = append(d.budgets, budget)
	if d.failAt > 0 && len(d.budgets) == d.failAt {
		return nil, d.err
	}
	out := make([]float64, len(d.a))
	for i, row := range d.a {
		for j, x := range row {
			out[i] += x * v[j]
		}
	}

	return out, nil
}

func (d *denseOperator) calls() int { return len(d.budgets) }

// complexOperator applies a fixed complex matrix.
type complexOperator struct {
	a     [][]complex128
	count int
}

func (d *complexOperator) Apply(v []complex128, _ int) ([]complex128, error) {
	d.count++
	out := make([]complex128, len(d.a))
	for i, row := range d.a {
		for j, x := range row {
			out[i] += x * v[j]
		}
	}

	return out, nil
}

// fivebyfive is diag(1..5) with A[2][1] = 1; its spectrum is {1,2,3,4,5}.
func fivebyfive() [][]float64 {
	a := make([][]float64, 5)
	for i := range a {
		a[i] = make([]float64, 5)
		a[i][i] = float64(i + 1)
	}
	a[2][1] = 1

	return a
}

// complexFivebyfive is diag(1, 2+0.5i, 3, 4+0.5i, 5) with A[2][1] = i.
func complexFivebyfive() [][]complex128 {
	a := make([][]complex128, 5)
	for i := range a {
		a[i] = make([]complex128, 5)
		a[i][i] = complex(float64(i+1), 0.5*float64(i%2))
	}
	a[2][1] = 1i

	return a
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}

// conjugateSixBySix is block upper triangular with spectrum {10, 8, 1±3i, 2±2i}.
func conjugateSixBySix() [][]float64 {
	return [][]float64{
		{10, 1, 0, 0, 0, 0},
		{0, 8, 1, 0, 0, 0},
		{0, 0, 1, 3, 1, 0},
		{0, 0, -3, 1, 0, 1},
		{0, 0, 0, 0, 2, 2},
		{0, 0, 0, 0, -2, 2},
	}
}

// fixedPolicy always asks for the same relaxed budget.
type fixedPolicy struct {
	base, relaxed int
}

func (p fixedPolicy) Budget(float64) int { return p.relaxed }
func (p fixedPolicy) Base() int          { return p.base }

// recorder collects restart and iteration reports.
type recorder struct {
	mu         sync.Mutex
	restarts   []arnoldi.RestartReport
	iterations []arnoldi.IterationReport
}

func (r *recorder) ObserveRestart(rep arnoldi.RestartReport) {
	r.mu.Lock()
	r.restarts = append(r.restarts, rep)
	r.mu.Unlock()
}

func (r *recorder) ObserveIteration(rep arnoldi.IterationReport) {
	r.mu.Lock()
	r.iterations = append(r.iterations, rep)
	r.mu.Unlock()
}

var (
	errTransport = errors.New("transport exploded")
	errDense     = errors.New("dense kernel failed")
)

// brokenDecomposer fails every decomposition.
type brokenDecomposer struct{}

func (brokenDecomposer) Decompose(*matrix.Dense) ([]complex128, *matrix.CDense, error) {
	return nil, nil, errDense
}

// brokenFactorizer fails every QR factorization.
type brokenFactorizer struct{}

func (brokenFactorizer) Factorize(*matrix.Dense) (*matrix.Dense, *matrix.Dense, error) {
	return nil, nil, errDense
}

var (
	_ eigen.Decomposer = brokenDecomposer{}
	_ eigen.Factorizer = brokenFactorizer{}
)
