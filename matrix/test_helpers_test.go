// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and tolerance helpers for kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/mcarnoldi/matrix"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// MustDense builds a *Dense from rows or fails the test.
func MustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// MustCDense builds a *CDense from rows or fails the test.
func MustCDense(t *testing.T, rows [][]complex128) *matrix.CDense {
	t.Helper()
	m, err := matrix.NewCDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireClose asserts elementwise |a−b| <= eps for equal-shape real matrices.
func requireClose(t *testing.T, a, b *matrix.Dense, eps float64) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	ad, bd := a.Data(), b.Data()
	for i := range ad {
		require.LessOrEqualf(t, math.Abs(ad[i]-bd[i]), eps, "entry %d: %g vs %g", i, ad[i], bd[i])
	}
}

// requireCClose asserts elementwise |a−b| <= eps for equal-shape complex matrices.
func requireCClose(t *testing.T, a, b *matrix.CDense, eps float64) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	ad, bd := a.Data(), b.Data()
	for i := range ad {
		require.LessOrEqualf(t, cmplx.Abs(ad[i]-bd[i]), eps, "entry %d: %v vs %v", i, ad[i], bd[i])
	}
}
