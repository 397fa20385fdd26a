// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for Dense and CDense storage.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mcarnoldi/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewCDense(-1, 2)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfRange ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfRange(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	c, err := matrix.NewCDense(2, 2)
	require.NoError(t, err)
	_, err = c.At(0, 5)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNaNInf checks the default finite-only numeric policy.
func TestSetRejectsNaNInf(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	c, err := matrix.NewCDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, c.Set(0, 0, complex(0, math.Inf(-1))), matrix.ErrNaNInf)
}

// TestNewDenseFromRagged verifies ragged input is refused.
func TestNewDenseFromRagged(t *testing.T) {
	_, err := matrix.NewDenseFrom([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrRagged)

	_, err = matrix.NewDenseFrom(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 0}, {0, 2}})
	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3.0))

	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	require.Equal(t, 3.0, MustAt(t, clone, 0, 0))
}

// TestColSetColRoundTrip checks column extraction and overwrite.
func TestColSetColRoundTrip(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	col, err := m.Col(1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, col)

	require.NoError(t, m.SetCol(0, []float64{-1, -2, -3}))
	col, err = m.Col(0)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, -2, -3}, col)

	require.ErrorIs(t, m.SetCol(0, []float64{1}), matrix.ErrDimensionMismatch)
	_, err = m.Col(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestBlock extracts the leading principal submatrix.
func TestBlock(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	b, err := m.Block(0, 0, 2, 2)
	require.NoError(t, err)
	requireClose(t, MustDense(t, [][]float64{{1, 2}, {4, 5}}), b, 0)

	b, err = m.Block(1, 1, 2, 2)
	require.NoError(t, err)
	requireClose(t, MustDense(t, [][]float64{{5, 6}, {8, 9}}), b, 0)

	_, err = m.Block(2, 2, 2, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestToComplexAndNormalizeColumns promotes a real matrix and normalizes columns.
func TestToComplexAndNormalizeColumns(t *testing.T) {
	m := MustDense(t, [][]float64{{3, 0}, {4, 0}})
	c, err := matrix.ToComplex(m)
	require.NoError(t, err)
	c.NormalizeColumns()

	col0, err := c.Col(0)
	require.NoError(t, err)
	require.InDelta(t, 0.6, real(col0[0]), tol)
	require.InDelta(t, 0.8, real(col0[1]), tol)

	col1, err := c.Col(1)
	require.NoError(t, err)
	require.Equal(t, []complex128{0, 0}, col1) // zero column untouched

	_, err = matrix.ToComplex(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestNormalizePhase makes the largest entry of every column real positive.
func TestNormalizePhase(t *testing.T) {
	c := MustCDense(t, [][]complex128{
		{0.6i, -1, 0},
		{-0.8i, 0, 0},
	})
	c.NormalizePhase()

	col0, err := c.Col(0)
	require.NoError(t, err)
	require.InDelta(t, 0.0, real(col0[0])-(-0.6), tol)
	require.InDelta(t, 0.0, imag(col0[0]), tol)
	require.Equal(t, complex(0.8, 0), col0[1])

	col1, err := c.Col(1)
	require.NoError(t, err)
	require.Equal(t, []complex128{1, 0}, col1)

	col2, err := c.Col(2)
	require.NoError(t, err)
	require.Equal(t, []complex128{0, 0}, col2)
}
