// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/mcarnoldi/matrix"
	"github.com/stretchr/testify/require"
)

func TestIsUpperHessenberg(t *testing.T) {
	h := MustDense(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{0, 7, 8},
	})
	require.True(t, matrix.IsUpperHessenberg(h, 0))
	require.NoError(t, matrix.ValidateHessenberg(h, 0))

	require.NoError(t, h.Set(2, 0, 1e-3))
	require.False(t, matrix.IsUpperHessenberg(h, 1e-6))
	require.True(t, matrix.IsUpperHessenberg(h, 1e-2))
	require.ErrorIs(t, matrix.ValidateHessenberg(h, 1e-6), matrix.ErrNotHessenberg)

	require.False(t, matrix.IsUpperHessenberg(MustDense(t, [][]float64{{1, 2}}), 0))
	require.ErrorIs(t, matrix.ValidateHessenberg(nil, 0), matrix.ErrNilMatrix)

	c := MustCDense(t, [][]complex128{{1, 1}, {1i, 1}})
	require.True(t, matrix.IsUpperHessenbergC(c, 0))
}

func TestValidateVecLen(t *testing.T) {
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}
