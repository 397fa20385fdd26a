// SPDX-License-Identifier: MIT

package arnoldi

import (
	"math/cmplx"
	"sort"

	"github.com/katalvlaran/mcarnoldi/matrix"
)

// SortEigenpairs orders eigenvalues ascending by (real, imag) and permutes the
// columns of vectors to match. The sort is stable: equal eigenvalues keep
// their discovery order. Inputs are not modified.
//
// Errors: matrix.ErrDimensionMismatch when vectors has fewer columns than values.
func SortEigenpairs(values []complex128, vectors *matrix.CDense) ([]complex128, *matrix.CDense, error) {
	if vectors == nil {
		return nil, nil, matrix.ErrNilMatrix
	}
	if vectors.Cols() < len(values) {
		return nil, nil, matrix.ErrDimensionMismatch
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		if real(va) != real(vb) {
			return real(va) < real(vb)
		}
		return imag(va) < imag(vb)
	})

	rows := vectors.Rows()
	sortedVals := make([]complex128, len(values))
	sortedVecs, err := matrix.NewCDense(rows, len(values))
	if err != nil {
		return nil, nil, err
	}
	src, dst := vectors.Data(), sortedVecs.Data()
	cols := vectors.Cols()
	for to, from := range idx {
		sortedVals[to] = values[from]
		for r := 0; r < rows; r++ {
			dst[r*len(values)+to] = src[r*cols+from]
		}
	}

	return sortedVals, sortedVecs, nil
}

// eigenpairs is the spectral snapshot of one factorization state.
type eigenpairs struct {
	values      []complex128   // ascending, dominant last
	vectors     *matrix.CDense // k×k, unit columns, same order
	ritzValues  []complex128   // equal to values
	ritzVectors [][]complex128 // basis·vectors, unit columns
	residual    float64        // |y_dominant[k−1]|·‖f‖
}

// dominant returns the index of the dominant pair.
func (e *eigenpairs) dominant() int { return len(e.values) - 1 }

// computeEigenpairs decomposes the leading block of H, sorts, forms and
// normalizes Ritz vectors (unit norm, largest entry of every eigenvector
// real positive), and evaluates the a-posteriori residual.
func computeEigenpairs[T Scalar](fz *factorization[T]) (*eigenpairs, error) {
	k := fz.columns()
	values, vectors, err := fz.ar.decompose(fz.h, k)
	if err != nil {
		return nil, err
	}
	vectors.NormalizeColumns()
	vectors.NormalizePhase()
	values, vectors, err = SortEigenpairs(values, vectors)
	if err != nil {
		return nil, err
	}
	ritz, err := fz.ar.ritz(fz.basis, k, vectors)
	if err != nil {
		return nil, err
	}
	for _, r := range ritz {
		if nr := matrix.CNorm2(r); nr > 0 {
			matrix.CScale(complex(1/nr, 0), r)
		}
	}
	last, err := vectors.At(k-1, k-1)
	if err != nil {
		return nil, err
	}

	return &eigenpairs{
		values:      values,
		vectors:     vectors,
		ritzValues:  append([]complex128(nil), values...),
		ritzVectors: ritz,
		residual:    cmplx.Abs(last) * fz.residualNorm(),
	}, nil
}
