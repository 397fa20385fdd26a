// SPDX-License-Identifier: MIT

package eigen

import (
	"github.com/katalvlaran/mcarnoldi/matrix"
	"gonum.org/v1/gonum/mat"
)

const opGonum = "Gonum.Decompose"

// Gonum decomposes real matrices with LAPACK-style dgeev from gonum/mat.
// Complex-conjugate eigenpairs come out as explicit conjugate columns.
type Gonum struct{}

// Decompose factorizes h and returns its eigenvalues and unit-norm right eigenvectors.
//
// Implementation:
//   - Stage 1: validate shape and copy h into a gonum *mat.Dense (gonum keeps the slice).
//   - Stage 2: mat.Eigen.Factorize(·, EigenRight); a false status maps to ErrNoConvergence.
//   - Stage 3: copy values and vectors out, normalize every column to unit 2-norm.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func (Gonum) Decompose(h *matrix.Dense) ([]complex128, *matrix.CDense, error) {
	if err := matrix.ValidateSquareNonNil(h); err != nil {
		return nil, nil, eigenErrorf(opGonum, errJoin(ErrDecomposition, err))
	}
	n := h.Rows()
	data := make([]float64, n*n)
	copy(data, h.Data())
	a := mat.NewDense(n, n, data)

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return nil, nil, eigenErrorf(opGonum, ErrNoConvergence)
	}
	values := eig.Values(nil)

	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	out, err := matrix.NewCDense(n, n)
	if err != nil {
		return nil, nil, eigenErrorf(opGonum, err)
	}
	raw := out.Data()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			raw[i*n+j] = vecs.At(i, j)
		}
	}
	out.NormalizeColumns()

	return values, out, nil
}
