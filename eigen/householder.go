// SPDX-License-Identifier: MIT

package eigen

import (
	"fmt"

	"github.com/katalvlaran/mcarnoldi/matrix"
)

const (
	opFactorize        = "Householder.Factorize"
	opFactorizeComplex = "Householder.FactorizeComplex"
)

// Householder is the QR capability backed by matrix.QR and matrix.CQR.
type Householder struct{}

// Factorize returns Q, R with m = Q·R.
func (Householder) Factorize(m *matrix.Dense) (*matrix.Dense, *matrix.Dense, error) {
	q, r, err := matrix.QR(m)
	if err != nil {
		return nil, nil, eigenErrorf(opFactorize, errJoin(ErrDecomposition, err))
	}

	return q, r, nil
}

// FactorizeComplex returns unitary Q and triangular R with m = Q·R.
func (Householder) FactorizeComplex(m *matrix.CDense) (*matrix.CDense, *matrix.CDense, error) {
	q, r, err := matrix.CQR(m)
	if err != nil {
		return nil, nil, eigenErrorf(opFactorizeComplex, errJoin(ErrDecomposition, err))
	}

	return q, r, nil
}

// errJoin keeps both the package sentinel and the underlying cause matchable.
func errJoin(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
