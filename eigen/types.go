// SPDX-License-Identifier: MIT

package eigen

import "github.com/katalvlaran/mcarnoldi/matrix"

// Decomposer computes eigenvalues and right eigenvectors of a real square matrix.
// vectors has one unit-norm column per entry of values, in the same order.
type Decomposer interface {
	Decompose(h *matrix.Dense) (values []complex128, vectors *matrix.CDense, err error)
}

// ComplexDecomposer is Decomposer for complex input.
type ComplexDecomposer interface {
	DecomposeComplex(h *matrix.CDense) (values []complex128, vectors *matrix.CDense, err error)
}

// Factorizer computes A = Q·R with Q orthogonal and R upper triangular.
type Factorizer interface {
	Factorize(m *matrix.Dense) (q, r *matrix.Dense, err error)
}

// ComplexFactorizer computes A = Q·R with Q unitary.
type ComplexFactorizer interface {
	FactorizeComplex(m *matrix.CDense) (q, r *matrix.CDense, err error)
}

// Compile-time conformance.
var (
	_ Decomposer        = Gonum{}
	_ Decomposer        = Schur{}
	_ ComplexDecomposer = Schur{}
	_ Factorizer        = Householder{}
	_ ComplexFactorizer = Householder{}
)
