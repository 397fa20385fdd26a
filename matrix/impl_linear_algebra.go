// SPDX-License-Identifier: MIT
// Package matrix - dense linear-algebra kernels for real (*Dense) and complex (*CDense) operands.
//
// Purpose:
//   - Products (Mul, CMul, MatVec, CMatVec), transposes (Transpose, ConjTranspose),
//     and Householder QR factorizations (QR, CQR) with the convention A = Q·R.
//   - Operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - All kernels validate through validators.go and wrap failures via matrixErrorf(op, err).
//   - Loop orders are fixed; results are bit-for-bit reproducible for identical inputs.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for dot products and projections.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul           = "Mul"
	opCMul          = "CMul"
	opTranspose     = "Transpose"
	opConjTranspose = "ConjTranspose"
	opMatVec        = "MatVec"
	opCMatVec       = "CMatVec"
	opQR            = "QR"
	opCQR           = "CQR"
	opMulRC         = "MulRealComplex"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting across facades.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// Complexity:
//   - Time O(1), Space O(1).
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the product C = A·B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b). Allocate C(a.rows × b.cols).
//   - Stage 2: i→k→j loop over the flat buffers, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Determinism:
//   - Fixed loop order i→k→j.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, k                           int
		av                             float64
		rowOffsetA, rowOffsetB, rowOut int
	)
	for i = 0; i < a.r; i++ {
		rowOffsetA = i * a.c
		rowOut = i * b.c
		for k = 0; k < a.c; k++ {
			av = a.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * b.c
			for j := 0; j < b.c; j++ {
				res.data[rowOut+j] += av * b.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// CMul returns the complex product C = A·B (same loop discipline as Mul).
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*n*c), Space O(r*c).
func CMul(a, b *CDense) (*CDense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opCMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opCMul, ErrDimensionMismatch)
	}
	res, err := NewCDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opCMul, err)
	}
	var i, k, j int
	var av complex128
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			av = a.data[i*a.c+k]
			if av == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				res.data[i*b.c+j] += av * b.data[k*b.c+j]
			}
		}
	}

	return res, nil
}

// MulRealComplex returns A·B for a real A and a complex B.
// Ritz vectors are formed this way: real Krylov basis times complex eigenvectors.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*n*c), Space O(r*c).
func MulRealComplex(a *Dense, b *CDense) (*CDense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMulRC, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opMulRC, ErrDimensionMismatch)
	}
	res, err := NewCDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMulRC, err)
	}
	var i, k, j int
	var av float64
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			av = a.data[i*a.c+k]
			if av == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				res.data[i*b.c+j] += complex(av, 0) * b.data[k*b.c+j]
			}
		}
	}

	return res, nil
}

// MatVec computes y = A·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(x) != cols).
// Complexity: Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	var sum float64
	var base int
	for i := 0; i < m.r; i++ {
		sum = ZeroSum
		base = i * m.c
		for j := 0; j < m.c; j++ {
			sum += m.data[base+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// CMatVec computes y = A·x for complex operands.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func CMatVec(m *CDense, x []complex128) ([]complex128, error) {
	if m == nil {
		return nil, matrixErrorf(opCMatVec, ErrNilMatrix)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opCMatVec, ErrDimensionMismatch)
	}
	y := make([]complex128, m.r)
	for i := 0; i < m.r; i++ {
		var sum complex128
		for j := 0; j < m.c; j++ {
			sum += m.data[i*m.c+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res.validateNaNInf = m.validateNaNInf
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// ConjTranspose returns the Hermitian adjoint mᴴ.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func ConjTranspose(m *CDense) (*CDense, error) {
	if m == nil {
		return nil, matrixErrorf(opConjTranspose, ErrNilMatrix)
	}
	res, err := NewCDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opConjTranspose, err)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = cmplx.Conj(m.data[i*m.c+j])
		}
	}

	return res, nil
}

// QR computes a Householder factorization A = Q·R of a square matrix.
// Implementation:
//   - Stage 1: Validate m (not nil, square); clone A into R; init Q to identity.
//   - Stage 2: For k=0..n-2, build the reflector P_k = I − τ·v·vᵀ that zeroes R[k+1:,k].
//   - Stage 3: Apply P_k from the left to R and from the right to Q, so Q = P_0·P_1·…·P_{n-2}.
//
// Behavior highlights:
//   - Q is orthogonal and R upper triangular; no sign canonicalization of diag(R).
//   - Zero columns are skipped (P_k = I), so rank-deficient input is still factorized.
//
// Inputs:
//   - m: square *Dense (n×n).
//
// Returns:
//   - *Dense: Q (orthogonal, A = Q·R).
//   - *Dense: R (upper triangular).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Determinism:
//   - Fixed k→{j,i} visitation.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// AI-Hints:
//   - Shifted QR steps use QR(H − μI) and then form H' = Qᵀ·H·Q.
func QR(m *Dense) (*Dense, *Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	n := m.r
	R := m.Clone()
	R.validateNaNInf = false
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}

	v := make([]float64, n)
	var (
		i, j, k    int
		norm, beta float64
		alpha, tau float64
		sum        float64
	)
	for k = 0; k < n-1; k++ {
		// 1: norm of R[k:n, k]
		norm = NormZero
		for i = k; i < n; i++ {
			norm += R.data[i*n+k] * R.data[i*n+k]
		}
		norm = math.Sqrt(norm)
		if norm == NormZero {
			continue // zero column
		}

		// 2: v = x − α·e_k, α = −sign(x_k)·‖x‖
		alpha = -math.Copysign(norm, R.data[k*n+k])
		for i = 0; i < n; i++ {
			v[i] = 0
		}
		for i = k; i < n; i++ {
			v[i] = R.data[i*n+k]
		}
		v[k] -= alpha

		beta = NormZero
		for i = k; i < n; i++ {
			beta += v[i] * v[i]
		}
		if beta == NormZero {
			continue
		}
		tau = 2.0 / beta

		// 3: R ← P_k·R (columns k..n-1)
		for j = k; j < n; j++ {
			sum = ZeroSum
			for i = k; i < n; i++ {
				sum += v[i] * R.data[i*n+j]
			}
			for i = k; i < n; i++ {
				R.data[i*n+j] -= tau * v[i] * sum
			}
		}
		// exact zeros below the pivot
		for i = k + 1; i < n; i++ {
			R.data[i*n+k] = 0
		}

		// 4: Q ← Q·P_k (rows 0..n-1)
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for j = k; j < n; j++ {
				sum += Q.data[i*n+j] * v[j]
			}
			for j = k; j < n; j++ {
				Q.data[i*n+j] -= tau * sum * v[j]
			}
		}
	}
	R.validateNaNInf = m.validateNaNInf

	return Q, R, nil
}

// CQR computes a complex Householder factorization A = Q·R of a square matrix.
// Implementation:
//   - Stage 1: Validate; clone A into R; Q = I.
//   - Stage 2: For k=0..n-2, α = −e^{i·arg(x_k)}·‖x‖, v = x − α·e_k, τ = 2/(vᴴv).
//     P_k = I − τ·v·vᴴ is Hermitian and unitary.
//   - Stage 3: R ← P_k·R, Q ← Q·P_k.
//
// Returns:
//   - Q unitary, R upper triangular with A = Q·R.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func CQR(m *CDense) (*CDense, *CDense, error) {
	if m == nil {
		return nil, nil, matrixErrorf(opCQR, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, nil, matrixErrorf(opCQR, ErrNonSquare)
	}
	n := m.r
	R := m.Clone()
	Q, err := NewCIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opCQR, err)
	}

	v := make([]complex128, n)
	var (
		i, j, k    int
		norm, beta float64
		phase      complex128
		alpha, sum complex128
		tau        complex128
	)
	for k = 0; k < n-1; k++ {
		norm = NormZero
		for i = k; i < n; i++ {
			norm += sqAbs(R.data[i*n+k])
		}
		norm = math.Sqrt(norm)
		if norm == NormZero {
			continue
		}
		phase = 1
		if a := cmplx.Abs(R.data[k*n+k]); a > 0 {
			phase = R.data[k*n+k] / complex(a, 0)
		}
		alpha = -phase * complex(norm, 0)

		for i = 0; i < n; i++ {
			v[i] = 0
		}
		for i = k; i < n; i++ {
			v[i] = R.data[i*n+k]
		}
		v[k] -= alpha

		beta = NormZero
		for i = k; i < n; i++ {
			beta += sqAbs(v[i])
		}
		if beta == NormZero {
			continue
		}
		tau = complex(2.0/beta, 0)

		// R ← (I − τ v vᴴ)·R
		for j = k; j < n; j++ {
			sum = 0
			for i = k; i < n; i++ {
				sum += cmplx.Conj(v[i]) * R.data[i*n+j]
			}
			for i = k; i < n; i++ {
				R.data[i*n+j] -= tau * v[i] * sum
			}
		}
		for i = k + 1; i < n; i++ {
			R.data[i*n+k] = 0
		}

		// Q ← Q·(I − τ v vᴴ)
		for i = 0; i < n; i++ {
			sum = 0
			for j = k; j < n; j++ {
				sum += Q.data[i*n+j] * v[j]
			}
			for j = k; j < n; j++ {
				Q.data[i*n+j] -= tau * sum * cmplx.Conj(v[j])
			}
		}
	}

	return Q, R, nil
}
