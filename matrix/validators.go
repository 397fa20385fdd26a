// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/structure checks here.
//  - Return sentinel errors tagged with the validator name so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Hessenberg checks run O(n²) over the strictly-below-subdiagonal triangle only.
//
// AI-Hints:
//  - Use ValidateHessenberg in tests and debug paths of Krylov solvers: every completed
//    Arnoldi step must keep H(i,j) = 0 for i > j+1.
//  - Use ValidateVecLen for any MatVec-like operations to avoid ad hoc length code.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols). Assumes m != nil.
// Errors: ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m *Dense) error {
	if m.r != m.c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSquareNonNil is the composite NotNil → Square check used by factorizations.
func ValidateSquareNonNil(m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	return ValidateSquare(m)
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	// Disallow nil vectors to avoid subtle bugs in MatVec-like routines.
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols == b.Rows, inputs non-nil.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func ValidateMulCompatible(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.c != b.r {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// IsUpperHessenberg reports whether |m[i,j]| <= tol for every i > j+1.
// Non-square or nil input yields false.
// Complexity: O(n²).
func IsUpperHessenberg(m *Dense, tol float64) bool {
	if m == nil || m.r != m.c {
		return false
	}
	n := m.r
	for i := 2; i < n; i++ {
		for j := 0; j < i-1; j++ {
			if math.Abs(m.data[i*n+j]) > tol {
				return false
			}
		}
	}

	return true
}

// IsUpperHessenbergC is IsUpperHessenberg for complex matrices.
func IsUpperHessenbergC(m *CDense, tol float64) bool {
	if m == nil || m.r != m.c {
		return false
	}
	n := m.r
	for i := 2; i < n; i++ {
		for j := 0; j < i-1; j++ {
			if cmplx.Abs(m.data[i*n+j]) > tol {
				return false
			}
		}
	}

	return true
}

// ValidateHessenberg returns ErrNotHessenberg when IsUpperHessenberg(m, tol) is false.
// Errors: ErrNilMatrix, ErrNonSquare, ErrNotHessenberg.
func ValidateHessenberg(m *Dense, tol float64) error {
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateHessenberg", err)
	}
	if !IsUpperHessenberg(m, tol) {
		return validatorErrorf("ValidateHessenberg", ErrNotHessenberg)
	}

	return nil
}
