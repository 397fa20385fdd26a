// SPDX-License-Identifier: MIT

// Package matrix - vector kernels on plain slices.
//
// Krylov bases keep their columns as []float64 / []complex128; these kernels
// are the Level-1 operations the factorization loop needs. Length mismatches
// return ErrDimensionMismatch; nothing here allocates except Clone helpers.

package matrix

import (
	"math"
	"math/cmplx"
)

const (
	opDot  = "Dot"
	opAxpy = "Axpy"
)

// Norm2 returns the Euclidean norm ‖x‖₂.
// Complexity: O(n).
func Norm2(x []float64) float64 {
	s := NormZero
	for _, v := range x {
		s += v * v
	}

	return math.Sqrt(s)
}

// CNorm2 returns the Euclidean norm of a complex vector.
func CNorm2(x []complex128) float64 {
	s := NormZero
	for _, v := range x {
		s += sqAbs(v)
	}

	return math.Sqrt(s)
}

// Dot returns xᵀy.
// Errors: ErrDimensionMismatch.
func Dot(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, matrixErrorf(opDot, ErrDimensionMismatch)
	}
	s := ZeroSum
	for i := range x {
		s += x[i] * y[i]
	}

	return s, nil
}

// CDot returns xᴴy (conjugate-linear in x).
// Errors: ErrDimensionMismatch.
func CDot(x, y []complex128) (complex128, error) {
	if len(x) != len(y) {
		return 0, matrixErrorf(opDot, ErrDimensionMismatch)
	}
	var s complex128
	for i := range x {
		s += cmplx.Conj(x[i]) * y[i]
	}

	return s, nil
}

// Scale multiplies x by alpha in place.
func Scale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// CScale multiplies x by alpha in place.
func CScale(alpha complex128, x []complex128) {
	for i := range x {
		x[i] *= alpha
	}
}

// Axpy computes y ← y + alpha·x in place.
// Errors: ErrDimensionMismatch.
func Axpy(alpha float64, x, y []float64) error {
	if len(x) != len(y) {
		return matrixErrorf(opAxpy, ErrDimensionMismatch)
	}
	for i := range x {
		y[i] += alpha * x[i]
	}

	return nil
}

// CAxpy computes y ← y + alpha·x in place.
// Errors: ErrDimensionMismatch.
func CAxpy(alpha complex128, x, y []complex128) error {
	if len(x) != len(y) {
		return matrixErrorf(opAxpy, ErrDimensionMismatch)
	}
	for i := range x {
		y[i] += alpha * x[i]
	}

	return nil
}
