// Package eigen supplies the small dense spectral capabilities a Krylov
// eigensolver consumes once per restart.
//
// Two capability families are declared as interfaces:
//
//   - Decomposer / ComplexDecomposer: full eigendecomposition of a small
//     square matrix into complex eigenvalues and unit-norm right
//     eigenvectors (one column per eigenvalue, same order).
//   - Factorizer / ComplexFactorizer: QR factorization A = Q·R.
//
// Implementations:
//
//   - Gonum: real input, backed by gonum.org/v1/gonum/mat.Eigen.
//   - Schur: complex shifted-QR iteration on the Hessenberg form followed by
//     triangular back-substitution; accepts real input by promotion.
//   - Householder: real and complex QR through matrix.QR and matrix.CQR.
//
// A failed decomposition is reported as an error wrapping ErrNoConvergence or
// ErrDecomposition; callers treat both as fatal.
package eigen
