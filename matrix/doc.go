// Package matrix provides the dense linear-algebra substrate of the Krylov eigensolver.
//
// The matrix package provides:
//
//   - Dense: row-major real storage with safe At/Set accessors, column
//     access (Col/SetCol) and window copies (Block).
//   - CDense: the complex128 counterpart used for eigenvectors, Ritz
//     vectors and complex Hessenberg matrices.
//   - Products and adjoints: Mul, CMul, MulRealComplex, MatVec, CMatVec,
//     Transpose, ConjTranspose.
//   - Householder factorizations QR and CQR with A = Q·R.
//   - Level-1 vector kernels (Norm2, Dot, CDot, Axpy, ...) on plain slices.
//   - Structural validators (square, vector length, upper Hessenberg).
//
// All kernels are deterministic, never panic on user input, and report
// failures through the sentinels in errors.go (match with errors.Is).
package matrix
