// Package arnoldi implements the restarted Arnoldi method for dominant
// eigenpairs of an operator that is only available as "apply to a vector",
// possibly with Monte Carlo noise and a per-application sample budget.
//
// Building blocks:
//
//   - factorization: classical Gram-Schmidt Arnoldi with an optional second
//     orthogonalization pass; H stays upper Hessenberg and the basis
//     orthonormal. A vanishing residual norm marks an invariant Krylov
//     subspace and ends the run successfully.
//   - eigenpairs: decomposition of the leading block of H through an
//     eigen.Decomposer, unit-norm eigenvectors, a stable ascending sort by
//     (real, imag) and Ritz vectors V·Y. The dominant pair is the last one.
//   - restarts: Implicit (exact-shift QR sweeps, with implicit double shifts
//     for conjugate pairs in real arithmetic) and Explicit (sum of the
//     NumWanted dominant Ritz vectors).
//   - sample budgets: the first application of each restart spends the full
//     budget; during active restarts a BudgetPolicy may shrink it from the
//     current residual estimate.
//
// Two instantiations share one Eigensolver interface: RealSolver
// (float64 arithmetic) and ComplexSolver (complex128 arithmetic).
// Observers receive a RestartReport after every restart and never mutate the
// solver; convergence statistics live in package convergence.
//
// Queries on RunState use ascending order for full spectra and "index 0 is
// dominant" for single-pair lookups (RunState.Ritz).
package arnoldi
