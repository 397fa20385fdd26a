// SPDX-License-Identifier: MIT

// Package stochastic adapts a Monte Carlo transport simulation into the
// arnoldi.Operator[float64] capability and supplies the adaptive sampling
// policy that shrinks per-application sample budgets as the solver converges.
//
// Apply(v, budget) works in three steps:
//
//  1. SignedSource: v becomes a signed source distribution src = v/Σ|v|
//     together with its magnitude Σ|v|.
//  2. The Transport collaborator tracks budget histories from src with a
//     seed derived deterministically from (base seed, run ID, invocation).
//  3. The tally is rescaled by magnitude/budget. A zero budget (or a zero
//     vector) yields the zero vector without calling the transport.
//
// Seeds never come from global state: two operators built with the same base
// seed and run ID reproduce each other exactly, call for call.
//
// Relaxation implements arnoldi.BudgetPolicy:
//
//	budget(r) = base                         if r >= tol
//	budget(r) = ⌊base·(r/tol)²⌋  (Quadratic) otherwise
//	budget(r) = ⌊base·(r/tol)⌋   (Linear)    otherwise
//
// so budget(tol) == base and budget(0) == 0. The solver clamps the applied
// budget to at least one sample.
package stochastic
