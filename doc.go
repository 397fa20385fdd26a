// SPDX-License-Identifier: MIT

// Package mcarnoldi estimates dominant eigenpairs of linear operators that are
// only available through noisy, budgeted applications, such as the
// fission-source operator of a Monte Carlo transport code.
//
// Layout:
//
//	matrix/       Dense and CDense storage, products, QR helpers, validators
//	eigen/        dense eigen-decomposition (Gonum, complex Schur) and Householder QR
//	arnoldi/      restarted Arnoldi: factorization, implicit/explicit restarts, run state
//	stochastic/   Monte Carlo operator over a Transport, relaxation budget policies
//	transport/    1-D multi-region slab simulator with batched, seeded histories
//	convergence/  running means and deviations, Shannon entropy, figure of merit
//	telemetry/    Prometheus collector fed by solver reports
//	config/       YAML run files
//	cmd/mcarnoldi the command-line runner
//
// Quick start on a deterministic operator:
//
//	op := arnoldi.OperatorFunc[float64](func(v []float64, _ int) ([]float64, error) {
//		return A.MulVec(v), nil
//	})
//	s, _ := arnoldi.NewReal(op, eigen.Gonum{}, eigen.Householder{}, arnoldi.DefaultOptions())
//	state, err := arnoldi.RunRestartedArnoldi[float64](ctx, s, start)
//	val, vec, _ := state.Ritz(0) // dominant pair
//
// A stochastic run swaps op for stochastic.NewOperator(sim, seed) and usually
// adds a stochastic.Relaxation policy and a convergence.Tracker observer.
package mcarnoldi
