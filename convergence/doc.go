// SPDX-License-Identifier: MIT

// Package convergence tracks the statistical convergence of a stochastic
// restarted Arnoldi run.
//
// A Tracker is an arnoldi.Observer (and IterationObserver). For every active
// restart it accumulates, per tracked index (0 = dominant):
//
//   - running mean and standard deviation of the Ritz value,
//     stddev = sqrt((1/N)·(Σx²/N − mean²)) per real and imaginary component;
//   - running mean and standard deviation of the Ritz vector, after flipping
//     each estimate whose inner product with the current mean is negative;
//   - the figure of merit FOM = 1/(σ²·t) of the dominant value, 0 at the first
//     active restart;
//   - the Shannon entropy of the real part of the dominant Ritz vector, per
//     restart and per Arnoldi iteration.
//
// Inactive (burn-in) restarts are recorded separately and feed the running
// statistics only with TrackerOptions.IncludeInactive.
package convergence
