// SPDX-License-Identifier: MIT

// Package transport is a reference Monte Carlo collaborator for the
// stochastic operator: one-speed neutron transport in a 1-D multi-region slab
// with a uniform scoring mesh.
//
// Every history:
//
//   - is born in a mesh bin drawn from the CDF of |source|, at a uniform
//     position inside that bin, with weight sign(source[bin]) and an isotropic
//     direction cosine;
//   - flies exponential distances −ln ξ/Σt, stopping and resampling at region
//     boundaries; leaving the slab is a leak;
//   - at each collision scores w·νΣf/Σt into the bin of the collision point
//     (collision estimator), survives with w ← w·Σs/Σt (implicit capture) and
//     scatters isotropically;
//   - plays Russian roulette once |w| drops below WeightCutoff: killed with
//     probability KillProbability, otherwise w ← w/(1−KillProbability).
//
// Histories are split into batches of BatchSize. Batch b draws from its own
// generator seeded by mixing (seed, b), batches run on at most Workers
// goroutines (errgroup), and tallies are summed in batch order. The result is
// therefore a function of (source, histories, seed, BatchSize) and never of
// Workers.
package transport
