// SPDX-License-Identifier: MIT

// Package transport - RNG utilities shared by the batch workers.
//
// Goals:
//   - Determinism: same (seed, batch) ⇒ identical history stream on every platform.
//   - No shared generators: math/rand.Rand is NOT goroutine-safe, so every
//     batch owns the generator derived for it.
//   - No time-based sources anywhere.
package transport

import (
	"math"
	"math/rand"
	"sort"
)

// defaultRNGSeed replaces seed==0 so that the zero seed is still a fixed stream.
const defaultRNGSeed int64 = 1

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit
// seed with the SplitMix64 finalizer.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// batchRNG returns the generator of batch b for a simulation seed.
// Policy: seed==0 ⇒ defaultRNGSeed.
func batchRNG(seed int64, b int) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(deriveSeed(seed, uint64(b))))
}

// openUnit draws ξ in (0, 1], safe for −ln ξ.
func openUnit(rng *rand.Rand) float64 { return 1 - rng.Float64() }

// exponential draws a flight distance with mean 1/sigma.
func exponential(rng *rand.Rand, sigma float64) float64 { return -math.Log(openUnit(rng)) / sigma }

// isotropic draws a direction cosine uniform on [−1, 1).
func isotropic(rng *rand.Rand) float64 { return 2*rng.Float64() - 1 }

// sampleCDF returns the first index whose cumulative weight exceeds u·total.
// cdf is non-decreasing with cdf[len-1] = total > 0; zero-weight bins are never chosen.
func sampleCDF(rng *rand.Rand, cdf []float64) int {
	target := rng.Float64() * cdf[len(cdf)-1]
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > target })
	if i == len(cdf) {
		i = len(cdf) - 1
	}

	return i
}
