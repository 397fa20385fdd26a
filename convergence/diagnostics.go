// SPDX-License-Identifier: MIT

package convergence

import (
	"math"
	"time"

	"github.com/katalvlaran/mcarnoldi/matrix"
)

// entropyFloor skips probabilities at or below it in ShannonEntropy.
const entropyFloor = 1e-14

// ShannonEntropy returns H = −Σ pᵢ·ln pᵢ with pᵢ = |vᵢ|/Σ|v|. Entries with
// pᵢ <= 1e-14 contribute nothing; the zero vector has entropy 0.
//
// Complexity: O(len(v)).
func ShannonEntropy(v []float64) float64 {
	var total float64
	for _, x := range v {
		total += math.Abs(x)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, x := range v {
		if p := math.Abs(x) / total; p > entropyFloor {
			h += p * math.Log(p)
		}
	}

	return -h
}

// FigureOfMerit returns 1/(stddev²·elapsed seconds), or 0 when either factor is zero.
func FigureOfMerit(stddev float64, elapsed time.Duration) float64 {
	denom := stddev * stddev * elapsed.Seconds()
	if denom == 0 {
		return 0
	}

	return 1 / denom
}

// SignCorrect returns a copy of v, negated when Re⟨reference, v⟩ < 0.
// A zero reference never flips.
func SignCorrect(v, reference []complex128) []complex128 {
	out := append([]complex128(nil), v...)
	d, err := matrix.CDot(reference, v)
	if err == nil && real(d) < 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}

	return out
}

// realParts returns the real parts of v.
func realParts(v []complex128) []float64 {
	out := make([]float64, len(v))
	for i, z := range v {
		out[i] = real(z)
	}

	return out
}
