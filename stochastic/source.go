// SPDX-License-Identifier: MIT

package stochastic

import "math"

// SignedSource converts v into a signed source distribution: src[i] = v[i]/Σ|v|
// (so Σ|src| = 1) and magnitude = Σ|v|. The zero vector maps to a zero source
// with magnitude 0.
//
// Complexity: O(len(v)).
func SignedSource(v []float64) (src []float64, magnitude float64) {
	src = make([]float64, len(v))
	for _, x := range v {
		magnitude += math.Abs(x)
	}
	if magnitude == 0 {
		return src, 0
	}
	for i, x := range v {
		src[i] = x / magnitude
	}

	return src, magnitude
}
