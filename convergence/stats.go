// SPDX-License-Identifier: MIT

package convergence

import "math"

// series is one history split into inactive and active parts.
type series[E any] struct {
	inactive []E
	active   []E
}

func (s *series[E]) add(active bool, v E) {
	if active {
		s.active = append(s.active, v)
		return
	}
	s.inactive = append(s.inactive, v)
}

func (s *series[E]) get(includeInactive bool) []E {
	out := make([]E, 0, len(s.inactive)+len(s.active))
	if includeInactive {
		out = append(out, s.inactive...)
	}

	return append(out, s.active...)
}

// runningValue accumulates Σx and Σx² per component of a complex estimate.
type runningValue struct {
	n      int
	sum    complex128
	sumRe2 float64
	sumIm2 float64
}

func (r *runningValue) add(x complex128) {
	r.n++
	r.sum += x
	r.sumRe2 += real(x) * real(x)
	r.sumIm2 += imag(x) * imag(x)
}

func (r *runningValue) mean() complex128 {
	if r.n == 0 {
		return 0
	}

	return r.sum / complex(float64(r.n), 0)
}

// stddev is sqrt((1/N)·(Σx²/N − mean²)) per component; 0 for N <= 1.
func (r *runningValue) stddev() complex128 {
	if r.n <= 1 {
		return 0
	}
	n := float64(r.n)
	m := r.mean()

	return complex(spread(r.sumRe2, real(m), n), spread(r.sumIm2, imag(m), n))
}

// spread clamps tiny negative variances from cancellation to zero.
func spread(sum2, mean, n float64) float64 {
	return math.Sqrt(math.Max(0, (sum2/n-mean*mean)/n))
}

// runningVector is runningValue per component with sign correction.
type runningVector struct {
	n      int
	sum    []complex128
	sumRe2 []float64
	sumIm2 []float64
}

// add sign-corrects v against the current sum and accumulates it.
// It returns the corrected vector.
func (r *runningVector) add(v []complex128) []complex128 {
	if r.sum == nil {
		r.sum = make([]complex128, len(v))
		r.sumRe2 = make([]float64, len(v))
		r.sumIm2 = make([]float64, len(v))
	}
	if len(v) != len(r.sum) {
		return nil
	}
	c := SignCorrect(v, r.sum)
	r.n++
	for i, z := range c {
		r.sum[i] += z
		r.sumRe2[i] += real(z) * real(z)
		r.sumIm2[i] += imag(z) * imag(z)
	}

	return c
}

func (r *runningVector) mean() []complex128 {
	if r.n == 0 {
		return nil
	}
	out := make([]complex128, len(r.sum))
	n := complex(float64(r.n), 0)
	for i, s := range r.sum {
		out[i] = s / n
	}

	return out
}

func (r *runningVector) stddev() []complex128 {
	if r.n == 0 {
		return nil
	}
	out := make([]complex128, len(r.sum))
	if r.n == 1 {
		return out
	}
	n := float64(r.n)
	for i, s := range r.sum {
		m := s / complex(n, 0)
		out[i] = complex(spread(r.sumRe2[i], real(m), n), spread(r.sumIm2[i], imag(m), n))
	}

	return out
}
