// SPDX-License-Identifier: MIT

package arnoldi

// Test-only accessors. This file is compiled into the package only under
// `go test`, giving arnoldi_test read access to the factorization.

// Snapshot is a copy of the factorization after an Arnoldi step.
type Snapshot struct {
	H     [][]float64 // (k+1)×(k+1) leading block
	Basis [][]float64 // k+1 columns
	K     int
}

// InspectReal registers fn to run after every Arnoldi step of s.
func InspectReal(s *RealSolver, fn func(Snapshot)) {
	eng := s.eng
	eng.inspect = func() {
		fz := eng.fz
		k := fz.columns()
		snap := Snapshot{K: fz.k}
		snap.H = make([][]float64, k)
		for i := 0; i < k; i++ {
			snap.H[i] = append([]float64(nil), fz.h[i][:k]...)
		}
		snap.Basis = make([][]float64, k)
		for j := 0; j < k; j++ {
			snap.Basis[j] = append([]float64(nil), fz.basis[j]...)
		}
		fn(snap)
	}
}

// FullHessenberg returns a copy of the m×m H of s.
func FullHessenberg(s *RealSolver) [][]float64 {
	out := make([][]float64, len(s.eng.fz.h))
	for i, row := range s.eng.fz.h {
		out[i] = append([]float64(nil), row...)
	}

	return out
}
