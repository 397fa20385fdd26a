// SPDX-License-Identifier: MIT

package arnoldi

import (
	"math/cmplx"

	"go.uber.org/zap"
)

// implicitRestart filters the m−n unwanted Ritz values out of the
// factorization with exact shifts and keeps an n-step factorization.
//
// Implementation:
//   - Stage 1: shifts = ascending eigenvalues[:m−n] (the least dominant ones).
//   - Stage 2: shifted-QR sweep over H (double shifts for conjugate pairs in
//     real arithmetic), accumulating Q.
//   - Stage 3: V ← V·Q, H ← H⁺[:n,:n], f ← V⁺[:,n]·H⁺(n,n−1) + f·Q(m−1,n−1), k = n−1.
//   - Stage 4: H must still be upper Hessenberg.
//
// Complexity:
//   - Time O(p·m³ + m²·dim) for p shifts.
func (e *engine[T]) implicitRestart(eig *eigenpairs, n int) error {
	m := e.fz.columns()
	shifts := append([]complex128(nil), eig.values[:m-n]...)

	q, hs, err := e.ar.sweep(e.fz.h, shifts, e.opts.ShiftImagTolerance)
	if err != nil {
		return err
	}
	e.fz.truncate(q, hs, n)
	if err = e.ar.hessenberg(e.fz.h); err != nil {
		return err
	}
	e.log.Debug("Implicit restart applied",
		zap.Int("restart", e.restart),
		zap.Int("shifts", len(shifts)),
		zap.Float64("residual_norm", e.fz.residualNorm()))

	return nil
}

// explicitStart combines the n most dominant Ritz vectors, most dominant
// first, into the next start vector. Real arithmetic keeps the real part.
func (e *engine[T]) explicitStart(eig *eigenpairs, n int) []T {
	dim := e.fz.dim
	v := make([]complex128, dim)
	dom := eig.dominant()
	for i := 0; i < n && dom-i >= 0; i++ {
		w := complex(1, 0)
		if e.opts.ExplicitWeighting == MagnitudeWeighted {
			w = complex(cmplx.Abs(eig.ritzValues[dom-i]), 0)
		}
		rv := eig.ritzVectors[dom-i]
		for r := 0; r < dim; r++ {
			v[r] += w * rv[r]
		}
	}

	return e.ar.fromComplex(v)
}
