// SPDX-License-Identifier: MIT

package arnoldi

// factorization is the Arnoldi relation A·V_k = V_k·H_k + f·e_kᵀ under construction.
//
// basis holds m columns (only the first k+1 are meaningful), h is m×m stored
// by rows, f is the current residual (working) vector and k indexes the newest
// basis column. Only the engine mutates a factorization.
type factorization[T Scalar] struct {
	ar    arithmetic[T]
	basis [][]T
	h     [][]T
	f     []T
	k     int
	m     int
	dim   int

	reorth bool
	tol    float64
}

func newFactorization[T Scalar](ar arithmetic[T], dim, m int, reorth bool, tol float64) *factorization[T] {
	fz := &factorization[T]{ar: ar, m: m, dim: dim, reorth: reorth, tol: tol}
	fz.basis = make([][]T, m)
	for j := range fz.basis {
		fz.basis[j] = make([]T, dim)
	}
	fz.h = make([][]T, m)
	for i := range fz.h {
		fz.h[i] = make([]T, m)
	}
	fz.f = make([]T, dim)

	return fz
}

// columns is the number of basis columns currently in use.
func (fz *factorization[T]) columns() int { return fz.k + 1 }

// reset clears basis and H for a fresh start.
func (fz *factorization[T]) reset() {
	for j := range fz.basis {
		clear(fz.basis[j])
	}
	for i := range fz.h {
		clear(fz.h[i])
	}
	clear(fz.f)
	fz.k = 0
}

// start normalizes v into column 0, applies the operator once and projects:
// H(0,0) = v₀ᴴ·A·v₀, f = A·v₀ − H(0,0)·v₀.
func (fz *factorization[T]) start(v []T, apply func([]T) ([]T, error)) error {
	nv := fz.ar.norm(v)
	if nv <= fz.tol {
		return ErrDegenerateStartVector
	}
	fz.reset()
	copy(fz.basis[0], v)
	fz.ar.scale(fz.ar.fromFloat(1/nv), fz.basis[0])

	w, err := apply(fz.basis[0])
	if err != nil {
		return err
	}
	fz.orthogonalize(w)
	if fz.reorth {
		fz.orthogonalize(w)
	}
	fz.f = w

	return nil
}

// step extends the factorization by one column. It returns invariant=true,
// leaving the factorization unchanged, when ‖f‖ falls below the tolerance.
//
//	(a) β = ‖f‖, H(k+1,k) = β;  (b) v_{k+1} = f/β;
//	(c) w = A·v_{k+1};          (d) classical Gram-Schmidt against v_0..v_{k+1}.
func (fz *factorization[T]) step(apply func([]T) ([]T, error)) (beta float64, invariant bool, err error) {
	beta = fz.ar.norm(fz.f)
	if beta < fz.tol {
		return beta, true, nil
	}
	next := fz.k + 1
	fz.h[next][fz.k] = fz.ar.fromFloat(beta)
	col := fz.basis[next]
	copy(col, fz.f)
	fz.ar.scale(fz.ar.fromFloat(1/beta), col)
	fz.k = next

	w, err := apply(col)
	if err != nil {
		return beta, false, err
	}
	for j := 0; j <= fz.k; j++ {
		fz.h[j][fz.k] = 0
	}
	fz.orthogonalize(w)
	if fz.reorth {
		fz.orthogonalize(w)
	}
	fz.f = w

	return beta, false, nil
}

// orthogonalize removes the components of w along v_0..v_k (classical
// Gram-Schmidt: all coefficients are taken from the incoming w) and adds
// them to column k of H.
func (fz *factorization[T]) orthogonalize(w []T) {
	k := fz.k
	coef := make([]T, k+1)
	for j := 0; j <= k; j++ {
		coef[j] = fz.ar.dot(fz.basis[j], w)
	}
	for j := 0; j <= k; j++ {
		fz.h[j][k] += coef[j]
		fz.ar.axpy(-coef[j], fz.basis[j], w)
	}
}

// full reports whether all m columns are built.
func (fz *factorization[T]) full() bool { return fz.k+1 >= fz.m }

// residualNorm is ‖f‖.
func (fz *factorization[T]) residualNorm() float64 { return fz.ar.norm(fz.f) }

// truncate applies an implicit restart's accumulated Q (m×m) and shifted H:
//
//	V⁺ = V·Q[:, :n+1],  f⁺ = V⁺[:, n]·H⁺(n, n−1) + f·Q(m−1, n−1),
//	H ← H⁺[:n, :n],     k = n−1.
func (fz *factorization[T]) truncate(q, hs [][]T, n int) {
	m := fz.m
	vnew := make([][]T, n+1)
	for c := 0; c <= n; c++ {
		vnew[c] = make([]T, fz.dim)
		for j := 0; j < m; j++ {
			fz.ar.axpy(q[j][c], fz.basis[j], vnew[c])
		}
	}
	beta := hs[n][n-1]
	sigma := q[m-1][n-1]
	f := make([]T, fz.dim)
	fz.ar.axpy(beta, vnew[n], f)
	fz.ar.axpy(sigma, fz.f, f)
	fz.f = f

	for c := 0; c < m; c++ {
		if c < n {
			copy(fz.basis[c], vnew[c])
		} else {
			clear(fz.basis[c])
		}
	}
	for i := 0; i < m; i++ {
		clear(fz.h[i])
		if i < n {
			copy(fz.h[i][:n], hs[i][:n])
		}
	}
	fz.k = n - 1
}
