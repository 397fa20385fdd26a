// SPDX-License-Identifier: MIT

package eigen

import (
	"math"
	"math/cmplx"

	"github.com/katalvlaran/mcarnoldi/matrix"
)

const (
	opSchur = "Schur.Decompose"

	// machEps is the float64 unit roundoff used for deflation and back-substitution guards.
	machEps = 2.220446049250313e-16

	// defaultMaxSweeps bounds QR sweeps per active block size.
	defaultMaxSweeps = 30

	// exceptionalEvery injects an ad hoc shift to break cycles.
	exceptionalEvery = 10
)

// Schur computes eigenpairs through the complex Schur form T = Zᴴ·A·Z.
//
// MaxSweeps bounds QR sweeps per eigenvalue (0 → 30).
type Schur struct {
	MaxSweeps int
}

// Decompose promotes real input to complex and calls DecomposeComplex.
func (s Schur) Decompose(h *matrix.Dense) ([]complex128, *matrix.CDense, error) {
	if err := matrix.ValidateSquareNonNil(h); err != nil {
		return nil, nil, eigenErrorf(opSchur, errJoin(ErrDecomposition, err))
	}
	c, err := matrix.ToComplex(h)
	if err != nil {
		return nil, nil, eigenErrorf(opSchur, errJoin(ErrDecomposition, err))
	}

	return s.DecomposeComplex(c)
}

// DecomposeComplex returns the eigenvalues of h and unit-norm right eigenvectors.
//
// Implementation:
//   - Stage 1: Householder reduction to upper Hessenberg form, accumulating Z.
//   - Stage 2: single-shift QR sweeps with Givens rotations on the active window
//     [l, hi]; Wilkinson shift, an exceptional shift every 10 sweeps; deflate when
//     |H[l,l−1]| <= eps·(|H[l−1,l−1]| + |H[l,l]|).
//   - Stage 3: back-substitution on the triangular T for each eigenvector Y[:,k],
//     X = Z·Y, then column normalization.
//
// Errors:
//   - ErrDecomposition (shape, non-finite input), ErrNoConvergence (sweep budget).
//
// Complexity:
//   - Time O(n³) typical, Space O(n²).
func (s Schur) DecomposeComplex(h *matrix.CDense) ([]complex128, *matrix.CDense, error) {
	if h == nil {
		return nil, nil, eigenErrorf(opSchur, errJoin(ErrDecomposition, matrix.ErrNilMatrix))
	}
	if h.Rows() != h.Cols() {
		return nil, nil, eigenErrorf(opSchur, errJoin(ErrDecomposition, matrix.ErrNonSquare))
	}
	n := h.Rows()
	t := h.Clone()
	T := t.Data()
	for _, v := range T {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, nil, eigenErrorf(opSchur, errJoin(ErrDecomposition, matrix.ErrNaNInf))
		}
	}
	zm, err := matrix.NewCIdentity(n)
	if err != nil {
		return nil, nil, eigenErrorf(opSchur, err)
	}
	Z := zm.Data()

	reduceHessenberg(T, Z, n)

	maxSweeps := s.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = defaultMaxSweeps
	}
	if err = qrSweeps(T, Z, n, maxSweeps); err != nil {
		return nil, nil, eigenErrorf(opSchur, err)
	}

	values := make([]complex128, n)
	for i := 0; i < n; i++ {
		values[i] = T[i*n+i]
	}

	ym := triangularEigenvectors(T, n)
	x, err := matrix.CMul(zm, ym)
	if err != nil {
		return nil, nil, eigenErrorf(opSchur, err)
	}
	x.NormalizeColumns()

	return values, x, nil
}

// reduceHessenberg overwrites T (n×n, row-major) with Qᴴ·T·Q in upper Hessenberg
// form and accumulates Z ← Z·Q.
func reduceHessenberg(T, Z []complex128, n int) {
	v := make([]complex128, n)
	var (
		i, j, k, m int
		nx, vv     float64
		phase      complex128
		alpha, sum complex128
		tau        complex128
	)
	for k = 0; k < n-2; k++ {
		m = n - k - 1 // reflector length over rows k+1..n-1
		nx = 0
		for i = 0; i < m; i++ {
			nx += sqAbs(T[(k+1+i)*n+k])
		}
		nx = math.Sqrt(nx)
		if nx == 0 {
			continue
		}
		phase = 1
		if a := cmplx.Abs(T[(k+1)*n+k]); a > 0 {
			phase = T[(k+1)*n+k] / complex(a, 0)
		}
		alpha = -phase * complex(nx, 0)
		for i = 0; i < m; i++ {
			v[i] = T[(k+1+i)*n+k]
		}
		v[0] -= alpha
		vv = 0
		for i = 0; i < m; i++ {
			vv += sqAbs(v[i])
		}
		if vv == 0 {
			continue
		}
		tau = complex(2/vv, 0)

		// left: rows k+1..n-1
		for j = 0; j < n; j++ {
			sum = 0
			for i = 0; i < m; i++ {
				sum += cmplx.Conj(v[i]) * T[(k+1+i)*n+j]
			}
			for i = 0; i < m; i++ {
				T[(k+1+i)*n+j] -= tau * v[i] * sum
			}
		}
		// right: cols k+1..n-1, on T and Z
		for i = 0; i < n; i++ {
			sum = 0
			for j = 0; j < m; j++ {
				sum += T[i*n+k+1+j] * v[j]
			}
			for j = 0; j < m; j++ {
				T[i*n+k+1+j] -= tau * sum * cmplx.Conj(v[j])
			}
			sum = 0
			for j = 0; j < m; j++ {
				sum += Z[i*n+k+1+j] * v[j]
			}
			for j = 0; j < m; j++ {
				Z[i*n+k+1+j] -= tau * sum * cmplx.Conj(v[j])
			}
		}
		for i = k + 2; i < n; i++ {
			T[i*n+k] = 0
		}
	}
}

// givens returns (c, s) with c real such that the rotation
// [c s; −conj(s) c] maps (a, b) to (r, 0).
func givens(a, b complex128) (float64, complex128) {
	if b == 0 {
		return 1, 0
	}
	if a == 0 {
		return 0, 1
	}
	aa := cmplx.Abs(a)
	r := math.Hypot(aa, cmplx.Abs(b))
	c := aa / r
	s := (a / complex(aa, 0)) * cmplx.Conj(b) / complex(r, 0)

	return c, s
}

// qrSweeps drives the Hessenberg T to upper triangular form, accumulating rotations in Z.
func qrSweeps(T, Z []complex128, n, maxSweeps int) error {
	var norm float64
	for _, v := range T {
		norm += sqAbs(v)
	}
	norm = math.Sqrt(norm)

	type rot struct {
		c float64
		s complex128
	}
	rots := make([]rot, n)

	hi := n - 1
	its := 0
	var (
		l, k, i, j, top int
		scale           float64
		a, b, c, d, mu  complex128
		x, y            complex128
	)
	for hi > 0 {
		// look for a negligible subdiagonal entry
		for l = hi; l > 0; l-- {
			scale = cmplx.Abs(T[(l-1)*n+l-1]) + cmplx.Abs(T[l*n+l])
			if scale == 0 {
				scale = norm
			}
			if cmplx.Abs(T[l*n+l-1]) <= machEps*scale {
				T[l*n+l-1] = 0
				break
			}
		}
		if l == hi {
			hi--
			its = 0
			continue
		}
		its++
		if its > maxSweeps*(hi-l+1) {
			return ErrNoConvergence
		}

		a, b = T[(hi-1)*n+hi-1], T[(hi-1)*n+hi]
		c, d = T[hi*n+hi-1], T[hi*n+hi]
		if its%exceptionalEvery == 0 {
			mu = d + complex(cmplx.Abs(c), 0)
		} else {
			// Wilkinson: eigenvalue of the trailing 2×2 closer to d
			half := (a - d) / 2
			disc := cmplx.Sqrt(half*half + b*c)
			m1 := (a+d)/2 + disc
			m2 := (a+d)/2 - disc
			mu = m2
			if cmplx.Abs(m1-d) < cmplx.Abs(m2-d) {
				mu = m1
			}
		}

		for i = l; i <= hi; i++ {
			T[i*n+i] -= mu
		}
		// R = Gᴴ·(T − μI)
		for k = l; k < hi; k++ {
			rots[k].c, rots[k].s = givens(T[k*n+k], T[(k+1)*n+k])
			cr, s := complex(rots[k].c, 0), rots[k].s
			for j = k; j < n; j++ {
				x, y = T[k*n+j], T[(k+1)*n+j]
				T[k*n+j] = cr*x + s*y
				T[(k+1)*n+j] = -cmplx.Conj(s)*x + cr*y
			}
			T[(k+1)*n+k] = 0
		}
		// T = R·G + μI, Z = Z·G
		for k = l; k < hi; k++ {
			cr, s := complex(rots[k].c, 0), rots[k].s
			top = k + 2
			if top > hi {
				top = hi
			}
			for i = 0; i <= top; i++ {
				x, y = T[i*n+k], T[i*n+k+1]
				T[i*n+k] = cr*x + cmplx.Conj(s)*y
				T[i*n+k+1] = -s*x + cr*y
			}
			for i = 0; i < n; i++ {
				x, y = Z[i*n+k], Z[i*n+k+1]
				Z[i*n+k] = cr*x + cmplx.Conj(s)*y
				Z[i*n+k+1] = -s*x + cr*y
			}
		}
		for i = l; i <= hi; i++ {
			T[i*n+i] += mu
		}
	}

	return nil
}

// triangularEigenvectors solves (T − t_kk·I)·y = 0 with y_k = 1 for every k.
// Tiny pivots are lifted to eps·‖T‖ so repeated eigenvalues stay finite.
func triangularEigenvectors(T []complex128, n int) *matrix.CDense {
	var norm float64
	for _, v := range T {
		norm += sqAbs(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = math.SmallestNonzeroFloat64
	}
	small := machEps * norm

	ym, _ := matrix.NewCDense(n, n) // n > 0 was validated by the caller
	Y := ym.Data()
	var (
		j, k, l int
		sum, dd complex128
	)
	for k = 0; k < n; k++ {
		Y[k*n+k] = 1
		for j = k - 1; j >= 0; j-- {
			sum = 0
			for l = j + 1; l <= k; l++ {
				sum += T[j*n+l] * Y[l*n+k]
			}
			dd = T[j*n+j] - T[k*n+k]
			if cmplx.Abs(dd) < small {
				dd = complex(small, 0)
			}
			Y[j*n+k] = -sum / dd
		}
	}

	return ym
}

// sqAbs returns |z|² without the square root.
func sqAbs(z complex128) float64 { return real(z)*real(z) + imag(z)*imag(z) }
