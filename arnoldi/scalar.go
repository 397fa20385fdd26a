// SPDX-License-Identifier: MIT

package arnoldi

import (
	"math"
	"math/cmplx"

	"github.com/katalvlaran/mcarnoldi/eigen"
	"github.com/katalvlaran/mcarnoldi/matrix"
)

// arithmetic carries everything that differs between the real and complex
// instantiations: Level-1 kernels, the dense decomposition of H and the
// shifted-QR sweep of an implicit restart.
//
// Slice lengths are equal by construction at every call site, so the
// dimension errors of the matrix kernels cannot occur here.
type arithmetic[T Scalar] interface {
	dot(x, y []T) T // conjugate-linear in x
	norm(x []T) float64
	axpy(alpha T, x, y []T)
	scale(alpha T, x []T)
	fromFloat(v float64) T
	abs(v T) float64
	// fromComplex maps a complex restart vector into working arithmetic.
	fromComplex(v []complex128) []T

	// decompose returns the eigenpairs of the leading k×k block of h.
	decompose(h [][]T, k int) ([]complex128, *matrix.CDense, error)
	// ritz forms basis[:k]·y, one complex vector per column of y.
	ritz(basis [][]T, k int, y *matrix.CDense) ([][]complex128, error)
	// sweep applies the shifts to h (m×m), returning the accumulated Q and the shifted H.
	sweep(h [][]T, shifts []complex128, imagTol float64) (q, hs [][]T, err error)
	// hessenberg reports matrix.ErrNotHessenberg for fill below the first subdiagonal of h.
	hessenberg(h [][]T) error
}

// ---------- real arithmetic ----------

type realArithmetic struct {
	dec eigen.Decomposer
	fac eigen.Factorizer
}

func (realArithmetic) dot(x, y []float64) float64 {
	d, _ := matrix.Dot(x, y)
	return d
}

func (realArithmetic) norm(x []float64) float64 { return matrix.Norm2(x) }

func (realArithmetic) axpy(alpha float64, x, y []float64) { _ = matrix.Axpy(alpha, x, y) }

func (realArithmetic) scale(alpha float64, x []float64) { matrix.Scale(alpha, x) }

func (realArithmetic) fromFloat(v float64) float64 { return v }

func (realArithmetic) abs(v float64) float64 { return math.Abs(v) }

func (realArithmetic) fromComplex(v []complex128) []float64 {
	out := make([]float64, len(v))
	for i, z := range v {
		out[i] = real(z)
	}

	return out
}

func (a realArithmetic) decompose(h [][]float64, k int) ([]complex128, *matrix.CDense, error) {
	hm, err := matrix.NewDenseFrom(h)
	if err != nil {
		return nil, nil, err
	}
	hk, err := hm.Block(0, 0, k, k)
	if err != nil {
		return nil, nil, err
	}

	return a.dec.Decompose(hk)
}

func (realArithmetic) hessenberg(h [][]float64) error {
	hm, err := matrix.NewDenseFrom(h)
	if err != nil {
		return err
	}

	return matrix.ValidateHessenberg(hm, 0)
}

func (realArithmetic) ritz(basis [][]float64, k int, y *matrix.CDense) ([][]complex128, error) {
	v, err := matrix.NewDense(len(basis[0]), k)
	if err != nil {
		return nil, err
	}
	for j := 0; j < k; j++ {
		if err = v.SetCol(j, basis[j]); err != nil {
			return nil, err
		}
	}
	x, err := matrix.MulRealComplex(v, y)
	if err != nil {
		return nil, err
	}

	return columnsOf(x)
}

// sweep runs one shifted-QR step per real shift and one implicit double
// shift per complex-conjugate pair found adjacent in the shift list:
//
//	M = H² − 2·Re(μ)·H + |μ|²·I,  M = Q·R,  H ← Qᵀ·H·Q,  Qacc ← Qacc·Q.
//
// A complex shift whose partner is not in the list degrades to the real shift Re(μ).
func (a realArithmetic) sweep(h [][]float64, shifts []complex128, imagTol float64) ([][]float64, [][]float64, error) {
	m := len(h)
	hm, err := matrix.NewDenseFrom(h)
	if err != nil {
		return nil, nil, err
	}
	qacc, err := matrix.NewIdentity(m)
	if err != nil {
		return nil, nil, err
	}
	var shifted *matrix.Dense
	for i := 0; i < len(shifts); {
		mu := shifts[i]
		if isComplexShift(mu, imagTol) && i+1 < len(shifts) && isConjugate(mu, shifts[i+1], imagTol) {
			if shifted, err = matrix.Mul(hm, hm); err != nil {
				return nil, nil, err
			}
			sd, hd := shifted.Data(), hm.Data()
			s, t := -2*real(mu), real(mu)*real(mu)+imag(mu)*imag(mu)
			for idx := range sd {
				sd[idx] += s * hd[idx]
			}
			for d := 0; d < m; d++ {
				sd[d*m+d] += t
			}
			i += 2
		} else {
			shifted = hm.Clone()
			sd := shifted.Data()
			for d := 0; d < m; d++ {
				sd[d*m+d] -= real(mu)
			}
			i++
		}

		q, _, err := a.fac.Factorize(shifted)
		if err != nil {
			return nil, nil, err
		}
		qt, err := matrix.Transpose(q)
		if err != nil {
			return nil, nil, err
		}
		if hm, err = matrix.Mul(qt, hm); err != nil {
			return nil, nil, err
		}
		if hm, err = matrix.Mul(hm, q); err != nil {
			return nil, nil, err
		}
		if qacc, err = matrix.Mul(qacc, q); err != nil {
			return nil, nil, err
		}
		clearBelowSubdiagonal(hm.Data(), m)
	}

	return rowsOf(qacc), rowsOf(hm), nil
}

// ---------- complex arithmetic ----------

type complexArithmetic struct {
	dec eigen.ComplexDecomposer
	fac eigen.ComplexFactorizer
}

func (complexArithmetic) dot(x, y []complex128) complex128 {
	d, _ := matrix.CDot(x, y)
	return d
}

func (complexArithmetic) norm(x []complex128) float64 { return matrix.CNorm2(x) }

func (complexArithmetic) axpy(alpha complex128, x, y []complex128) { _ = matrix.CAxpy(alpha, x, y) }

func (complexArithmetic) scale(alpha complex128, x []complex128) { matrix.CScale(alpha, x) }

func (complexArithmetic) fromFloat(v float64) complex128 { return complex(v, 0) }

func (complexArithmetic) abs(v complex128) float64 { return cmplx.Abs(v) }

func (complexArithmetic) fromComplex(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	copy(out, v)

	return out
}

func (a complexArithmetic) decompose(h [][]complex128, k int) ([]complex128, *matrix.CDense, error) {
	hm, err := matrix.NewCDenseFrom(h)
	if err != nil {
		return nil, nil, err
	}
	hk, err := hm.Block(0, 0, k, k)
	if err != nil {
		return nil, nil, err
	}

	return a.dec.DecomposeComplex(hk)
}

func (complexArithmetic) hessenberg(h [][]complex128) error {
	hm, err := matrix.NewCDenseFrom(h)
	if err != nil {
		return err
	}
	if !matrix.IsUpperHessenbergC(hm, 0) {
		return matrix.ErrNotHessenberg
	}

	return nil
}

func (complexArithmetic) ritz(basis [][]complex128, k int, y *matrix.CDense) ([][]complex128, error) {
	v, err := matrix.NewCDense(len(basis[0]), k)
	if err != nil {
		return nil, err
	}
	for j := 0; j < k; j++ {
		if err = v.SetCol(j, basis[j]); err != nil {
			return nil, err
		}
	}
	x, err := matrix.CMul(v, y)
	if err != nil {
		return nil, err
	}

	return columnsOf(x)
}

// sweep runs one single-shift QR step per shift: H ← Qᴴ·H·Q with Q from QR(H − μI).
func (a complexArithmetic) sweep(h [][]complex128, shifts []complex128, _ float64) ([][]complex128, [][]complex128, error) {
	m := len(h)
	hm, err := matrix.NewCDenseFrom(h)
	if err != nil {
		return nil, nil, err
	}
	qacc, err := matrix.NewCIdentity(m)
	if err != nil {
		return nil, nil, err
	}
	for _, mu := range shifts {
		shifted := hm.Clone()
		sd := shifted.Data()
		for d := 0; d < m; d++ {
			sd[d*m+d] -= mu
		}
		q, _, err := a.fac.FactorizeComplex(shifted)
		if err != nil {
			return nil, nil, err
		}
		qh, err := matrix.ConjTranspose(q)
		if err != nil {
			return nil, nil, err
		}
		if hm, err = matrix.CMul(qh, hm); err != nil {
			return nil, nil, err
		}
		if hm, err = matrix.CMul(hm, q); err != nil {
			return nil, nil, err
		}
		if qacc, err = matrix.CMul(qacc, q); err != nil {
			return nil, nil, err
		}
		clearBelowSubdiagonal(hm.Data(), m)
	}

	q := make([][]complex128, m)
	hs := make([][]complex128, m)
	qd, hd := qacc.Data(), hm.Data()
	for i := 0; i < m; i++ {
		q[i] = append([]complex128(nil), qd[i*m:(i+1)*m]...)
		hs[i] = append([]complex128(nil), hd[i*m:(i+1)*m]...)
	}

	return q, hs, nil
}

// ---------- helpers ----------

// clearBelowSubdiagonal zeroes entries (i, j) with i > j+1 of a row-major m×m buffer.
func clearBelowSubdiagonal[T Scalar](d []T, m int) {
	for i := 2; i < m; i++ {
		for j := 0; j < i-1; j++ {
			d[i*m+j] = 0
		}
	}
}

func isComplexShift(mu complex128, tol float64) bool {
	return math.Abs(imag(mu)) > tol*math.Max(cmplx.Abs(mu), 1)
}

func isConjugate(mu, nu complex128, tol float64) bool {
	return cmplx.Abs(nu-cmplx.Conj(mu)) <= math.Max(tol, 1e-8)*math.Max(cmplx.Abs(mu), 1)
}

func rowsOf(m *matrix.Dense) [][]float64 {
	r, c := m.Shape()
	d := m.Data()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = append([]float64(nil), d[i*c:(i+1)*c]...)
	}

	return out
}

func columnsOf(x *matrix.CDense) ([][]complex128, error) {
	out := make([][]complex128, x.Cols())
	var err error
	for j := range out {
		if out[j], err = x.Col(j); err != nil {
			return nil, err
		}
	}

	return out, nil
}
