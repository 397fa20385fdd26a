// SPDX-License-Identifier: MIT

// Package matrix - CDense: complex row-major storage.
//
// Purpose:
//   - Mirror Dense for complex128 entries: eigenvectors of non-symmetric
//     matrices, Ritz vectors and complex Hessenberg matrices live here.
//   - Same safety contract as Dense: At/Set return errors, never panic.
//
// Complexity quicksheet:
//   - NewCDense: O(r*c); At/Set: O(1); Clone: O(r*c); Col: O(r).

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// cdenseErrorf mirrors denseErrorf for CDense.
func cdenseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("CDense.%s(%d,%d): %w", method, row, col, err)
}

// CDense is a concrete row-major complex matrix (offset = i*c + j).
type CDense struct {
	r, c int
	data []complex128
}

// NewCDense creates an r×c complex zero matrix.
// Errors: ErrInvalidDimensions.
func NewCDense(rows, cols int) (*CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &CDense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// NewCIdentity returns the n×n complex identity.
func NewCIdentity(n int) (*CDense, error) {
	m, err := NewCDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

// NewCDenseFrom copies a rectangular [][]complex128 into a new CDense.
// Errors: ErrInvalidDimensions, ErrRagged, ErrNaNInf.
func NewCDenseFrom(rows [][]complex128) (*CDense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	m, err := NewCDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.r; i++ {
		if len(rows[i]) != m.c {
			return nil, fmt.Errorf("NewCDenseFrom: row %d: %w", i, ErrRagged)
		}
		for j := 0; j < m.c; j++ {
			if isNonFiniteC(rows[i][j]) {
				return nil, cdenseErrorf(ctxSet, i, j, ErrNaNInf)
			}
			m.data[i*m.c+j] = rows[i][j]
		}
	}

	return m, nil
}

// ToComplex promotes a real Dense into a CDense with zero imaginary parts.
// Errors: ErrNilMatrix.
func ToComplex(m *Dense) (*CDense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out := &CDense{r: m.r, c: m.c, data: make([]complex128, len(m.data))}
	for i, v := range m.data {
		out.data[i] = complex(v, 0)
	}

	return out, nil
}

// Rows returns the row count.
func (m *CDense) Rows() int { return m.r }

// Cols returns the column count.
func (m *CDense) Cols() int { return m.c }

// Data exposes the row-major backing slice. Mutations are visible in m.
func (m *CDense) Data() []complex128 { return m.data }

// At returns the value at (row, col) or ErrOutOfRange.
func (m *CDense) At(row, col int) (complex128, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, cdenseErrorf(ctxAt, row, col, ErrOutOfRange)
	}

	return m.data[row*m.c+col], nil
}

// Set stores v at (row, col); non-finite parts are rejected with ErrNaNInf.
func (m *CDense) Set(row, col int, v complex128) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return cdenseErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	if isNonFiniteC(v) {
		return cdenseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[row*m.c+col] = v

	return nil
}

// Clone returns a deep copy.
func (m *CDense) Clone() *CDense {
	cp := make([]complex128, len(m.data))
	copy(cp, m.data)

	return &CDense{r: m.r, c: m.c, data: cp}
}

// Col copies column j into a fresh slice.
func (m *CDense) Col(j int) ([]complex128, error) {
	if j < 0 || j >= m.c {
		return nil, cdenseErrorf(ctxCol, 0, j, ErrOutOfRange)
	}
	out := make([]complex128, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+j]
	}

	return out, nil
}

// SetCol overwrites column j with v.
// Errors: ErrOutOfRange, ErrDimensionMismatch.
func (m *CDense) SetCol(j int, v []complex128) error {
	if j < 0 || j >= m.c {
		return cdenseErrorf(ctxSetCol, 0, j, ErrOutOfRange)
	}
	if len(v) != m.r {
		return cdenseErrorf(ctxSetCol, len(v), j, ErrDimensionMismatch)
	}
	for i := 0; i < m.r; i++ {
		m.data[i*m.c+j] = v[i]
	}

	return nil
}

// Block materializes the copy [r0:r0+rows, c0:c0+cols).
// Errors: ErrOutOfRange.
func (m *CDense) Block(r0, c0, rows, cols int) (*CDense, error) {
	if r0 < 0 || c0 < 0 || rows <= 0 || cols <= 0 || r0+rows > m.r || c0+cols > m.c {
		return nil, fmt.Errorf("CDense.%s(%d,%d,%d,%d): %w", ctxBlock, r0, c0, rows, cols, ErrOutOfRange)
	}
	res := &CDense{r: rows, c: cols, data: make([]complex128, rows*cols)}
	for i := 0; i < rows; i++ {
		copy(res.data[i*cols:(i+1)*cols], m.data[(r0+i)*m.c+c0:(r0+i)*m.c+c0+cols])
	}

	return res, nil
}

// NormalizeColumns scales every non-zero column to unit 2-norm in place.
// Zero columns are left untouched.
// Complexity: O(r*c).
func (m *CDense) NormalizeColumns() {
	var i, j int
	var s float64
	for j = 0; j < m.c; j++ {
		s = 0
		for i = 0; i < m.r; i++ {
			s += sqAbs(m.data[i*m.c+j])
		}
		if s == 0 {
			continue
		}
		s = math.Sqrt(s)
		for i = 0; i < m.r; i++ {
			m.data[i*m.c+j] /= complex(s, 0)
		}
	}
}

// NormalizePhase rotates every non-zero column so that its largest-modulus
// entry (the first one on ties) is real and positive. Norms are unchanged.
// Complexity: O(r*c).
func (m *CDense) NormalizePhase() {
	var i, j, big int
	var best, a float64
	for j = 0; j < m.c; j++ {
		big, best = -1, 0
		for i = 0; i < m.r; i++ {
			if a = sqAbs(m.data[i*m.c+j]); a > best {
				big, best = i, a
			}
		}
		if big < 0 {
			continue
		}
		z := m.data[big*m.c+j]
		rot := complex(cmplx.Abs(z), 0) / z
		for i = 0; i < m.r; i++ {
			m.data[i*m.c+j] *= rot
		}
		m.data[big*m.c+j] = complex(cmplx.Abs(z), 0)
	}
}

// isNonFiniteC reports NaN or Inf in either component.
func isNonFiniteC(v complex128) bool { return cmplx.IsNaN(v) || cmplx.IsInf(v) }

// sqAbs returns |z|² without the square root.
func sqAbs(z complex128) float64 { return real(z)*real(z) + imag(z)*imag(z) }
