// SPDX-License-Identifier: MIT

// Package matrix - complex row-major storage for Hermitian solutions and
// complex factors Y (X = Y·Yᴴ).
//
// Hermitian eigenproblems are reduced to real symmetric ones through the
// embedding H = A + iB  ↦  [[A, −B], [B, A]] (see RealEmbedding), which keeps a
// single eigen kernel (Jacobi) for both fields.

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

const (
	opConjTranspose = "ConjTranspose"
	opCMul          = "CMul"
	opCGram         = "CGram"
	opEmbedding     = "RealEmbedding"
	opHermitian     = "ValidateHermitian"
	opCMatVec       = "CMatVec"
)

// CDense is a row-major complex128 matrix.
type CDense struct {
	r, c int
	data []complex128
}

// NewCDense creates an r×c complex zero matrix.
func NewCDense(rows, cols int) (*CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &CDense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// NewCDenseFromParts builds re + i·im. im may be nil (purely real matrix).
func NewCDenseFromParts(re, im *Dense) (*CDense, error) {
	if re == nil {
		return nil, ErrNilMatrix
	}
	if im != nil && (im.r != re.r || im.c != re.c) {
		return nil, ErrDimensionMismatch
	}
	m := &CDense{r: re.r, c: re.c, data: make([]complex128, len(re.data))}
	for k := range re.data {
		if im != nil {
			m.data[k] = complex(re.data[k], im.data[k])
		} else {
			m.data[k] = complex(re.data[k], 0)
		}
	}

	return m, nil
}

// NewCDenseFromRows builds a CDense from a rectangular literal (copied).
func NewCDenseFromRows(rows [][]complex128) (*CDense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	r, c := len(rows), len(rows[0])
	m := &CDense{r: r, c: c, data: make([]complex128, r*c)}
	for i := 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("NewCDenseFromRows: row %d: %w", i, ErrRaggedRows)
		}
		copy(m.data[i*c:(i+1)*c], rows[i])
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *CDense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *CDense) Cols() int { return m.c }

// At returns the element at (row, col) or ErrOutOfRange.
func (m *CDense) At(row, col int) (complex128, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("CDense.At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return m.data[row*m.c+col], nil
}

// Set assigns v at (row, col). Non-finite parts are rejected with ErrNaNInf.
func (m *CDense) Set(row, col int, v complex128) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return fmt.Errorf("CDense.Set(%d,%d): %w", row, col, ErrOutOfRange)
	}
	if cmplx.IsNaN(v) || cmplx.IsInf(v) {
		return fmt.Errorf("CDense.Set(%d,%d): %w", row, col, ErrNaNInf)
	}
	m.data[row*m.c+col] = v

	return nil
}

// Copy returns a deep copy.
func (m *CDense) Copy() *CDense {
	cp := make([]complex128, len(m.data))
	copy(cp, m.data)

	return &CDense{r: m.r, c: m.c, data: cp}
}

// Row returns a copy of row i (nil if out of range).
func (m *CDense) Row(i int) []complex128 {
	if i < 0 || i >= m.r {
		return nil
	}
	out := make([]complex128, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out
}

// Real returns the real part as a Dense.
func (m *CDense) Real() *Dense {
	res := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for k, v := range m.data {
		res.data[k] = real(v)
	}

	return res
}

// Imag returns the imaginary part as a Dense.
func (m *CDense) Imag() *Dense {
	res := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for k, v := range m.data {
		res.data[k] = imag(v)
	}

	return res
}

// ConjTranspose returns mᴴ.
func ConjTranspose(m *CDense) (*CDense, error) {
	if m == nil {
		return nil, matrixErrorf(opConjTranspose, ErrNilMatrix)
	}
	res := &CDense{r: m.c, c: m.r, data: make([]complex128, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = cmplx.Conj(m.data[i*m.c+j])
		}
	}

	return res, nil
}

// CMul returns a × b.
func CMul(a, b *CDense) (*CDense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opCMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opCMul, ErrDimensionMismatch)
	}
	res := &CDense{r: a.r, c: b.c, data: make([]complex128, a.r*b.c)}
	var i, j, k int
	var av complex128
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			av = a.data[i*a.c+k]
			if av == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				res.data[i*b.c+j] += av * b.data[k*b.c+j]
			}
		}
	}

	return res, nil
}

// CMatVec returns y = m·x for a complex vector x.
func CMatVec(m *CDense, x []complex128) ([]complex128, error) {
	if m == nil {
		return nil, matrixErrorf(opCMatVec, ErrNilMatrix)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opCMatVec, ErrDimensionMismatch)
	}
	y := make([]complex128, m.r)
	for i := 0; i < m.r; i++ {
		var acc complex128
		for j := 0; j < m.c; j++ {
			acc += m.data[i*m.c+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// CGram returns Y·Yᴴ. The diagonal is forced real and the lower triangle is
// the conjugate mirror of the upper one, so the result is exactly Hermitian.
func CGram(y *CDense) (*CDense, error) {
	if y == nil {
		return nil, matrixErrorf(opCGram, ErrNilMatrix)
	}
	n, d := y.r, y.c
	res := &CDense{r: n, c: n, data: make([]complex128, n*n)}
	var i, j, k int
	var acc complex128
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			acc = 0
			for k = 0; k < d; k++ {
				acc += y.data[i*d+k] * cmplx.Conj(y.data[j*d+k])
			}
			if i == j {
				acc = complex(real(acc), 0)
			}
			res.data[i*n+j] = acc
			res.data[j*n+i] = cmplx.Conj(acc)
		}
	}

	return res, nil
}

// ValidateHermitian checks |H[i,j] − conj(H[j,i])| ≤ tol (diagonal imaginary parts included).
func ValidateHermitian(h *CDense, tol float64) error {
	if h == nil {
		return matrixErrorf(opHermitian, ErrNilMatrix)
	}
	if h.r != h.c {
		return matrixErrorf(opHermitian, ErrNonSquare)
	}
	n := h.r
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(h.data[i*n+j]-cmplx.Conj(h.data[j*n+i])) > math.Abs(tol) {
				return matrixErrorf(opHermitian, ErrAsymmetry)
			}
		}
	}

	return nil
}

// RealEmbedding maps a Hermitian H = A + iB (n×n) to the real symmetric
// 2n×2n matrix [[A, −B], [B, A]]. Every eigenvalue λ of H appears twice in
// the embedding, with eigenvectors [u; w] and [−w; u] for z = u + i·w.
//
// The input is Hermitised first (½(H + Hᴴ)) so the output is exactly symmetric.
func RealEmbedding(h *CDense) (*Dense, error) {
	if h == nil {
		return nil, matrixErrorf(opEmbedding, ErrNilMatrix)
	}
	if h.r != h.c {
		return nil, matrixErrorf(opEmbedding, ErrNonSquare)
	}
	n := h.r
	m := 2 * n
	res := &Dense{r: m, c: m, data: make([]float64, m*m)}
	var i, j int
	var v complex128
	var a, b float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v = 0.5 * (h.data[i*n+j] + cmplx.Conj(h.data[j*n+i]))
			a, b = real(v), imag(v)
			res.data[i*m+j] = a
			res.data[i*m+(j+n)] = -b
			res.data[(i+n)*m+j] = b
			res.data[(i+n)*m+(j+n)] = a
		}
	}

	return res, nil
}

// CFrobeniusNorm returns sqrt(Σ |m[i,j]|^2).
func CFrobeniusNorm(m *CDense) float64 {
	if m == nil {
		return 0
	}
	var s float64
	for _, v := range m.data {
		s += real(v)*real(v) + imag(v)*imag(v)
	}

	return math.Sqrt(s)
}

// CRowNorms returns the Euclidean norm of every row.
func CRowNorms(m *CDense) []float64 {
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		var s float64
		for j := 0; j < m.c; j++ {
			v := m.data[i*m.c+j]
			s += real(v)*real(v) + imag(v)*imag(v)
		}
		out[i] = math.Sqrt(s)
	}

	return out
}

// CNormalizeRows scales every row to unit norm; zero rows map to e_1.
func CNormalizeRows(m *CDense) (*CDense, error) {
	if m == nil {
		return nil, matrixErrorf(opNormalizeRows, ErrNilMatrix)
	}
	res := m.Copy()
	norms := CRowNorms(m)
	for i := 0; i < m.r; i++ {
		if norms[i] == 0 {
			res.data[i*m.c] = 1
			continue
		}
		for j := 0; j < m.c; j++ {
			res.data[i*m.c+j] /= complex(norms[i], 0)
		}
	}

	return res, nil
}
