// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Columns: O(r*k).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt      = "At"
	ctxSet     = "Set"
	ctxApply   = "Apply"
	ctxColumns = "Columns"
	ctxRows    = "NewFromRows"
)

const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//
// Dense values are owned by exactly one component at a time; kernels in this
// package never mutate their operands and always allocate a fresh result.
type Dense struct {
	r, c int       // row and column counts (>0)
	data []float64 // contiguous row-major storage (len == r*c)
}

var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// Returns ErrInvalidDimensions when rows<=0 or cols<=0.
//
// Complexity: O(r*c) time and space.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewFromRows builds a Dense from a rectangular [][]float64 literal (copied).
// Errors: ErrInvalidDimensions (empty input), ErrRaggedRows, ErrNaNInf.
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	r, c := len(rows), len(rows[0])
	m := &Dense{r: r, c: c, data: make([]float64, r*c)}
	var i, j int
	for i = 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d: %w", ctxRows, i, ErrRaggedRows)
		}
		for j = 0; j < c; j++ {
			if math.IsNaN(rows[i][j]) || math.IsInf(rows[i][j], 0) {
				return nil, denseErrorf(ctxRows, i, j, ErrNaNInf)
			}
			m.data[i*c+j] = rows[i][j]
		}
	}

	return m, nil
}

// NewColumn wraps a vector as an n×1 Dense (copied).
func NewColumn(v []float64) (*Dense, error) {
	if len(v) == 0 {
		return nil, ErrInvalidDimensions
	}
	m := &Dense{r: len(v), c: 1, data: make([]float64, len(v))}
	copy(m.data, v)

	return m, nil
}

// NewIdentity returns I_n.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NewDiagonal returns diag(d) as a len(d)×len(d) matrix.
func NewDiagonal(d []float64) (*Dense, error) {
	n := len(d)
	D, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		D.data[i*n+i] = d[i]
	}

	return D, nil
}

// NewFilled returns a rows×cols matrix with every entry equal to v
// (e.g. the all-ones matrix J used by the Lovász objective).
func NewFilled(rows, cols int, v float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	for k := range m.data {
		m.data[k] = v
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the element at (row, col) or ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set assigns v at (row, col). NaN/Inf are rejected with ErrNaNInf.
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy of m as the Matrix interface.
func (m *Dense) Clone() Matrix { return m.Copy() }

// Copy returns a deep copy of m with its concrete type preserved.
// Complexity: O(r*c).
func (m *Dense) Copy() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp}
}

// Row returns a copy of row i (nil if out of range).
func (m *Dense) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		return nil
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out
}

// Col returns a copy of column j (nil if out of range).
func (m *Dense) Col(j int) []float64 {
	if j < 0 || j >= m.c {
		return nil
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+j]
	}

	return out
}

// Diag returns a copy of the main diagonal (length min(r,c)).
func (m *Dense) Diag() []float64 {
	k := m.r
	if m.c < k {
		k = m.c
	}
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		out[i] = m.data[i*m.c+i]
	}

	return out
}

// RawRowMajor returns a copy of the row-major buffer.
// Used by codecs that must serialise the exact layout.
func (m *Dense) RawRowMajor() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// NewFromRowMajor rebuilds a Dense from (rows, cols, data) as produced by RawRowMajor.
func NewFromRowMajor(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, ErrDimensionMismatch
	}
	m := &Dense{r: rows, c: cols, data: make([]float64, len(data))}
	copy(m.data, data)

	return m, nil
}

// Columns materialises the first k columns as a new r×k matrix.
// Errors: ErrOutOfRange when k<1 or k>Cols().
func (m *Dense) Columns(k int) (*Dense, error) {
	if k < 1 || k > m.c {
		return nil, fmt.Errorf("Dense.%s(%d): %w", ctxColumns, k, ErrOutOfRange)
	}
	res := &Dense{r: m.r, c: k, data: make([]float64, m.r*k)}
	for i := 0; i < m.r; i++ {
		copy(res.data[i*k:(i+1)*k], m.data[i*m.c:i*m.c+k])
	}

	return res, nil
}

// String renders rows as "[a, b, ...]\n".
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// Do visits every element in row-major order; returning false stops the walk.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// Apply replaces every element with f(i, j, v). Non-finite results abort with ErrNaNInf.
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	var i, j, base int
	var nv float64
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			nv = f(i, j, m.data[base+j])
			if math.IsNaN(nv) || math.IsInf(nv, 0) {
				return denseErrorf(ctxApply, i, j, ErrNaNInf)
			}
			m.data[base+j] = nv
		}
	}

	return nil
}
