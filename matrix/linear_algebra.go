// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels shared by the spectral
// pipeline: element-wise Add/Sub/Scale, Mul, Transpose, Gram products,
// trace/inner products, norms and row normalisation.
//
// Determinism & Policy:
//   - Inputs are never mutated; every kernel allocates a fresh result.
//   - Fixed loop orders (i→k→j for Mul) produce bit-identical results for identical inputs.
//   - Validation happens through validators.go; errors are wrapped with an op tag.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value of every accumulation.
const ZeroSum = 0.0

const (
	opAdd           = "Add"
	opSub           = "Sub"
	opMul           = "Mul"
	opTranspose     = "Transpose"
	opScale         = "Scale"
	opMatVec        = "MatVec"
	opGram          = "Gram"
	opTrace         = "Trace"
	opInner         = "Inner"
	opSymmetrize    = "Symmetrize"
	opScaleColumns  = "ScaleColumns"
	opNormalizeRows = "NormalizeRows"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	for k := range a.data {
		res.data[k] = a.data[k] + sign*b.data[k]
	}

	return res, nil
}

// Add returns a + b. Complexity: O(rc).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b. Complexity: O(rc).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Scale returns alpha*m.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for k, v := range m.data {
		res.data[k] = alpha * v
	}

	return res, nil
}

// Mul returns the matrix product a × b.
// Loop order i→k→j keeps the inner loop on contiguous rows; zero a[i,k] are skipped.
//
// Complexity: O(r*n*c) time, O(r*c) space.
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.r, a.c, b.c
	res := &Dense{r: aRows, c: bCols, data: make([]float64, aRows*bCols)}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = a.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * b.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// MatVec returns y = m·x.
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	var i, j, base int
	var acc float64
	for i = 0; i < m.r; i++ {
		acc = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			acc += m.data[base+j] * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// Gram returns Y·Yᵀ (n×n for an n×d factor). The result is exactly symmetric:
// only the upper triangle is computed and mirrored.
//
// Complexity: O(n^2 d).
func Gram(y *Dense) (*Dense, error) {
	if err := ValidateNotNil(y); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	n, d := y.r, y.c
	res := &Dense{r: n, c: n, data: make([]float64, n*n)}
	var i, j, k int
	var acc float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			acc = ZeroSum
			for k = 0; k < d; k++ {
				acc += y.data[i*d+k] * y.data[j*d+k]
			}
			res.data[i*n+j] = acc
			res.data[j*n+i] = acc
		}
	}

	return res, nil
}

// Trace returns Σ m[i,i] of a square matrix.
func Trace(m *Dense) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	var s float64
	for i := 0; i < m.r; i++ {
		s += m.data[i*m.c+i]
	}

	return s, nil
}

// Inner returns the Frobenius inner product Σ a[i,j]·b[i,j] = trace(aᵀb).
// For symmetric operands this equals trace(a·b), the linear SDP objective.
func Inner(a, b *Dense) (float64, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opInner, err)
	}
	var s float64
	for k := range a.data {
		s += a.data[k] * b.data[k]
	}

	return s, nil
}

// FrobeniusNorm returns sqrt(Σ m[i,j]^2). A nil matrix has norm 0.
func FrobeniusNorm(m *Dense) float64 {
	if m == nil {
		return 0
	}
	var s float64
	for _, v := range m.data {
		s += v * v
	}

	return math.Sqrt(s)
}

// MaxAbs returns max |m[i,j]|.
func MaxAbs(m *Dense) float64 {
	if m == nil {
		return 0
	}
	var mx float64
	for _, v := range m.data {
		if a := math.Abs(v); a > mx {
			mx = a
		}
	}

	return mx
}

// Symmetrize returns (m + mᵀ)/2, the nearest symmetric matrix in Frobenius norm.
// Used to precondition numerically noisy solver output before Jacobi sweeps.
func Symmetrize(m *Dense) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	n := m.r
	res := &Dense{r: n, c: n, data: make([]float64, n*n)}
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		res.data[i*n+i] = m.data[i*n+i]
		for j = i + 1; j < n; j++ {
			v = 0.5 * (m.data[i*n+j] + m.data[j*n+i])
			res.data[i*n+j], res.data[j*n+i] = v, v
		}
	}

	return res, nil
}

// ScaleColumns returns m·diag(s): column j multiplied by s[j].
func ScaleColumns(m *Dense, s []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleColumns, err)
	}
	if err := ValidateVecLen(s, m.c); err != nil {
		return nil, matrixErrorf(opScaleColumns, err)
	}
	res := m.Copy()
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[i*m.c+j] *= s[j]
		}
	}

	return res, nil
}

// RowNorms returns the Euclidean norm of every row.
func RowNorms(m *Dense) []float64 {
	out := make([]float64, m.r)
	var i, j int
	var s, v float64
	for i = 0; i < m.r; i++ {
		s = ZeroSum
		for j = 0; j < m.c; j++ {
			v = m.data[i*m.c+j]
			s += v * v
		}
		out[i] = math.Sqrt(s)
	}

	return out
}

// NormalizeRows returns m with every row scaled to unit Euclidean norm.
// A zero row has no direction; it is mapped to e_1 so the output still lies
// on the unit sphere row by row.
func NormalizeRows(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opNormalizeRows, err)
	}
	res := m.Copy()
	norms := RowNorms(m)
	var i, j int
	for i = 0; i < m.r; i++ {
		if norms[i] == 0 {
			res.data[i*m.c] = 1
			continue
		}
		for j = 0; j < m.c; j++ {
			res.data[i*m.c+j] /= norms[i]
		}
	}

	return res, nil
}
