// SPDX-License-Identifier: MIT

package rounding

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/stablesdp/matrix"
)

// Radius is either one radius for every row or one radius per row.
type Radius struct {
	value  float64
	perRow []float64
}

// Uniform returns the same radius r for every row.
func Uniform(r float64) Radius { return Radius{value: r} }

// PerRow returns row-specific radii (copied).
func PerRow(r []float64) Radius {
	cp := make([]float64, len(r))
	copy(cp, r)

	return Radius{perRow: cp}
}

// IsUniform reports whether r applies the same radius to every row.
func (r Radius) IsUniform() bool { return r.perRow == nil }

// At returns the radius of row i.
func (r Radius) At(i int) float64 {
	if r.perRow == nil {
		return r.value
	}

	return r.perRow[i]
}

func (r Radius) check(rows int) error {
	if r.perRow != nil && len(r.perRow) != rows {
		return fmt.Errorf("rounding: %d radii for %d rows: %w", len(r.perRow), rows, ErrDimensionMismatch)
	}
	for i := 0; i < rows; i++ {
		if v := r.At(i); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rounding: row %d radius %g: %w", i, v, ErrInvalidRadius)
		}
		if r.perRow == nil {
			break
		}
	}

	return nil
}

func checkPair(minR, maxR Radius, rows int) error {
	if err := minR.check(rows); err != nil {
		return err
	}
	if err := maxR.check(rows); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if minR.At(i) > maxR.At(i) {
			return fmt.Errorf("rounding: row %d min %g > max %g: %w", i, minR.At(i), maxR.At(i), ErrInvalidRadius)
		}
	}

	return nil
}

// clampNorm returns the scale that moves a row of the given norm into
// [lo, hi]; 1 when the row is already inside.
func clampNorm(norm, lo, hi float64) float64 {
	switch {
	case norm < lo:
		return lo / norm
	case norm > hi:
		return hi / norm
	default:
		return 1
	}
}

// ProjectToAnnulus maps every row of v to the nearest point of the annulus
// {x : minR_i ≤ ‖x‖ ≤ maxR_i}. A zero row shorter than minR_i becomes
// (minR_i, 0, …, 0).
//
// Errors: ErrDimensionMismatch (per-row radius length), ErrInvalidRadius.
func ProjectToAnnulus(v *matrix.Dense, minR, maxR Radius) (*matrix.Dense, error) {
	if v == nil {
		return nil, fmt.Errorf("ProjectToAnnulus: %w", matrix.ErrNilMatrix)
	}
	if err := checkPair(minR, maxR, v.Rows()); err != nil {
		return nil, err
	}
	out := v.Copy()
	norms := matrix.RowNorms(v)
	for i := 0; i < v.Rows(); i++ {
		lo, hi := minR.At(i), maxR.At(i)
		if norms[i] == 0 {
			if lo > 0 {
				_ = out.Set(i, 0, lo)
			}
			continue
		}
		s := clampNorm(norms[i], lo, hi)
		if s == 1 {
			continue
		}
		for j := 0; j < v.Cols(); j++ {
			x, _ := out.At(i, j)
			_ = out.Set(i, j, x*s)
		}
	}

	return out, nil
}

// ProjectScalars treats every entry as a 1-dimensional row.
func ProjectScalars(v []float64, minR, maxR Radius) ([]float64, error) {
	if err := checkPair(minR, maxR, len(v)); err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	for i, x := range v {
		a := math.Abs(x)
		if a == 0 {
			out[i] = minR.At(i)
			continue
		}
		out[i] = x * clampNorm(a, minR.At(i), maxR.At(i))
	}

	return out, nil
}

// ProjectComplexScalars treats every complex entry as a point of the plane.
func ProjectComplexScalars(v []complex128, minR, maxR Radius) ([]complex128, error) {
	if err := checkPair(minR, maxR, len(v)); err != nil {
		return nil, err
	}
	out := make([]complex128, len(v))
	for i, z := range v {
		a := cmplx.Abs(z)
		if a == 0 {
			out[i] = complex(minR.At(i), 0)
			continue
		}
		out[i] = z * complex(clampNorm(a, minR.At(i), maxR.At(i)), 0)
	}

	return out, nil
}
