// SPDX-License-Identifier: MIT

// Package recovery extracts the stable set encoded by an exact relaxation
// solution and verifies it.
//
// Every relaxation scheme encodes the incidence vector differently:
//   - Lovasz: X is a scaled x·xᵀ; the rank-1 factor is rescaled so its smallest
//     positive entry is 1.
//   - Grotschel: the diagonal of X is x itself.
//   - Benson: X = v·vᵀ over ±1 vectors with a trailing calibration coordinate;
//     v is multiplied by the sign of that coordinate, which is then dropped,
//     and −1 entries become 0.
//
// Whatever the scheme, each entry must then lie within floating tolerance of
// 0 or 1. A solution that fails the test has not converged to an integral
// point and is reported as ErrNotExact rather than rounded.
package recovery

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/spectral"
)

const (
	// DefaultTol is the factorisation / positivity tolerance.
	DefaultTol = 1e-6
	// closeAtol and closeRtol define "within tolerance of" an integer:
	// |x − t| ≤ closeAtol + closeRtol·|t|.
	closeAtol = 1e-8
	closeRtol = 1e-5
)

var (
	// ErrNotExact indicates a solution that is not rank 1 where required or whose
	// recovered entries are not all close to 0 or 1.
	ErrNotExact = errors.New("recovery: solution is not exact")

	// ErrNotStableSet indicates an incidence vector selecting both ends of an edge.
	ErrNotStableSet = errors.New("recovery: not a stable set")

	// ErrUnknownScheme indicates an unrecognised scheme name.
	ErrUnknownScheme = errors.New("recovery: unknown scheme")
)

// Scheme is the closed set of relaxation encodings: Lovasz, Grotschel, Benson.
type Scheme interface {
	// Name is the lower-case scheme tag ("lovasz", "grotschel", "benson").
	Name() string
	candidate(x *matrix.Dense) ([]float64, error)
}

// Lovasz decodes theta-relaxation solutions.
type Lovasz struct {
	// FactorTol is the eigenvalue floor of the rank-1 factorisation (0 ⇒ 1e-9).
	FactorTol float64
	// PositiveTol is the threshold for "strictly positive" entries (0 ⇒ 1e-6).
	PositiveTol float64
}

// Grotschel decodes solutions whose diagonal is the incidence vector.
type Grotschel struct{}

// Benson decodes ±1 solutions with a trailing calibration coordinate.
type Benson struct {
	// Tol is the eigenvalue floor of the rank-1 factorisation (0 ⇒ 1e-6).
	Tol float64
}

var (
	_ Scheme = Lovasz{}
	_ Scheme = Grotschel{}
	_ Scheme = Benson{}
)

// Name implements Scheme.
func (Lovasz) Name() string { return "lovasz" }

// Name implements Scheme.
func (Grotschel) Name() string { return "grotschel" }

// Name implements Scheme.
func (Benson) Name() string { return "benson" }

// ParseScheme maps a scheme tag to its variant; tol feeds the scheme
// tolerance (0 selects defaults).
func ParseScheme(name string, tol float64) (Scheme, error) {
	switch name {
	case "lovasz":
		return Lovasz{PositiveTol: tol}, nil
	case "grotschel":
		return Grotschel{}, nil
	case "benson":
		return Benson{Tol: tol}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScheme)
	}
}

func orDefault(v, d float64) float64 {
	if v <= 0 {
		return d
	}

	return v
}

func rankOneFactor(x *matrix.Dense, tol float64) ([]float64, error) {
	f, err := spectral.FactorizePSD(x, tol)
	if err != nil {
		return nil, err
	}
	if f.Cols() != 1 {
		return nil, fmt.Errorf("rank %d: %w", f.Cols(), ErrNotExact)
	}

	return f.Col(0), nil
}

func (s Lovasz) candidate(x *matrix.Dense) ([]float64, error) {
	v, err := rankOneFactor(x, orDefault(s.FactorTol, spectral.DefaultFactorTol))
	if err != nil {
		return nil, err
	}
	pos := orDefault(s.PositiveTol, DefaultTol)
	minPos := math.Inf(1)
	for _, e := range v {
		if e > pos && e < minPos {
			minPos = e
		}
	}
	if math.IsInf(minPos, 1) {
		return nil, fmt.Errorf("no entry above %g: %w", pos, ErrNotExact)
	}
	for i := range v {
		v[i] /= minPos
	}

	return v, nil
}

func (Grotschel) candidate(x *matrix.Dense) ([]float64, error) {
	if err := matrix.ValidateSquare(x); err != nil {
		return nil, err
	}

	return x.Diag(), nil
}

func (s Benson) candidate(x *matrix.Dense) ([]float64, error) {
	if x != nil && x.Rows() < 2 {
		return nil, fmt.Errorf("benson needs a calibration row: %w", matrix.ErrInvalidDimensions)
	}
	v, err := rankOneFactor(x, orDefault(s.Tol, DefaultTol))
	if err != nil {
		return nil, err
	}
	sign := 1.0
	if v[len(v)-1] < 0 {
		sign = -1
	}
	out := v[:len(v)-1]
	for i := range out {
		out[i] *= sign
		if out[i] < 0 {
			out[i] = 0
		}
	}

	return out, nil
}
