// SPDX-License-Identifier: MIT

package recovery

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/matrix"
)

// IncidenceVector is a 0/1 membership vector over vertices.
type IncidenceVector []int

// Size returns the number of selected vertices.
func (v IncidenceVector) Size() int {
	var s int
	for _, x := range v {
		s += x
	}

	return s
}

// Members returns the selected vertex indices in ascending order.
func (v IncidenceVector) Members() []int {
	var out []int
	for i, x := range v {
		if x == 1 {
			out = append(out, i)
		}
	}

	return out
}

func isClose(x, target float64) bool {
	return math.Abs(x-target) <= closeAtol+closeRtol*math.Abs(target)
}

// RecoverIncidenceVector decodes x with scheme s, checks that every entry is
// close to 0 or 1 and rounds.
//
// Errors: ErrNotExact (rank > 1 where rank 1 is required, or a
// non-integral entry); spectral.ErrNotPositiveSemidefinite; matrix errors.
func RecoverIncidenceVector(x *matrix.Dense, s Scheme) (IncidenceVector, error) {
	if s == nil {
		return nil, fmt.Errorf("recovery: %w", ErrUnknownScheme)
	}
	cand, err := s.candidate(x)
	if err != nil {
		return nil, fmt.Errorf("recovery: %s: %w", s.Name(), err)
	}
	out := make(IncidenceVector, len(cand))
	for i, c := range cand {
		switch {
		case isClose(c, 0):
			out[i] = 0
		case isClose(c, 1):
			out[i] = 1
		default:
			return nil, fmt.Errorf("recovery: %s: entry %d = %.6g: %w", s.Name(), i, c, ErrNotExact)
		}
	}

	return out, nil
}

// VerifyStableSet checks that v selects no edge of g.
func VerifyStableSet(v IncidenceVector, g *graph.Graph) error {
	if len(v) != g.Order() {
		return fmt.Errorf("recovery: %d entries for %d vertices: %w", len(v), g.Order(), matrix.ErrDimensionMismatch)
	}
	for _, e := range g.Edges() {
		if v[e.U] == 1 && v[e.V] == 1 {
			return fmt.Errorf("recovery: edge %d-%d: %w", e.U, e.V, ErrNotStableSet)
		}
	}

	return nil
}
