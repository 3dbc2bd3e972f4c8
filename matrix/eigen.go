// SPDX-License-Identifier: MIT
// Package matrix - Jacobi eigen-decomposition kernel for real symmetric input.

package matrix

import (
	"fmt"
	"math"
)

const opEigen = "Eigen"

// DefaultEigenTol is the off-diagonal convergence threshold relative to max|A|.
const DefaultEigenTol = 1e-12

// DefaultMaxRotations returns a rotation budget that comfortably covers the
// usual 5–10 classical Jacobi sweeps for an n×n matrix.
func DefaultMaxRotations(n int) int {
	if n < 2 {
		return 1
	}

	return 20*n*n + 100
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// classical Jacobi rotations.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and
//     annihilate it with a Jacobi rotation, accumulating rotations into Q.
//   - Stage 3: Verify the final max off-diagonal is below tol.
//
// Returns (eigenvalues, Q) where column k of Q is the eigenvector for
// eigenvalue k. Eigenvalues are in diagonal order (unsorted); sorting is the
// caller's policy (see package spectral).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry (via ValidateSymmetric),
//   - ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter rotations).
//
// Complexity: O(maxIter · n^2) for pivot scans plus O(maxIter · n) for updates; O(n^2) space.
func Eigen(m *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.r
	A := m.Copy()
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter               int
		i, j, base         int
		p, q               int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		newIP, newIQ       float64
		theta, t, c, s     float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot search over the strict upper triangle.
		maxOff = ZeroSum
		for i = 0; i < n; i++ {
			base = i * n
			for j = i + 1; j < n; j++ {
				off = math.Abs(A.data[base+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		// J.2: rotation parameters from A[p,p], A[q,q], A[p,q].
		app = A.data[p*n+p]
		aqq = A.data[q*n+q]
		apq = A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.3: apply rotation to rows/cols p and q.
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = A.data[i*n+p]
			aiq = A.data[i*n+q]
			newIP = c*aip - s*aiq
			newIQ = s*aip + c*aiq
			A.data[i*n+p], A.data[p*n+i] = newIP, newIP
			A.data[i*n+q], A.data[q*n+i] = newIQ, newIQ
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		// J.4: accumulate into Q.
		for i = 0; i < n; i++ {
			qip = Q.data[i*n+p]
			qiq = Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}

	if iter == maxIter {
		maxOff = ZeroSum
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if off = math.Abs(A.data[i*n+j]); off > maxOff {
					maxOff = off
				}
			}
		}
		if maxOff >= tol {
			return nil, nil, matrixErrorf(opEigen, fmt.Errorf("max off-diagonal %.3g after %d rotations: %w", maxOff, maxIter, ErrMatrixEigenFailed))
		}
	}

	eigs := A.Diag()

	return eigs, Q, nil
}
