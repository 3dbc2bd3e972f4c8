// SPDX-License-Identifier: MIT

// Package spectral is the eigen-based toolbox of the pipeline: sorted
// eigendecompositions, PSD factorisation X = F·Fᵀ, clipping of small or
// negative eigenvalues, numeric rank and rank-reducing projections.
//
// Ordering contract: every decomposition returned here lists eigenvalues in
// descending order and column k of Vectors belongs to Values[k]. Each
// eigenvector is normalised so that its largest-magnitude component is
// positive (real part positive and imaginary part zero for Hermitian input).
//
// Solver output is rarely exactly symmetric, so real input is symmetrised
// with matrix.Symmetrize before the Jacobi kernel runs; Hermitian input goes
// through matrix.RealEmbedding.
package spectral
