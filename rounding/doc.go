// SPDX-License-Identifier: MIT

// Package rounding turns a factorised relaxation Y (X = Y·Yᴴ) into discrete
// candidates by random hyperplane rounding, and projects vectors onto annuli.
//
// Hyperplane draws a direction r, forms Y·r and maps every entry onto the
// target set:
//   - unit sphere, real factor: the sign of each entry (±1; zero maps to +1);
//   - unit sphere, complex factor: each entry divided by its modulus;
//   - otherwise: ProjectScalars / ProjectComplexScalars onto the annulus.
//
// The caller's cost function scores every candidate and the lowest cost wins.
// A later candidate replaces the incumbent only on strict improvement, so
// ties keep the earliest one.
//
// Randomness: every call draws from an explicit *rand.Rand (Options.Rand) or,
// if none is given, from a private source seeded with Options.Seed.
// A *rand.Rand must not be shared across goroutines.
package rounding
