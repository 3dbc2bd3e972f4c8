// Package stablesdp post-processes semidefinite relaxations of the stable
// set problem: it refines a relaxation towards a low-rank fixed point,
// recovers a 0/1 incidence vector when the solution is exact and falls back
// to randomized or greedy rounding when it is not.
//
// 🚀 What is inside?
//
//	• Dense real and complex matrices with a Jacobi eigensolver
//	• Spectral helpers: PSD factorization, clipping, spectral norms
//	• Elliptope projections and hyperplane rounding (real and complex)
//	• A Frank–Wolfe solver for the Lovász theta relaxation
//	• Fixed-point refinement with zap logging and Prometheus metrics
//	• Lovász, Grötschel and Benson incidence-vector recovery schemes
//	• Tree decompositions (min-degree, min-fill-in) and supergraph enrichment
//	• Sample and solution stores backed by memory, Pebble or Redis
//
// Everything is organized under subpackages:
//
//	matrix/      Dense and CDense types, arithmetic, eigen decomposition
//	graph/       simple undirected graphs, builders, edge-list I/O
//	spectral/    sorted eigen pairs, FactorizePSD, ClipToPSD, norms
//	elliptope/   row-normalized Gram factors
//	rounding/    annulus projections and the hyperplane search
//	greedy/      weighted greedy stable sets
//	sdp/         the Problem contract and the theta relaxation
//	refine/      the fixed-point refiner
//	recovery/    incidence-vector recovery and verification
//	sampling/    feasible-region sampling over random objectives
//	treedecomp/  tree decompositions and their validation
//	supergraph/  chordal supergraphs from padded decompositions
//	store/       persistence of samples and solution bundles
//	config/      TOML configuration
//	pipeline/    refinement, recovery and fallback in one call
//
// Quick ASCII example:
//
//	    0───1
//	    │   │
//	    3───2
//
//	C4 has theta 2; the refined relaxation recovers {0, 2} or {1, 3}.
//
//	go install github.com/katalvlaran/stablesdp/cmd/stablesdp@latest
package stablesdp
