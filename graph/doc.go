// SPDX-License-Identifier: MIT

// Package graph provides the undirected, integer-indexed Graph consumed by the
// relaxation pipeline.
//
// Vertices are the contiguous range 0..Order()-1, which is the labelling every
// relaxation matrix uses (row i of a solution corresponds to vertex i). Edges
// are undirected and simple: self-loops are rejected and re-adding an existing
// edge overwrites its weight. Weights are optional (WithWeighted) and are only
// carried through for fidelity with external loaders.
//
// All methods are safe for concurrent use; a single sync.RWMutex guards the
// adjacency sets.
//
// Determinism:
//   - Neighbors and Edges return ascending order.
//   - Builders (Empty, Path, Cycle, Complete) emit edges in a fixed order.
//   - ReadEdgeList relabels vertices in first-seen order.
package graph
