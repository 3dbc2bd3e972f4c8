// SPDX-License-Identifier: MIT

// Package treedecomp models tree decompositions of graphs and computes
// approximate ones with elimination-ordering heuristics.
//
// A Tree is an arena: every bag lives in a numbered slot, and tree edges
// connect slots. Replacing a bag allocates a new slot and repoints the
// neighbours; the old slot is retired. Bags are immutable values, so a bag
// held by a caller is never changed behind its back.
package treedecomp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/stablesdp/graph"
)

// ErrMalformedTreeDecomposition indicates a tree or bag layout that violates
// a tree-decomposition invariant.
var ErrMalformedTreeDecomposition = errors.New("treedecomp: malformed tree decomposition")

// ErrSlotNotFound indicates a retired or unknown slot.
var ErrSlotNotFound = errors.New("treedecomp: slot not found")

// Tree is an arena of bags connected by undirected tree edges.
type Tree struct {
	bags  []Bag
	alive []bool
	adj   []map[int]struct{}
	live  int
}

// NewTree returns an empty tree.
func NewTree() *Tree { return &Tree{} }

// AddBag allocates a slot for b and returns its index.
func (t *Tree) AddBag(b Bag) int {
	t.bags = append(t.bags, b)
	t.alive = append(t.alive, true)
	t.adj = append(t.adj, make(map[int]struct{}))
	t.live++

	return len(t.bags) - 1
}

func (t *Tree) ok(i int) bool { return i >= 0 && i < len(t.bags) && t.alive[i] }

// Connect adds the tree edge {i, j}.
func (t *Tree) Connect(i, j int) error {
	if !t.ok(i) || !t.ok(j) {
		return fmt.Errorf("Connect(%d,%d): %w", i, j, ErrSlotNotFound)
	}
	if i == j {
		return fmt.Errorf("Connect(%d,%d): %w", i, j, ErrMalformedTreeDecomposition)
	}
	t.adj[i][j] = struct{}{}
	t.adj[j][i] = struct{}{}

	return nil
}

// Len returns the number of live bags.
func (t *Tree) Len() int { return t.live }

// Slots returns the live slots in ascending order.
func (t *Tree) Slots() []int {
	out := make([]int, 0, t.live)
	for i, a := range t.alive {
		if a {
			out = append(out, i)
		}
	}

	return out
}

// Bag returns the bag in slot i.
func (t *Tree) Bag(i int) (Bag, error) {
	if !t.ok(i) {
		return Bag{}, fmt.Errorf("Bag(%d): %w", i, ErrSlotNotFound)
	}

	return t.bags[i], nil
}

// Neighbors returns the slots adjacent to i in ascending order.
func (t *Tree) Neighbors(i int) ([]int, error) {
	if !t.ok(i) {
		return nil, fmt.Errorf("Neighbors(%d): %w", i, ErrSlotNotFound)
	}
	out := make([]int, 0, len(t.adj[i]))
	for j := range t.adj[i] {
		out = append(out, j)
	}
	sort.Ints(out)

	return out, nil
}

// Degree returns the number of tree neighbours of slot i (0 if retired).
func (t *Tree) Degree(i int) int {
	if !t.ok(i) {
		return 0
	}

	return len(t.adj[i])
}

// Replace moves slot i's edges to a new slot holding b, retires i and
// returns the new slot.
func (t *Tree) Replace(i int, b Bag) (int, error) {
	if !t.ok(i) {
		return -1, fmt.Errorf("Replace(%d): %w", i, ErrSlotNotFound)
	}
	j := t.AddBag(b)
	for k := range t.adj[i] {
		delete(t.adj[k], i)
		t.adj[k][j] = struct{}{}
		t.adj[j][k] = struct{}{}
	}
	t.retire(i)

	return j, nil
}

// Remove retires slot i together with its edges.
func (t *Tree) Remove(i int) error {
	if !t.ok(i) {
		return fmt.Errorf("Remove(%d): %w", i, ErrSlotNotFound)
	}
	for k := range t.adj[i] {
		delete(t.adj[k], i)
	}
	t.retire(i)

	return nil
}

func (t *Tree) retire(i int) {
	t.adj[i] = nil
	t.alive[i] = false
	t.live--
}

// Width returns max |bag| − 1 over live bags (−1 for an empty tree).
func (t *Tree) Width() int {
	w := -1
	for _, i := range t.Slots() {
		if l := t.bags[i].Len() - 1; l > w {
			w = l
		}
	}

	return w
}

// Clone returns a deep copy with identical slot numbers.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		bags:  append([]Bag(nil), t.bags...),
		alive: append([]bool(nil), t.alive...),
		adj:   make([]map[int]struct{}, len(t.adj)),
		live:  t.live,
	}
	for i, nb := range t.adj {
		if nb == nil {
			continue
		}
		c.adj[i] = make(map[int]struct{}, len(nb))
		for j := range nb {
			c.adj[i][j] = struct{}{}
		}
	}

	return c
}

// edgeCount returns the number of tree edges.
func (t *Tree) edgeCount() int {
	var d int
	for _, i := range t.Slots() {
		d += len(t.adj[i])
	}

	return d / 2
}

// Validate checks that t is a tree decomposition of g: a non-empty tree,
// every vertex and edge of g covered by some bag, no foreign vertices, and
// the bags holding any vertex forming a connected subtree.
func (t *Tree) Validate(g *graph.Graph) error {
	slots := t.Slots()
	if len(slots) == 0 {
		return fmt.Errorf("no bags: %w", ErrMalformedTreeDecomposition)
	}
	if t.edgeCount() != len(slots)-1 || t.reach(slots[0], nil) != len(slots) {
		return fmt.Errorf("bags do not form a tree: %w", ErrMalformedTreeDecomposition)
	}

	n := g.Order()
	holders := make([][]int, n)
	for _, i := range slots {
		for _, v := range t.bags[i].members {
			if v < 0 || v >= n {
				return fmt.Errorf("bag %d holds unknown vertex %d: %w", i, v, ErrMalformedTreeDecomposition)
			}
			holders[v] = append(holders[v], i)
		}
	}
	for v, h := range holders {
		if len(h) == 0 {
			return fmt.Errorf("vertex %d uncovered: %w", v, ErrMalformedTreeDecomposition)
		}
		in := make(map[int]bool, len(h))
		for _, i := range h {
			in[i] = true
		}
		if t.reach(h[0], in) != len(h) {
			return fmt.Errorf("bags of vertex %d are disconnected: %w", v, ErrMalformedTreeDecomposition)
		}
	}
	for _, e := range g.Edges() {
		covered := false
		for _, i := range holders[e.U] {
			if t.bags[i].Contains(e.V) {
				covered = true
				break
			}
		}
		if !covered {
			return fmt.Errorf("edge %d-%d uncovered: %w", e.U, e.V, ErrMalformedTreeDecomposition)
		}
	}

	return nil
}

// reach counts slots reachable from start, restricted to within when non-nil.
func (t *Tree) reach(start int, within map[int]bool) int {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range t.adj[u] {
			if seen[v] || (within != nil && !within[v]) {
				continue
			}
			seen[v] = true
			queue = append(queue, v)
		}
	}

	return len(seen)
}
