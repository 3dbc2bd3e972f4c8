// SPDX-License-Identifier: MIT

package treedecomp

import (
	"fmt"
	"sort"
	"strings"
)

// Bag is an immutable sorted vertex set.
type Bag struct {
	members []int
}

// NewBag builds a bag from vs (duplicates collapse).
func NewBag(vs ...int) Bag {
	m := append([]int(nil), vs...)
	sort.Ints(m)
	out := m[:0]
	for i, v := range m {
		if i == 0 || v != m[i-1] {
			out = append(out, v)
		}
	}

	return Bag{members: out}
}

// Len returns |b|.
func (b Bag) Len() int { return len(b.members) }

// Members returns a sorted copy of the vertices.
func (b Bag) Members() []int { return append([]int(nil), b.members...) }

// Contains reports whether v ∈ b.
func (b Bag) Contains(v int) bool {
	i := sort.SearchInts(b.members, v)
	return i < len(b.members) && b.members[i] == v
}

// SubsetOf reports whether b ⊆ o.
func (b Bag) SubsetOf(o Bag) bool {
	for _, v := range b.members {
		if !o.Contains(v) {
			return false
		}
	}

	return true
}

// Equal reports set equality.
func (b Bag) Equal(o Bag) bool {
	if len(b.members) != len(o.members) {
		return false
	}
	for i := range b.members {
		if b.members[i] != o.members[i] {
			return false
		}
	}

	return true
}

// Union returns b ∪ o.
func (b Bag) Union(o Bag) Bag {
	return NewBag(append(b.Members(), o.members...)...)
}

// Difference returns b \ o in ascending order.
func (b Bag) Difference(o Bag) []int {
	var out []int
	for _, v := range b.members {
		if !o.Contains(v) {
			out = append(out, v)
		}
	}

	return out
}

// String renders the bag as {a, b, c}.
func (b Bag) String() string {
	parts := make([]string, len(b.members))
	for i, v := range b.members {
		parts[i] = fmt.Sprint(v)
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
