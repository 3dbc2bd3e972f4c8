// SPDX-License-Identifier: MIT
//
// edgelist.go - whitespace-separated edge-list loader.
//
// Format: one edge per line, "u v" or "u v w". Blank lines and lines starting
// with '#' are skipped. Labels are arbitrary tokens relabelled to 0..n-1 in
// first-seen order; the returned slice maps index back to label.

package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadOptions control ReadEdgeList.
type ReadOptions struct {
	// SkipHeader drops the first line unconditionally (torus instance files
	// start with a "n m" header).
	SkipHeader bool
	// Graph options applied to the result (e.g. WithWeighted to keep the third
	// column; otherwise it is ignored).
	GraphOptions []Option
}

// ReadEdgeList parses an edge list into a Graph.
//
// Errors: ErrParse (wrong column count, bad weight), ErrLoopNotAllowed.
// Duplicate edges keep the last weight.
func ReadEdgeList(r io.Reader, opts ReadOptions) (*Graph, []string, error) {
	sc := bufio.NewScanner(r)
	index := make(map[string]int)
	var labels []string
	type rawEdge struct {
		u, v int
		w    float64
	}
	var edges []rawEdge

	probe := New(0, opts.GraphOptions...)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 && opts.SkipHeader {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, nil, fmt.Errorf("ReadEdgeList: line %d: %d fields: %w", lineNo, len(fields), ErrParse)
		}
		var w float64
		if len(fields) == 3 && probe.weighted {
			var err error
			if w, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, nil, fmt.Errorf("ReadEdgeList: line %d: weight %q: %w", lineNo, fields[2], ErrParse)
			}
		}
		ids := [2]int{}
		for k := 0; k < 2; k++ {
			id, ok := index[fields[k]]
			if !ok {
				id = len(labels)
				index[fields[k]] = id
				labels = append(labels, fields[k])
			}
			ids[k] = id
		}
		edges = append(edges, rawEdge{u: ids[0], v: ids[1], w: w})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("ReadEdgeList: %w", err)
	}

	g := New(len(labels), opts.GraphOptions...)
	for _, e := range edges {
		if err := g.AddEdge(e.u, e.v, e.w); err != nil {
			return nil, nil, fmt.Errorf("ReadEdgeList: %s-%s: %w", labels[e.u], labels[e.v], err)
		}
	}

	return g, labels, nil
}

// WriteEdgeList writes g as "u v" lines ("u v w" when weighted) in Edges order.
func WriteEdgeList(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, e := range g.Edges() {
		var err error
		if g.weighted {
			_, err = fmt.Fprintf(bw, "%d %d %s\n", e.U, e.V, strconv.FormatFloat(e.Weight, 'g', -1, 64))
		} else {
			_, err = fmt.Fprintf(bw, "%d %d\n", e.U, e.V)
		}
		if err != nil {
			return fmt.Errorf("WriteEdgeList: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("WriteEdgeList: %w", err)
	}

	return nil
}
