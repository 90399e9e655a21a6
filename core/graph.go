// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"math"
	"sort"
)

// NewGraph builds a CSR graph over nodeCount nodes from arcs and the layers
// given as options.
//
// Implementation:
//   - Stage 1: validate node count, endpoints and every layer.
//   - Stage 2: count out-degrees and prefix-sum them into offsets.
//   - Stage 3: place arcs (stable, input order within a tail) and permute
//     layers into slot order.
//
// Errors:
//   - ErrNodeCount, ErrNodeOutOfRange, ErrLayerLength, ErrBadWeight,
//     ErrDuplicateLayer.
func NewGraph(nodeCount int, arcs []Arc, opts ...GraphOption) (*Graph, error) {
	g := &Graph{nodes: nodeCount}
	for _, opt := range opts {
		opt(g)
	}
	pending := g.pending
	g.pending = nil

	// 1) Validation.
	if nodeCount < 0 || uint64(nodeCount) > math.MaxUint32+1 {
		return nil, fmt.Errorf("%w: %d", ErrNodeCount, nodeCount)
	}
	for i, a := range arcs {
		if int(a.From) >= nodeCount || int(a.To) >= nodeCount {
			return nil, fmt.Errorf("%w: arc %d (%d→%d), %d nodes", ErrNodeOutOfRange, i, a.From, a.To, nodeCount)
		}
	}
	seen := make(map[string]struct{}, len(pending))
	for _, l := range pending {
		if _, dup := seen[l.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, l.name)
		}
		seen[l.name] = struct{}{}
		if len(l.weights) != len(arcs) {
			return nil, fmt.Errorf("%w: layer %q has %d weights, %d arcs", ErrLayerLength, l.name, len(l.weights), len(arcs))
		}
		for i, w := range l.weights {
			if !(w >= 0) || math.IsInf(w, 1) {
				return nil, fmt.Errorf("%w: layer %q arc %d weight %v", ErrBadWeight, l.name, i, w)
			}
		}
	}

	// 2) Offsets from out-degrees.
	g.offsets = make([]int, nodeCount+1)
	for _, a := range arcs {
		g.offsets[int(a.From)+1]++
	}
	for u := 0; u < nodeCount; u++ {
		g.offsets[u+1] += g.offsets[u]
	}

	// 3) Stable placement; slotOf[i] is where arcs[i] lands.
	cursor := make([]int, nodeCount)
	copy(cursor, g.offsets[:nodeCount])
	g.heads = make([]uint32, len(arcs))
	slotOf := make([]int, len(arcs))
	var s int
	for i, a := range arcs {
		s = cursor[a.From]
		cursor[a.From]++
		g.heads[s] = a.To
		slotOf[i] = s
	}

	g.layers = make(map[string][]float64, len(pending))
	for _, l := range pending {
		w := make([]float64, len(arcs))
		for i, v := range l.weights {
			w[slotOf[i]] = v
		}
		g.layers[l.name] = w
	}

	return g, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.nodes }

// ArcCount returns the number of arcs, parallel arcs included.
func (g *Graph) ArcCount() int { return len(g.heads) }

// HasNode reports whether v is a node of g.
func (g *Graph) HasNode(v uint32) bool { return int(v) < g.nodes }

// OutRange returns the half-open slot range [lo, hi) of the out-arcs of u.
// u must satisfy HasNode.
func (g *Graph) OutRange(u uint32) (lo, hi int) {
	return g.offsets[u], g.offsets[int(u)+1]
}

// Head returns the head node of the arc in slot s.
func (g *Graph) Head(s int) uint32 { return g.heads[s] }

// Successors returns the head nodes of the out-arcs of u in slot order.
// The slice aliases internal storage and must not be modified.
func (g *Graph) Successors(u uint32) []uint32 {
	lo, hi := g.OutRange(u)
	return g.heads[lo:hi:hi]
}

// Layer returns the weights of layer name in slot order. The slice aliases
// internal storage and must not be modified.
func (g *Graph) Layer(name string) ([]float64, error) {
	w, ok := g.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	return w, nil
}

// Layers returns the sorted layer names.
func (g *Graph) Layers() []string {
	out := make([]string, 0, len(g.layers))
	for name := range g.layers {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}
