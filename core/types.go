// SPDX-License-Identifier: MIT

package core

import "errors"

// Sentinel errors for graph construction and lookup.
var (
	// ErrNodeCount indicates a node count that is negative or exceeds uint32.
	ErrNodeCount = errors.New("core: invalid node count")

	// ErrNodeOutOfRange indicates an arc endpoint outside [0, NodeCount).
	ErrNodeOutOfRange = errors.New("core: node out of range")

	// ErrLayerLength indicates a weight layer whose length differs from the arc count.
	ErrLayerLength = errors.New("core: layer length mismatch")

	// ErrBadWeight indicates a negative, NaN or infinite weight.
	ErrBadWeight = errors.New("core: weight must be finite and non-negative")

	// ErrDuplicateLayer indicates two layers with the same name.
	ErrDuplicateLayer = errors.New("core: duplicate layer")

	// ErrLayerNotFound indicates a lookup of a layer that does not exist.
	ErrLayerNotFound = errors.New("core: layer not found")
)

// Arc is a directed edge From→To given to NewGraph.
type Arc struct {
	From uint32
	To   uint32
}

// GraphOption configures a Graph before it is built.
type GraphOption func(g *Graph)

// WithLayer attaches the weight layer name. weights[i] belongs to arcs[i]
// of the NewGraph call. The slice is copied during NewGraph.
func WithLayer(name string, weights []float64) GraphOption {
	return func(g *Graph) {
		g.pending = append(g.pending, pendingLayer{name: name, weights: weights})
	}
}

type pendingLayer struct {
	name    string
	weights []float64
}

// Graph is an immutable CSR multigraph.
//
//	offsets[u]..offsets[u+1]  slots of the out-arcs of u
//	heads[slot]               head node of the arc in that slot
//	layers[name][slot]        weight of the arc in that slot
type Graph struct {
	nodes   int
	offsets []int
	heads   []uint32
	layers  map[string][]float64

	pending []pendingLayer // consumed by NewGraph
}
