// SPDX-License-Identifier: MIT

// Package core provides an immutable, directed multigraph in compressed
// sparse row (CSR) form, built once and then shared by any number of
// concurrent readers without locks.
//
// Nodes are the dense integers [0, NodeCount). Arcs are stored grouped by
// tail node; the out-arcs of u occupy the slots OutRange(u) and keep the
// order in which they were passed to NewGraph. Parallel arcs and self-loops
// are kept as given.
//
// Weights live in named layers. Every layer holds one non-negative finite
// float64 per arc, so one topology can answer shortest-path queries under
// several cost definitions (generalised cost, travel time, ...).
//
// Configuration Options (GraphOption):
//
//	– WithLayer(name string, weights []float64)
//	    Attach a weight layer given in input-arc order.
//
// Errors:
//
//	ErrNodeCount       - negative node count or one beyond uint32.
//	ErrNodeOutOfRange  - arc endpoint ≥ node count.
//	ErrLayerLength     - layer length differs from arc count.
//	ErrBadWeight       - negative, NaN or ±Inf weight.
//	ErrDuplicateLayer  - the same layer name given twice.
//	ErrLayerNotFound   - Layer called with an unknown name.
//
// Complexity:
//
//   - NewGraph: O(V + E·L) time and memory for L layers.
//   - OutRange, Head, HasNode: O(1).
package core
