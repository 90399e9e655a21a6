// SPDX-License-Identifier: MIT

// Package dijkstra implements single-source shortest distances over a
// core.Graph weight layer.
//
// Dijkstra computes the minimum-cost path from one source node to every node
// reachable under a distance cap. It processes nodes in order of increasing
// distance using a min-heap, relaxing out-arcs as it goes.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each node is settled at most once.
//   - Each relaxation may push a heap entry (lazy decrease-key): up to E pushes.
//   - Space: O(V + E) for the distance array and the heap.
//
// Options:
//
//	– Layer:            weight layer to minimise (default "cost").
//	– MaxDistance:      distances above the cap are reported as +Inf.
//	– Targets:          stop as soon as every target is settled.
//	– InfEdgeThreshold: arcs with weight ≥ threshold are impassable.
//
// Reuse:
//
//	A Search owns its scratch buffers and resets only the nodes the previous
//	run touched, so a worker can answer many sources over one graph without
//	re-allocating. A Search is not safe for concurrent use; the Graph is.
//
// Errors (sentinel):
//
//	– ErrNilGraph       if the graph pointer is nil.
//	– ErrVertexNotFound if the source or a target is outside the graph.
//	– ErrBadMaxDistance if MaxDistance is negative or NaN (option panics).
//	– ErrBadInfThreshold if InfEdgeThreshold ≤ 0 (option panics).
//
// Example usage:
//
//	dist, err := dijkstra.Distances(g, 0, dijkstra.WithMaxDistance(3600))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(dist[4])
package dijkstra
