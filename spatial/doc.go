// SPDX-License-Identifier: MIT

// Package spatial finds every pair of points that lie within a fixed
// euclidean radius of each other.
//
// Two joins are provided:
//
//   - SelfJoin: pairs inside one 3-D point set (x, y, time). The third axis is
//     a time coordinate already expressed in distance units, so a single
//     radius bounds both the walk and the wait. Only pairs moving forward in
//     time are returned.
//   - CrossJoin: pairs (i∈A, j∈B) between two sets of the same dimensionality.
//     3-D sets are indexed with a k-d tree, 2-D sets with an R-tree.
//
// A radius search is a superset generator: callers are expected to run an
// exact feasibility filter on the returned pairs. InflateRadius gives the
// radius that is guaranteed to contain every pair whose walk plus wait does
// not exceed a maximum distance.
//
// Complexity:
//
//   - Build: O(N log² N) for the k-d tree, O(N log N) for the R-tree.
//   - Query: O(log N + k) per point, k = points inside the search box.
//   - Output: O(P log P) to sort P pairs.
//
// Determinism:
//
//   - Results are always sorted by (origin, destination), independent of the
//     index internals.
package spatial
