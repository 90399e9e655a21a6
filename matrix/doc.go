// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major storage behind a skim and its
// labelled view.
//
// The matrix package provides:
//
//   - Dense: a cache-friendly r×c float64 buffer with bounds-checked At/Set
//     and an optional finite-only numeric policy.
//   - Labeled: a Dense whose rows and columns carry unique string labels
//     (origin and destination zone names), with CSV export.
//
// A skim stores +Inf for infeasible pairs and NaN for intra-zonal cells, so
// Labeled matrices are created with the finite-only policy switched off.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Fill/Apply/Do: O(r*c).
//   - Labeled lookups by label: O(1) average (hash map).
package matrix
