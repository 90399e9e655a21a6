// SPDX-License-Identifier: MIT

// Package skim turns an edge table into an origin-destination cost matrix.
//
// Engine owns one immutable core.Graph and answers many-to-many shortest
// distance queries. Every origin is one task; a fixed pool of workers, each
// with its own reusable dijkstra.Search, drains the task queue and writes
// into a pre-sized row slot, so no result is ever shared between workers.
// The first failing or panicking task cancels the batch and no partial
// result is returned.
//
// Assemble places query results into a labelled matrix:
//
//   - every cell starts at +Inf (infeasible);
//   - computed distances are copied in by node id;
//   - values ≥ cutoff become +Inf;
//   - cells whose row and column labels are equal become NaN (intra-zonal).
//
// Run chains the whole pipeline (connectors, edges, graph, shortest paths,
// assembly), with one OpenTelemetry span and one log line per stage.
//
// Lifecycle:
//
//	NewEngine → Built → ShortestDistances (any number of times) → Queried
package skim
