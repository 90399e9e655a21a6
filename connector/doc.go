// SPDX-License-Identifier: MIT

// Package connector discovers the walking links of a transit skim:
//
//   - transfers: stop visit → later stop visit of another route,
//   - access:    origin zone → stop visit after the journey start,
//   - egress:    stop visit → destination zone.
//
// Candidates come from a radius join (package spatial) over points whose
// planar coordinates are scaled by the crow's-fly factor and whose third
// coordinate is the departure time converted to walk-distance units. A Set
// holds the candidates as parallel slices and is narrowed by a chain of pure
// filters, each returning a new Set:
//
//	FilterFeasibleTransfer → FilterMaxWalk → FilterMaxWait → FilterSameRoute → FilterNearestService
//
// FilterNearestService groups by (origin, destination service) and therefore
// must run last.
//
// The Builder turns surviving candidates into Tables in whole seconds and
// shifts node ids into one shared space:
//
//	[0, S)        stop visits (row positions of the stop-times table)
//	[S, S+O)      origins
//	[S+O, S+O+D)  destinations
package connector
