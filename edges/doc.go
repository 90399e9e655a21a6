// SPDX-License-Identifier: MIT

// Package edges assembles the edge table of the skim graph.
//
// An edge is one of:
//
//   - in-vehicle: consecutive visits of the same trip, IVT = Δdeparture;
//   - transfer:   a walk+wait between visits of different routes (Transfer = 1);
//   - access:     origin zone → first boarding;
//   - egress:     last alighting → destination zone.
//
// After assembly ApplyCost fills the two derived attributes:
//
//	Cost = IVT + Walk·WeightWalk + Wait·WeightWait + Transfer·PenaltyInterchange
//	Time = IVT + Walk + Wait
//
// Attribute selects which column the shortest-path search minimises.
package edges
