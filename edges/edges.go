// SPDX-License-Identifier: MIT

package edges

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/skims/connector"
	"github.com/katalvlaran/skims/timetable"
)

var (
	// ErrNonMonotonic indicates a trip whose departures decrease between
	// consecutive rows.
	ErrNonMonotonic = errors.New("edges: departures of a trip are not ordered")

	// ErrUnknownAttribute indicates an attribute name outside Attributes.
	ErrUnknownAttribute = errors.New("edges: unknown attribute")

	// ErrBadWeights indicates a negative or non-finite weight or penalty.
	ErrBadWeights = errors.New("edges: weights must be finite and non-negative")
)

// Edge is one directed arc of the skim graph. Times are whole seconds.
type Edge struct {
	Origin   uint32
	Dest     uint32
	IVT      uint32
	Walk     uint32
	Wait     uint32
	Transfer uint8
	Cost     float64
	Time     uint32
}

// Weights scale the components of the generalised cost.
type Weights struct {
	Walk        float64
	Wait        float64
	Interchange float64 // penalty per transfer, seconds
}

// Validate rejects negative or non-finite weights.
func (w Weights) Validate() error {
	for _, v := range [...]float64{w.Walk, w.Wait, w.Interchange} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return ErrBadWeights
		}
	}
	return nil
}

// Attribute names an edge column usable as a path weight.
type Attribute string

// Attributes understood by Value.
const (
	AttrCost Attribute = "cost"
	AttrTime Attribute = "time"
	AttrIVT  Attribute = "ivt"
	AttrWalk Attribute = "walk"
	AttrWait Attribute = "wait"
)

// Value returns the column of e named by a.
func (e *Edge) Value(a Attribute) (float64, error) {
	switch a {
	case AttrCost:
		return e.Cost, nil
	case AttrTime:
		return float64(e.Time), nil
	case AttrIVT:
		return float64(e.IVT), nil
	case AttrWalk:
		return float64(e.Walk), nil
	case AttrWait:
		return float64(e.Wait), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, a)
}

// InVehicle links every stop visit to the next visit of the same trip.
// Trips are grouped by TripID regardless of row adjacency; within a trip the
// row order is the travel order. Edges come out ordered by origin row.
func InVehicle(st *timetable.StopTimes) ([]Edge, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}

	n := st.Len()
	next := make([]int, n)
	last := make(map[uint32]int)
	for i := 0; i < n; i++ {
		next[i] = -1
		if p, ok := last[st.TripID[i]]; ok {
			next[p] = i
		}
		last[st.TripID[i]] = i
	}

	out := make([]Edge, 0, n)
	var dt float64
	for i, j := range next {
		if j < 0 {
			continue // last visit of its trip
		}
		dt = st.Departure[j] - st.Departure[i]
		if dt < 0 {
			return nil, fmt.Errorf("%w: trip %d rows %d→%d", ErrNonMonotonic, st.TripID[i], i, j)
		}
		out = append(out, Edge{Origin: uint32(i), Dest: uint32(j), IVT: uint32(dt)})
	}

	return out, nil
}

// Assemble concatenates in-vehicle edges with the transfer, access and
// egress connectors. Transfer rows carry Transfer = 1; fields a source does
// not have stay zero. Cost and Time are left for ApplyCost.
func Assemble(ivt []Edge, c *connector.Connectors) []Edge {
	n := len(ivt) + c.Transfer.Len() + c.Access.Len() + c.Egress.Len()
	out := make([]Edge, 0, n)
	out = append(out, ivt...)
	out = appendTable(out, c.Transfer, 1)
	out = appendTable(out, c.Access, 0)
	out = appendTable(out, c.Egress, 0)

	return out
}

func appendTable(dst []Edge, t *connector.Table, transfer uint8) []Edge {
	for k := 0; k < t.Len(); k++ {
		dst = append(dst, Edge{
			Origin:   t.Origin[k],
			Dest:     t.Dest[k],
			Walk:     t.Walk[k],
			Wait:     t.Wait[k],
			Transfer: transfer,
		})
	}
	return dst
}

// ApplyCost fills Cost and Time of every edge in place.
func ApplyCost(es []Edge, w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	var e *Edge
	for i := range es {
		e = &es[i]
		e.Cost = float64(e.IVT) +
			float64(e.Walk)*w.Walk +
			float64(e.Wait)*w.Wait +
			float64(e.Transfer)*w.Interchange
		e.Time = e.IVT + e.Walk + e.Wait
	}

	return nil
}

// Endpoints marks which nodes of a graph with nodeCount nodes appear as an
// edge origin and which appear as an edge destination.
func Endpoints(es []Edge, nodeCount int) (asOrigin, asDest []bool) {
	asOrigin = make([]bool, nodeCount)
	asDest = make([]bool, nodeCount)
	for i := range es {
		if int(es[i].Origin) < nodeCount {
			asOrigin[es[i].Origin] = true
		}
		if int(es[i].Dest) < nodeCount {
			asDest[es[i].Dest] = true
		}
	}
	return asOrigin, asDest
}
