// SPDX-License-Identifier: MIT

package connector

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/skims/spatial"
)

var (
	// ErrMaskLength indicates a keep-mask whose length differs from the Set.
	ErrMaskLength = errors.New("connector: mask length mismatch")

	// ErrLookupLength indicates a route or service lookup shorter than the
	// coordinate table it is indexed with.
	ErrLookupLength = errors.New("connector: lookup table too short")
)

// Set is a candidate list of connectors as parallel slices. Origin and Dest
// index the origin and destination coordinate tables; Walk and Wait are in
// walk-distance units. A Set is never modified after construction.
type Set struct {
	Origin []uint32
	Dest   []uint32
	Walk   []float64
	Wait   []float64

	origins []spatial.Point
	dests   []spatial.Point
}

// NewTransferSet builds a Set from self-join pairs over one 3-D point table.
// Wait is the time gap minus the walk.
func NewTransferSet(pairs []spatial.Pair, points []spatial.Point) *Set {
	return newSet(pairs, points, points, 3)
}

// NewAccessEgressSet builds a Set from cross-join pairs between two tables.
// For dims == 3 Wait is the time gap minus the walk; for dims == 2 it is 0.
func NewAccessEgressSet(pairs []spatial.Pair, origins, dests []spatial.Point, dims int) *Set {
	return newSet(pairs, origins, dests, dims)
}

func newSet(pairs []spatial.Pair, origins, dests []spatial.Point, dims int) *Set {
	n := len(pairs)
	s := &Set{
		Origin:  make([]uint32, n),
		Dest:    make([]uint32, n),
		Walk:    make([]float64, n),
		Wait:    make([]float64, n),
		origins: origins,
		dests:   dests,
	}
	var o, d spatial.Point
	for k, p := range pairs {
		o, d = origins[p.Origin], dests[p.Dest]
		s.Origin[k] = p.Origin
		s.Dest[k] = p.Dest
		s.Walk[k] = math.Hypot(d.X-o.X, d.Y-o.Y)
		if dims == 3 {
			s.Wait[k] = (d.Z - o.Z) - s.Walk[k]
		}
	}

	return s
}

// Len returns the number of candidates.
func (s *Set) Len() int { return len(s.Origin) }

// OriginPoint returns the coordinates of the origin of row k.
func (s *Set) OriginPoint(k int) spatial.Point { return s.origins[s.Origin[k]] }

// DestPoint returns the coordinates of the destination of row k.
func (s *Set) DestPoint(k int) spatial.Point { return s.dests[s.Dest[k]] }

// Filter returns a new Set holding the rows where keep is true, in order.
func (s *Set) Filter(keep []bool) (*Set, error) {
	if len(keep) != s.Len() {
		return nil, fmt.Errorf("%w: mask %d, rows %d", ErrMaskLength, len(keep), s.Len())
	}
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	out := &Set{
		Origin:  make([]uint32, 0, n),
		Dest:    make([]uint32, 0, n),
		Walk:    make([]float64, 0, n),
		Wait:    make([]float64, 0, n),
		origins: s.origins,
		dests:   s.dests,
	}
	for i, k := range keep {
		if !k {
			continue
		}
		out.Origin = append(out.Origin, s.Origin[i])
		out.Dest = append(out.Dest, s.Dest[i])
		out.Walk = append(out.Walk, s.Walk[i])
		out.Wait = append(out.Wait, s.Wait[i])
	}

	return out, nil
}

// where applies pred row by row; the mask always has the right length.
func (s *Set) where(pred func(k int) bool) *Set {
	keep := make([]bool, s.Len())
	for k := range keep {
		keep[k] = pred(k)
	}
	out, _ := s.Filter(keep)

	return out
}

// FilterFeasibleTransfer keeps rows with a positive wait whose walk plus
// wait fits into maxdist.
func (s *Set) FilterFeasibleTransfer(maxdist float64) *Set {
	return s.where(func(k int) bool {
		return s.Wait[k] > 0 && s.Walk[k]+s.Wait[k] <= maxdist
	})
}

// FilterMaxWalk keeps rows with Walk ≤ limit.
func (s *Set) FilterMaxWalk(limit float64) *Set {
	return s.where(func(k int) bool { return s.Walk[k] <= limit })
}

// FilterMaxWait keeps rows with Wait ≤ limit.
func (s *Set) FilterMaxWait(limit float64) *Set {
	return s.where(func(k int) bool { return s.Wait[k] <= limit })
}

// FilterSameRoute drops rows whose origin and destination share a route.
// routeOf is indexed by coordinate-table position.
func (s *Set) FilterSameRoute(routeOf []uint32) (*Set, error) {
	if err := s.checkLookup(routeOf, "route"); err != nil {
		return nil, err
	}

	return s.where(func(k int) bool {
		return routeOf[s.Origin[k]] != routeOf[s.Dest[k]]
	}), nil
}

// FilterNearestService keeps, for every (origin, destination service)
// group, the single row with the smallest walk+wait; ties go to the earliest
// row. Grouping is by origin index, so it must be the last filter applied.
func (s *Set) FilterNearestService(serviceOf []uint32) (*Set, error) {
	if err := s.checkLookup(serviceOf, "service"); err != nil {
		return nil, err
	}

	type group struct {
		origin  uint32
		service uint32
	}
	best := make(map[group]int, s.Len())
	var (
		g      group
		b      int
		seen   bool
		k      int
		weight float64
	)
	for k = 0; k < s.Len(); k++ {
		g = group{origin: s.Origin[k], service: serviceOf[s.Dest[k]]}
		weight = s.Walk[k] + s.Wait[k]
		b, seen = best[g]
		if !seen || weight < s.Walk[b]+s.Wait[b] {
			best[g] = k
		}
	}

	keep := make([]bool, s.Len())
	for _, b = range best {
		keep[b] = true
	}
	out, _ := s.Filter(keep)

	return out, nil
}

func (s *Set) checkLookup(lookup []uint32, what string) error {
	need := max(len(s.origins), len(s.dests))
	if len(lookup) < need {
		return fmt.Errorf("%w: %s lookup has %d entries, need %d", ErrLookupLength, what, len(lookup), need)
	}

	return nil
}

// Table converts the Set to whole seconds with walk-distance/seconds ratio
// ttd. Node ids are left as coordinate-table positions.
func (s *Set) Table(ttd float64) *Table {
	t := newTable(s.Len())
	for k := range s.Origin {
		t.Origin[k] = s.Origin[k]
		t.Dest[k] = s.Dest[k]
		t.Walk[k] = toSeconds(s.Walk[k], ttd)
		t.Wait[k] = toSeconds(s.Wait[k], ttd)
	}

	return t
}
