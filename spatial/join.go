// SPDX-License-Identifier: MIT

package spatial

import (
	"fmt"
	"sort"
)

// SelfJoin returns every pair (i, j) of 3-D points with euclidean distance
// ≤ radius where j comes after i in stable time order (Z ascending, ties
// broken by input position). Hence Z[j] ≥ Z[i] for every returned pair and
// no pair appears twice. The result is sorted by (Origin, Dest).
//
// Errors:
//   - ErrBadRadius, ErrNonFinite, ErrTooLarge.
func SelfJoin(points []Point, radius float64) ([]Pair, error) {
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	if err := checkPoints(points, 3); err != nil {
		return nil, fmt.Errorf("self join: %w", err)
	}
	if len(points) < 2 {
		return []Pair{}, nil
	}

	// 1) Stable time order and its inverse.
	n := len(points)
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].Z < points[order[b]].Z
	})
	rank := make([]uint32, n)
	for r, i := range order {
		rank[i] = uint32(r)
	}

	// 2) Index the points in their original positions; ranks decide direction.
	ix := newKDIndex(points, 3)
	r2 := radius * radius

	// 3) Forward box query: only the upper half of the time axis is searched.
	pairs := make([]Pair, 0, n)
	var (
		i  int
		p  Point
		lo Point
		hi Point
	)
	for i = 0; i < n; i++ {
		p = points[i]
		lo = Point{X: p.X - radius, Y: p.Y - radius, Z: p.Z}
		hi = Point{X: p.X + radius, Y: p.Y + radius, Z: p.Z + radius}
		ix.visit(lo, hi, func(j uint32) {
			if rank[j] <= rank[i] {
				return // earlier in time order, or i itself
			}
			if within(p, points[j], 3, r2) {
				pairs = append(pairs, Pair{Origin: uint32(i), Dest: j})
			}
		})
	}
	sortPairs(pairs)

	return pairs, nil
}

// CrossJoin returns every pair (i∈a, j∈b) with euclidean distance ≤ radius,
// measured in dims dimensions (2 ignores Z). Each set gets its own index;
// the points of a are then queried against the index of b. The result is
// sorted by (Origin, Dest).
//
// Errors:
//   - ErrBadDims, ErrBadRadius, ErrNonFinite, ErrTooLarge.
func CrossJoin(a, b []Point, dims int, radius float64) ([]Pair, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrBadDims, dims)
	}
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	if err := checkPoints(a, dims); err != nil {
		return nil, fmt.Errorf("cross join origins: %w", err)
	}
	if err := checkPoints(b, dims); err != nil {
		return nil, fmt.Errorf("cross join destinations: %w", err)
	}
	if len(a) == 0 || len(b) == 0 {
		return []Pair{}, nil
	}

	ix := newIndex(b, dims)
	r2 := radius * radius
	pairs := make([]Pair, 0, len(a))
	var (
		p      Point
		lo, hi Point
	)
	for i := range a {
		p = a[i]
		lo = Point{X: p.X - radius, Y: p.Y - radius, Z: p.Z - radius}
		hi = Point{X: p.X + radius, Y: p.Y + radius, Z: p.Z + radius}
		ix.visit(lo, hi, func(j uint32) {
			if within(p, b[j], dims, r2) {
				pairs = append(pairs, Pair{Origin: uint32(i), Dest: j})
			}
		})
	}
	sortPairs(pairs)

	return pairs, nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Origin != pairs[b].Origin {
			return pairs[a].Origin < pairs[b].Origin
		}
		return pairs[a].Dest < pairs[b].Dest
	})
}
