// SPDX-License-Identifier: MIT

package spatial

import (
	"errors"
	"math"
)

// Sentinel errors returned by the joins.
var (
	// ErrBadRadius indicates a negative or NaN search radius.
	ErrBadRadius = errors.New("spatial: radius must be a non-negative number")

	// ErrBadDims indicates a dimensionality other than 2 or 3.
	ErrBadDims = errors.New("spatial: dimensions must be 2 or 3")

	// ErrNonFinite indicates a NaN or ±Inf coordinate.
	ErrNonFinite = errors.New("spatial: non-finite coordinate")

	// ErrTooLarge indicates a point set that cannot be addressed with uint32 indices.
	ErrTooLarge = errors.New("spatial: point set exceeds uint32 index space")
)

// Point is a location in the plane with an optional third coordinate.
// 2-D joins ignore Z.
type Point struct {
	X, Y, Z float64
}

// Pair references one point of the origin set and one of the destination set
// by their positions in the input slices.
type Pair struct {
	Origin uint32
	Dest   uint32
}

// InflateRadius returns the search radius for a 3-D join whose exact
// feasibility rule is walk+wait ≤ maxdist. Any such pair has planar offset w
// and time offset t with w+t ≤ maxdist, hence sqrt(w²+t²) ≤ maxdist·√2.
func InflateRadius(maxdist float64) float64 {
	return maxdist * math.Sqrt2
}

func checkRadius(radius float64) error {
	if math.IsNaN(radius) || radius < 0 {
		return ErrBadRadius
	}

	return nil
}

func checkPoints(points []Point, dims int) error {
	if uint64(len(points)) > math.MaxUint32 {
		return ErrTooLarge
	}
	var p Point
	for _, p = range points {
		if !finite(p.X) || !finite(p.Y) || (dims == 3 && !finite(p.Z)) {
			return ErrNonFinite
		}
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// within reports whether a and b are no further than radius apart,
// comparing squared distances to avoid the square root.
func within(a, b Point, dims int, r2 float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	d2 := dx*dx + dy*dy
	if dims == 3 {
		dz := a.Z - b.Z
		d2 += dz * dz
	}

	return d2 <= r2
}
