// SPDX-License-Identifier: MIT

package spatial

import (
	"github.com/kyroy/kdtree"
	"github.com/kyroy/kdtree/kdrange"
	"github.com/tidwall/rtree"
)

// kdPoint adapts a Point to kdtree.Point and remembers its slot in the
// owning slice.
type kdPoint struct {
	p    Point
	dims int
	slot uint32
}

// Dimensions implements kdtree.Point.
func (k *kdPoint) Dimensions() int { return k.dims }

// Dimension implements kdtree.Point.
func (k *kdPoint) Dimension(i int) float64 {
	switch i {
	case 0:
		return k.p.X
	case 1:
		return k.p.Y
	default:
		return k.p.Z
	}
}

// index answers axis-aligned box queries over one point set.
type index interface {
	// visit calls fn with the slot of every point inside [lo, hi].
	visit(lo, hi Point, fn func(slot uint32))
}

type kdIndex struct {
	tree *kdtree.KDTree
	dims int
}

// newKDIndex builds a k-d tree over points; slot i refers to points[i].
func newKDIndex(points []Point, dims int) *kdIndex {
	kp := make([]kdtree.Point, len(points))
	for i := range points {
		kp[i] = &kdPoint{p: points[i], dims: dims, slot: uint32(i)}
	}
	// kdtree.New reorders its argument; kp is private to this call.

	return &kdIndex{tree: kdtree.New(kp), dims: dims}
}

func (ix *kdIndex) visit(lo, hi Point, fn func(slot uint32)) {
	var r kdrange.Range
	if ix.dims == 3 {
		r = kdrange.New(lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z)
	} else {
		r = kdrange.New(lo.X, hi.X, lo.Y, hi.Y)
	}
	for _, hit := range ix.tree.RangeSearch(r) {
		fn(hit.(*kdPoint).slot)
	}
}

type rtIndex struct {
	tree *rtree.RTree
}

// newRTIndex builds a planar R-tree over points, ignoring Z.
func newRTIndex(points []Point) *rtIndex {
	tree := &rtree.RTree{}
	for i, p := range points {
		xy := [2]float64{p.X, p.Y}
		tree.Insert(xy, xy, uint32(i))
	}

	return &rtIndex{tree: tree}
}

func (ix *rtIndex) visit(lo, hi Point, fn func(slot uint32)) {
	ix.tree.Search(
		[2]float64{lo.X, lo.Y},
		[2]float64{hi.X, hi.Y},
		func(_, _ [2]float64, data interface{}) bool {
			fn(data.(uint32))
			return true
		},
	)
}

// newIndex picks the index structure for the given dimensionality.
func newIndex(points []Point, dims int) index {
	if dims == 2 {
		return newRTIndex(points)
	}

	return newKDIndex(points, dims)
}
