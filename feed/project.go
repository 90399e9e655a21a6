// SPDX-License-Identifier: MIT

package feed

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projector maps lon/lat to planar metres with a spherical mercator scaled
// to be true at a reference latitude. Distances stay within a fraction of a
// percent over a city-sized area around that latitude.
type Projector struct {
	scale float64
}

// NewProjector returns a Projector true at refLat degrees.
func NewProjector(refLat float64) *Projector {
	return &Projector{scale: math.Cos(refLat * math.Pi / 180)}
}

// Project implements timetable.Projector.
func (p *Projector) Project(lon, lat float64) (x, y float64) {
	m := project.Point(orb.Point{lon, lat}, project.WGS84.ToMercator)
	return m.X() * p.scale, m.Y() * p.scale
}
