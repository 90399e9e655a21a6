// SPDX-License-Identifier: MIT

package skim

import (
	"fmt"
	"math"

	"github.com/katalvlaran/skims/matrix"
)

// Zone is a labelled origin or destination and its graph node.
type Zone struct {
	Label string
	Node  uint32
}

// Assemble lays d out as a labelled matrix over every origin and destination
// zone. Cells without a computed distance stay +Inf, values ≥ cutoff become
// +Inf and cells whose row and column labels are equal become NaN.
//
// d may cover only a subset of the zones' nodes. A nil d yields the infill
// alone.
func Assemble(origins, destinations []Zone, d *Distances, cutoff float64) (*matrix.Labeled, error) {
	rows := make([]string, len(origins))
	for i, z := range origins {
		rows[i] = z.Label
	}
	cols := make([]string, len(destinations))
	for j, z := range destinations {
		cols[j] = z.Label
	}
	out, err := matrix.NewLabeled(rows, cols, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("skim: assemble: %w", err)
	}
	m := out.Dense()
	if err = m.Fill(math.Inf(1)); err != nil {
		return nil, fmt.Errorf("skim: assemble: %w", err)
	}

	if d != nil {
		if len(d.Values) != len(d.Origins) {
			return nil, fmt.Errorf("%w: %d rows for %d origins", ErrShape, len(d.Values), len(d.Origins))
		}
		rowOf := indexNodes(d.Origins)
		colOf := indexNodes(d.Destinations)
		for i, o := range origins {
			r, ok := rowOf[o.Node]
			if !ok {
				continue
			}
			vals := d.Values[r]
			if len(vals) != len(d.Destinations) {
				return nil, fmt.Errorf("%w: row %d has %d columns", ErrShape, r, len(vals))
			}
			for j, t := range destinations {
				c, ok := colOf[t.Node]
				if !ok {
					continue
				}
				if err = m.Set(i, j, vals[c]); err != nil {
					return nil, fmt.Errorf("skim: assemble: %w", err)
				}
			}
		}
	}

	err = m.Apply(func(_, _ int, v float64) float64 {
		if v >= cutoff {
			return math.Inf(1)
		}
		return v
	})
	if err != nil {
		return nil, fmt.Errorf("skim: assemble: %w", err)
	}

	// Intra-zonal cells.
	colIdx := make(map[string]int, len(cols))
	for j, l := range cols {
		colIdx[l] = j
	}
	for i, l := range rows {
		if j, ok := colIdx[l]; ok {
			if err = m.Set(i, j, math.NaN()); err != nil {
				return nil, fmt.Errorf("skim: assemble: %w", err)
			}
		}
	}

	return out, nil
}

// indexNodes maps each node to its first position in nodes.
func indexNodes(nodes []uint32) map[uint32]int {
	idx := make(map[uint32]int, len(nodes))
	for i, n := range nodes {
		if _, seen := idx[n]; !seen {
			idx[n] = i
		}
	}
	return idx
}
