// SPDX-License-Identifier: MIT

package timetable

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrColumnLength indicates parallel columns of different lengths.
	ErrColumnLength = errors.New("timetable: column length mismatch")

	// ErrEmpty indicates a table without rows.
	ErrEmpty = errors.New("timetable: table is empty")

	// ErrNonFinite indicates a NaN or ±Inf coordinate or time.
	ErrNonFinite = errors.New("timetable: non-finite value")

	// ErrDuplicateName indicates two endpoints sharing a label.
	ErrDuplicateName = errors.New("timetable: duplicate endpoint name")

	// ErrMissingColumn indicates a CSV header without a required column.
	ErrMissingColumn = errors.New("timetable: missing column")

	// ErrNoProjector indicates lon/lat input without a projector.
	ErrNoProjector = errors.New("timetable: lon/lat columns need a projector")

	// ErrPlanarFrame indicates planar x,y input where coordinates are
	// projected from lon/lat.
	ErrPlanarFrame = errors.New("timetable: planar x,y given where lon/lat is projected")
)

// Projector maps WGS84 longitude/latitude to planar coordinates in metres.
type Projector interface {
	Project(lon, lat float64) (x, y float64)
}

// StopTime is one row of StopTimes.
type StopTime struct {
	TripID    uint32
	RouteID   uint32
	ServiceID uint32
	StopID    string
	X, Y      float64
	Departure float64 // seconds after midnight
}

// StopTimes is the stop-visit table. All slices have the same length.
type StopTimes struct {
	TripID    []uint32
	RouteID   []uint32
	ServiceID []uint32
	StopID    []string
	X         []float64
	Y         []float64
	Departure []float64
}

// Len returns the number of rows.
func (st *StopTimes) Len() int { return len(st.TripID) }

// Append adds one row.
func (st *StopTimes) Append(r StopTime) {
	st.TripID = append(st.TripID, r.TripID)
	st.RouteID = append(st.RouteID, r.RouteID)
	st.ServiceID = append(st.ServiceID, r.ServiceID)
	st.StopID = append(st.StopID, r.StopID)
	st.X = append(st.X, r.X)
	st.Y = append(st.Y, r.Y)
	st.Departure = append(st.Departure, r.Departure)
}

// Row returns row i.
func (st *StopTimes) Row(i int) StopTime {
	return StopTime{
		TripID:    st.TripID[i],
		RouteID:   st.RouteID[i],
		ServiceID: st.ServiceID[i],
		StopID:    st.StopID[i],
		X:         st.X[i],
		Y:         st.Y[i],
		Departure: st.Departure[i],
	}
}

// Select returns a new table with the rows where keep is true, in order.
func (st *StopTimes) Select(keep []bool) (*StopTimes, error) {
	if len(keep) != st.Len() {
		return nil, fmt.Errorf("%w: mask %d, rows %d", ErrColumnLength, len(keep), st.Len())
	}
	out := &StopTimes{}
	for i, k := range keep {
		if k {
			out.Append(st.Row(i))
		}
	}

	return out, nil
}

// Validate reports input-shape problems: ragged columns, no rows or
// non-finite numbers.
func (st *StopTimes) Validate() error {
	n := len(st.TripID)
	if len(st.RouteID) != n || len(st.ServiceID) != n || len(st.StopID) != n ||
		len(st.X) != n || len(st.Y) != n || len(st.Departure) != n {
		return fmt.Errorf("stop times: %w", ErrColumnLength)
	}
	if n == 0 {
		return fmt.Errorf("stop times: %w", ErrEmpty)
	}
	for i := 0; i < n; i++ {
		if !finite(st.X[i]) || !finite(st.Y[i]) || !finite(st.Departure[i]) {
			return fmt.Errorf("stop times row %d: %w", i, ErrNonFinite)
		}
	}

	return nil
}

// Endpoints is a table of named zone centroids.
type Endpoints struct {
	Name []string
	X    []float64
	Y    []float64
}

// Len returns the number of rows.
func (e *Endpoints) Len() int { return len(e.Name) }

// Add appends one endpoint.
func (e *Endpoints) Add(name string, x, y float64) {
	e.Name = append(e.Name, name)
	e.X = append(e.X, x)
	e.Y = append(e.Y, y)
}

// Validate reports ragged columns, an empty table, non-finite coordinates
// and duplicate names.
func (e *Endpoints) Validate() error {
	n := len(e.Name)
	if len(e.X) != n || len(e.Y) != n {
		return fmt.Errorf("endpoints: %w", ErrColumnLength)
	}
	if n == 0 {
		return fmt.Errorf("endpoints: %w", ErrEmpty)
	}
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		if !finite(e.X[i]) || !finite(e.Y[i]) {
			return fmt.Errorf("endpoint %q: %w", e.Name[i], ErrNonFinite)
		}
		if _, dup := seen[e.Name[i]]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, e.Name[i])
		}
		seen[e.Name[i]] = struct{}{}
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
