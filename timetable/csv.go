// SPDX-License-Identifier: MIT

package timetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names of the stop-times CSV.
const (
	colTripID    = "trip_id"
	colRouteID   = "route_id"
	colServiceID = "service_id"
	colStopID    = "stop_id"
	colX         = "x"
	colY         = "y"
	colDeparture = "departure_s"
	colName      = "name"
	colLon       = "lon"
	colLat       = "lat"
)

var stopTimesHeader = []string{colTripID, colRouteID, colServiceID, colStopID, colX, colY, colDeparture}

// header maps lower-cased column names to their position.
type header map[string]int

func newHeader(rec []string) header {
	h := make(header, len(rec))
	for i, c := range rec {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

func (h header) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

func (h header) has(cols ...string) bool { return h.require(cols...) == nil }

// interner assigns dense uint32 codes to string ids in order of first use.
type interner map[string]uint32

func (in interner) code(s string) uint32 {
	if c, ok := in[s]; ok {
		return c
	}
	c := uint32(len(in))
	in[s] = c
	return c
}

// ReadStopTimes decodes a stop-times CSV with the columns trip_id, route_id,
// service_id, stop_id, x, y, departure_s. String ids are interned per column
// into dense codes; the table is validated before it is returned.
func ReadStopTimes(r io.Reader) (*StopTimes, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("timetable: read stop times: %w", err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("stop times: %w", ErrEmpty)
	}
	h := newHeader(rec[0])
	if err = h.require(stopTimesHeader...); err != nil {
		return nil, err
	}

	trips, routes, services := interner{}, interner{}, interner{}
	st := &StopTimes{}
	var x, y, dep float64
	for line, row := range rec[1:] {
		if x, err = parseFloat(row[h[colX]]); err != nil {
			return nil, rowError(line, colX, err)
		}
		if y, err = parseFloat(row[h[colY]]); err != nil {
			return nil, rowError(line, colY, err)
		}
		if dep, err = parseFloat(row[h[colDeparture]]); err != nil {
			return nil, rowError(line, colDeparture, err)
		}
		st.Append(StopTime{
			TripID:    trips.code(row[h[colTripID]]),
			RouteID:   routes.code(row[h[colRouteID]]),
			ServiceID: services.code(row[h[colServiceID]]),
			StopID:    row[h[colStopID]],
			X:         x,
			Y:         y,
			Departure: dep,
		})
	}
	if err = st.Validate(); err != nil {
		return nil, err
	}

	return st, nil
}

// WriteStopTimes encodes st in the format read by ReadStopTimes.
func WriteStopTimes(w io.Writer, st *StopTimes) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stopTimesHeader); err != nil {
		return err
	}
	row := make([]string, len(stopTimesHeader))
	for i := 0; i < st.Len(); i++ {
		row[0] = strconv.FormatUint(uint64(st.TripID[i]), 10)
		row[1] = strconv.FormatUint(uint64(st.RouteID[i]), 10)
		row[2] = strconv.FormatUint(uint64(st.ServiceID[i]), 10)
		row[3] = st.StopID[i]
		row[4] = formatFloat(st.X[i])
		row[5] = formatFloat(st.Y[i])
		row[6] = formatFloat(st.Departure[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadEndpoints decodes a zone CSV with a name column and coordinates.
//
// With a nil proj the file carries planar x, y columns, taken as they are:
// they must already be in the frame of the stop coordinates. With a non-nil
// proj the stops were projected from lon/lat, so the file must carry lon, lat
// columns and is projected the same way; planar input is rejected since no
// transform relates an arbitrary grid to the projector's frame.
func ReadEndpoints(r io.Reader, proj Projector) (*Endpoints, error) {
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("timetable: read endpoints: %w", err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("endpoints: %w", ErrEmpty)
	}
	h := newHeader(rec[0])
	if err = h.require(colName); err != nil {
		return nil, err
	}

	planar := proj == nil
	switch {
	case planar && h.has(colX, colY):
	case planar && h.has(colLon, colLat):
		return nil, ErrNoProjector
	case planar:
		return nil, fmt.Errorf("%w: x,y", ErrMissingColumn)
	case h.has(colLon, colLat):
	case h.has(colX, colY):
		return nil, ErrPlanarFrame
	default:
		return nil, fmt.Errorf("%w: lon,lat", ErrMissingColumn)
	}
	c0, c1 := colLon, colLat
	if planar {
		c0, c1 = colX, colY
	}

	e := &Endpoints{}
	var a, b float64
	for line, row := range rec[1:] {
		if a, err = parseFloat(row[h[c0]]); err != nil {
			return nil, rowError(line, c0, err)
		}
		if b, err = parseFloat(row[h[c1]]); err != nil {
			return nil, rowError(line, c1, err)
		}
		if !planar {
			a, b = proj.Project(a, b)
		}
		e.Add(row[h[colName]], a, b)
	}
	if err = e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rowError(line int, col string, err error) error {
	// line is zero-based over data rows; +2 accounts for the header.
	return fmt.Errorf("timetable: line %d column %s: %w", line+2, col, err)
}
