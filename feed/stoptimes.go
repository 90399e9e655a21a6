// SPDX-License-Identifier: MIT

package feed

import (
	"fmt"

	"github.com/jamespfennell/gtfs"
	"github.com/paulmach/orb"

	"github.com/katalvlaran/skims/timetable"
)

// Window is a service period in seconds after midnight.
type Window struct {
	StartS float64
	EndS   float64
}

// contains keeps visits that arrive at or after the start and leave at or
// before the end.
func (w Window) contains(st *gtfs.ScheduledStopTime) bool {
	return st.ArrivalTime.Seconds() >= w.StartS && st.DepartureTime.Seconds() <= w.EndS
}

// StopTimes flattens trips into a stop-visit table. Rows follow trip order
// and, within a trip, stop sequence. Trip, route and service ids are
// interned in order of first appearance. A stop without coordinates
// inherits those of its root station; visits with neither are skipped and
// counted in the second return value.
func StopTimes(trips []*gtfs.ScheduledTrip, w Window, proj timetable.Projector) (*timetable.StopTimes, int, error) {
	if proj == nil {
		return nil, 0, timetable.ErrNoProjector
	}
	var (
		out               = &timetable.StopTimes{}
		tripIDs, routeIDs = make(map[string]uint32), make(map[string]uint32)
		serviceIDs        = make(map[string]uint32)
		skipped           int
		x, y, lon, lat    float64
		ok                bool
	)
	for _, trip := range trips {
		for i := range trip.StopTimes {
			visit := &trip.StopTimes[i]
			if !w.contains(visit) {
				continue
			}
			if lon, lat, ok = coordinates(visit.Stop); !ok {
				skipped++
				continue
			}
			x, y = proj.Project(lon, lat)
			out.Append(timetable.StopTime{
				TripID:    intern(tripIDs, trip.ID),
				RouteID:   intern(routeIDs, routeID(trip)),
				ServiceID: intern(serviceIDs, serviceID(trip)),
				StopID:    visit.Stop.Id,
				X:         x,
				Y:         y,
				Departure: visit.DepartureTime.Seconds(),
			})
		}
	}
	if out.Len() == 0 {
		return nil, skipped, fmt.Errorf("feed: no stop visits in [%v, %v]: %w", w.StartS, w.EndS, timetable.ErrEmpty)
	}

	return out, skipped, nil
}

// FilterBoundingBox keeps the rows whose coordinates fall inside b.
func FilterBoundingBox(st *timetable.StopTimes, b orb.Bound) (*timetable.StopTimes, error) {
	keep := make([]bool, st.Len())
	for i := range keep {
		keep[i] = b.Contains(orb.Point{st.X[i], st.Y[i]})
	}
	return st.Select(keep)
}

func coordinates(stop *gtfs.Stop) (lon, lat float64, ok bool) {
	for s := stop; s != nil; s = s.Parent {
		if s.Longitude != nil && s.Latitude != nil {
			return *s.Longitude, *s.Latitude, true
		}
	}
	return 0, 0, false
}

func routeID(trip *gtfs.ScheduledTrip) string {
	if trip.Route == nil {
		return ""
	}
	return trip.Route.Id
}

func serviceID(trip *gtfs.ScheduledTrip) string {
	if trip.Service == nil {
		return ""
	}
	return trip.Service.Id
}

func intern(ids map[string]uint32, key string) uint32 {
	id, ok := ids[key]
	if !ok {
		id = uint32(len(ids))
		ids[key] = id
	}
	return id
}
