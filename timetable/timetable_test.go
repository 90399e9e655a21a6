// SPDX-License-Identifier: MIT

package timetable_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/skims/timetable"
)

// scaleProjector doubles longitude and triples latitude.
type scaleProjector struct{}

func (scaleProjector) Project(lon, lat float64) (float64, float64) { return 2 * lon, 3 * lat }

func sampleStopTimes() *timetable.StopTimes {
	st := &timetable.StopTimes{}
	st.Append(timetable.StopTime{TripID: 0, RouteID: 0, ServiceID: 0, StopID: "a", X: 0, Y: 0, Departure: 100})
	st.Append(timetable.StopTime{TripID: 0, RouteID: 0, ServiceID: 0, StopID: "b", X: 10.5, Y: 0, Departure: 160})
	st.Append(timetable.StopTime{TripID: 1, RouteID: 1, ServiceID: 0, StopID: "c", X: 10, Y: -2.25, Departure: 200})
	return st
}

func TestStopTimes_Validate(t *testing.T) {
	st := sampleStopTimes()
	require.NoError(t, st.Validate())

	st.X = st.X[:2]
	require.ErrorIs(t, st.Validate(), timetable.ErrColumnLength)

	require.ErrorIs(t, (&timetable.StopTimes{}).Validate(), timetable.ErrEmpty)

	st = sampleStopTimes()
	st.Departure[1] = math.NaN()
	require.ErrorIs(t, st.Validate(), timetable.ErrNonFinite)
}

func TestStopTimes_Select(t *testing.T) {
	st := sampleStopTimes()
	out, err := st.Select([]bool{true, false, true})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, out.StopID)
	require.Equal(t, []float64{100, 200}, out.Departure)

	_, err = st.Select([]bool{true})
	require.ErrorIs(t, err, timetable.ErrColumnLength)
}

func TestStopTimes_CSVRoundTrip(t *testing.T) {
	st := sampleStopTimes()
	var buf bytes.Buffer
	require.NoError(t, timetable.WriteStopTimes(&buf, st))

	got, err := timetable.ReadStopTimes(&buf)
	require.NoError(t, err)
	require.Equal(t, st, got)
}

func TestReadStopTimes_InternsIDs(t *testing.T) {
	in := "trip_id,route_id,service_id,stop_id,x,y,departure_s\n" +
		"T9,R1,weekday,s1,0,0,10\n" +
		"T9,R1,weekday,s2,1,0,20\n" +
		"T3,R2,weekday,s1,0,0,15\n"

	st, err := timetable.ReadStopTimes(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 0, 1}, st.TripID)
	require.Equal(t, []uint32{0, 0, 1}, st.RouteID)
	require.Equal(t, []uint32{0, 0, 0}, st.ServiceID)
}

func TestReadStopTimes_Errors(t *testing.T) {
	_, err := timetable.ReadStopTimes(strings.NewReader("trip_id,x\n1,2\n"))
	require.ErrorIs(t, err, timetable.ErrMissingColumn)

	_, err = timetable.ReadStopTimes(strings.NewReader("trip_id,route_id,service_id,stop_id,x,y,departure_s\n"))
	require.ErrorIs(t, err, timetable.ErrEmpty)

	_, err = timetable.ReadStopTimes(strings.NewReader(
		"trip_id,route_id,service_id,stop_id,x,y,departure_s\n1,1,1,s,abc,0,0\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2 column x")
}

func TestReadEndpoints_Planar(t *testing.T) {
	in := "name,x,y\nzone-a,1,2\nzone-b,3.5,-4\n"
	e, err := timetable.ReadEndpoints(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"zone-a", "zone-b"}, e.Name)
	require.Equal(t, []float64{1, 3.5}, e.X)
	require.Equal(t, []float64{2, -4}, e.Y)
}

func TestReadEndpoints_LonLat(t *testing.T) {
	in := "lat,lon,name\n10,1,z\n"
	_, err := timetable.ReadEndpoints(strings.NewReader(in), nil)
	require.ErrorIs(t, err, timetable.ErrNoProjector)

	e, err := timetable.ReadEndpoints(strings.NewReader(in), scaleProjector{})
	require.NoError(t, err)
	require.Equal(t, []float64{2}, e.X)
	require.Equal(t, []float64{30}, e.Y)
}

func TestReadEndpoints_ProjectorRequiresLonLat(t *testing.T) {
	// a national-grid file cannot be matched against projected stops
	_, err := timetable.ReadEndpoints(strings.NewReader("name,x,y\nzone-a,451000,92000\n"), scaleProjector{})
	require.ErrorIs(t, err, timetable.ErrPlanarFrame)

	// lon/lat wins when both column pairs are present
	e, err := timetable.ReadEndpoints(strings.NewReader("name,x,y,lon,lat\nz,7,7,1,10\n"), scaleProjector{})
	require.NoError(t, err)
	require.Equal(t, []float64{2}, e.X)

	_, err = timetable.ReadEndpoints(strings.NewReader("name,lon\nz,1\n"), scaleProjector{})
	require.ErrorIs(t, err, timetable.ErrMissingColumn)
}

func TestReadEndpoints_Errors(t *testing.T) {
	_, err := timetable.ReadEndpoints(strings.NewReader("name,x\na,1\n"), nil)
	require.ErrorIs(t, err, timetable.ErrMissingColumn)

	_, err = timetable.ReadEndpoints(strings.NewReader("name,x,y\na,1,1\na,2,2\n"), nil)
	require.ErrorIs(t, err, timetable.ErrDuplicateName)

	_, err = timetable.ReadEndpoints(strings.NewReader("name,x,y\n"), nil)
	require.ErrorIs(t, err, timetable.ErrEmpty)
}
