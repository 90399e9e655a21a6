// SPDX-License-Identifier: MIT

package feed_test

import (
	"archive/zip"
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamespfennell/gtfs"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/skims/feed"
	"github.com/katalvlaran/skims/timetable"
)

var testFeed = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"ag,Island Buses,https://example.com,UTC\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_type\n" +
		"r1,ag,1,3\n" +
		"r2,ag,2,3\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon,parent_station\n" +
		"s1,One,50.70,-1.30,\n" +
		"s2,Two,50.70,-1.29,\n" +
		"P,Station,50.71,-1.28,\n" +
		"s3,Platform,,,P\n" +
		"s4,Nowhere,,,\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"wk,1,1,1,1,1,0,0,20190101,20191231\n" +
		"we,0,0,0,0,0,1,1,20190101,20191231\n",
	"calendar_dates.txt": "service_id,date,exception_type\n" +
		"extra,20190515,1\n" +
		"wk,20190516,2\n",
	"trips.txt": "route_id,service_id,trip_id\n" +
		"r1,wk,t1\n" +
		"r2,we,t2\n" +
		"r2,extra,t3\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"t1,08:05:00,08:05:00,s2,2\n" +
		"t1,08:00:00,08:00:00,s1,1\n" +
		"t1,08:10:00,08:10:00,s3,3\n" +
		"t2,09:00:00,09:00:00,s1,1\n" +
		"t3,10:00:00,10:00:00,s3,1\n" +
		"t3,10:05:00,10:05:00,s4,2\n" +
		"t3,12:00:00,12:00:00,s2,3\n",
}

func writeFeed(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range testFeed {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func tripIDs(trips []*gtfs.ScheduledTrip) []string {
	out := make([]string, len(trips))
	for i, tr := range trips {
		out[i] = tr.ID
	}
	return out
}

func TestLoad_Errors(t *testing.T) {
	_, err := feed.Load(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err = feed.Load(path)
	require.Error(t, err)
}

func TestFilterDay(t *testing.T) {
	static, err := feed.Load(writeFeed(t))
	require.NoError(t, err)

	cases := []struct {
		date int
		want []string
	}{
		{20190515, []string{"t1", "t3"}}, // Wednesday plus an added date
		{20190516, []string{}},           // weekday service removed
		{20190518, []string{"t2"}},       // Saturday
		{20200101, []string{}},           // after end_date
	}
	for _, tc := range cases {
		trips, err := feed.FilterDay(static, tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, tripIDs(trips), "date %d", tc.date)
	}

	_, err = feed.FilterDay(static, 20190230)
	require.ErrorIs(t, err, feed.ErrBadDate)
}

func TestStopTimes(t *testing.T) {
	static, err := feed.Load(writeFeed(t))
	require.NoError(t, err)
	trips, err := feed.FilterDay(static, 20190515)
	require.NoError(t, err)

	proj := feed.NewProjector(50.7)
	st, skipped, err := feed.StopTimes(trips, feed.Window{StartS: 28800, EndS: 39600}, proj)
	require.NoError(t, err)
	require.NoError(t, st.Validate())

	// t3 visits s4 without coordinates and reaches s2 after the window
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []string{"s1", "s2", "s3", "s3"}, st.StopID)
	assert.Equal(t, []float64{28800, 29100, 29400, 36000}, st.Departure)
	assert.Equal(t, []uint32{0, 0, 0, 1}, st.TripID)
	assert.Equal(t, []uint32{0, 0, 0, 1}, st.RouteID)
	assert.Equal(t, []uint32{0, 0, 0, 1}, st.ServiceID)

	// s3 takes the station's coordinates
	px, py := proj.Project(-1.28, 50.71)
	assert.Equal(t, px, st.X[2])
	assert.Equal(t, py, st.Y[2])

	_, _, err = feed.StopTimes(trips, feed.Window{StartS: 0, EndS: 60}, proj)
	require.ErrorIs(t, err, timetable.ErrEmpty)

	_, _, err = feed.StopTimes(trips, feed.Window{StartS: 0, EndS: 60}, nil)
	require.ErrorIs(t, err, timetable.ErrNoProjector)
}

func TestProjector(t *testing.T) {
	x, y := feed.NewProjector(0).Project(0, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// 0.01° at 50.7°N
	metresPerDeg := 6378137 * math.Pi / 180
	p := feed.NewProjector(50.7)
	x0, y0 := p.Project(-1.30, 50.70)
	x1, _ := p.Project(-1.29, 50.70)
	_, y2 := p.Project(-1.30, 50.71)
	assert.InEpsilon(t, 0.01*metresPerDeg*math.Cos(50.7*math.Pi/180), x1-x0, 1e-6)
	assert.InEpsilon(t, 0.01*metresPerDeg, y2-y0, 1e-3)
}

func TestFilterBoundingBox(t *testing.T) {
	st := &timetable.StopTimes{}
	st.Append(timetable.StopTime{TripID: 0, StopID: "in", X: 5, Y: 5, Departure: 1})
	st.Append(timetable.StopTime{TripID: 0, StopID: "edge", X: 10, Y: 0, Departure: 2})
	st.Append(timetable.StopTime{TripID: 1, StopID: "out", X: 11, Y: 5, Departure: 3})

	got, err := feed.FilterBoundingBox(st, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "edge"}, got.StopID)
}

func TestActiveOn(t *testing.T) {
	assert.False(t, feed.ActiveOn(nil, 20190515))
	assert.False(t, feed.ActiveOn(&gtfs.Service{Monday: true}, 123))
}
