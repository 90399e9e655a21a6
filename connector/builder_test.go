// SPDX-License-Identifier: MIT

package connector_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/skims/connector"
	"github.com/katalvlaran/skims/timetable"
)

// walking at 3.6 km/h makes one metre equal to one second
func testParams() connector.Params {
	return connector.Params{
		WalkSpeed:             3.6,
		MaxTransferTime:       100,
		MaxWait:               100,
		WalkDistanceThreshold: 50,
		CrowsFlyFactor:        1,
		StartS:                0,
	}
}

func testNetwork() (*timetable.StopTimes, *timetable.Endpoints, *timetable.Endpoints) {
	st := &timetable.StopTimes{}
	st.Append(timetable.StopTime{TripID: 0, RouteID: 0, ServiceID: 0, StopID: "a", X: 0, Y: 0, Departure: 10})
	st.Append(timetable.StopTime{TripID: 0, RouteID: 0, ServiceID: 0, StopID: "b", X: 100, Y: 0, Departure: 60})
	st.Append(timetable.StopTime{TripID: 1, RouteID: 1, ServiceID: 1, StopID: "c", X: 100, Y: 10, Departure: 80})
	st.Append(timetable.StopTime{TripID: 1, RouteID: 1, ServiceID: 1, StopID: "d", X: 200, Y: 10, Departure: 130})
	st.Append(timetable.StopTime{TripID: 2, RouteID: 2, ServiceID: 1, StopID: "b", X: 100, Y: 0, Departure: 90})

	origins := &timetable.Endpoints{}
	origins.Add("home", 0, 5)
	dests := &timetable.Endpoints{}
	dests.Add("work", 200, 20)

	return st, origins, dests
}

func TestBuilder_Transfer(t *testing.T) {
	b, err := connector.NewBuilder(testParams())
	require.NoError(t, err)
	st, _, _ := testNetwork()

	tbl, err := b.Transfer(st)
	require.NoError(t, err)
	// b(60) → c(80) walks 10 and waits 10; b(60) → b(90) on trip 2 serves
	// the same service later and is dropped as the slower option.
	require.Equal(t, &connector.Table{
		Origin: []uint32{1},
		Dest:   []uint32{2},
		Walk:   []uint32{10},
		Wait:   []uint32{10},
	}, tbl)
}

func TestBuilder_BuildAppliesOffsets(t *testing.T) {
	b, err := connector.NewBuilder(testParams())
	require.NoError(t, err)
	st, origins, dests := testNetwork()

	c, err := b.Build(st, origins, dests)
	require.NoError(t, err)

	require.Equal(t, connector.Offsets{Stops: 5, Origins: 1, Destinations: 1}, c.Offsets)
	require.Equal(t, 7, c.Offsets.NodeCount())
	require.Equal(t, uint32(5), c.Offsets.OriginNode(0))
	require.Equal(t, uint32(6), c.Offsets.DestinationNode(0))

	require.Equal(t, &connector.Table{
		Origin: []uint32{5}, Dest: []uint32{0}, Walk: []uint32{5}, Wait: []uint32{5},
	}, c.Access)
	require.Equal(t, &connector.Table{
		Origin: []uint32{3}, Dest: []uint32{6}, Walk: []uint32{10}, Wait: []uint32{0},
	}, c.Egress)

	// node-id offset invariant
	for _, o := range c.Access.Origin {
		require.GreaterOrEqual(t, int(o), c.Offsets.Stops)
		require.Less(t, int(o), c.Offsets.Stops+c.Offsets.Origins)
	}
	for _, d := range c.Egress.Dest {
		require.GreaterOrEqual(t, int(d), c.Offsets.Stops+c.Offsets.Origins)
		require.Less(t, int(d), c.Offsets.NodeCount())
	}
}

func TestBuilder_CrowsFlyScalesPlanarDistance(t *testing.T) {
	p := testParams()
	p.CrowsFlyFactor = 2
	b, err := connector.NewBuilder(p)
	require.NoError(t, err)
	st, _, dests := testNetwork()

	tbl, err := b.Egress(st, dests)
	require.NoError(t, err)
	require.Equal(t, []uint32{20}, tbl.Walk)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := connector.NewBuilder(connector.Params{})
	require.ErrorIs(t, err, connector.ErrBadParams)

	b, err := connector.NewBuilder(testParams())
	require.NoError(t, err)
	st, origins, _ := testNetwork()

	_, err = b.Build(st, origins, &timetable.Endpoints{})
	require.ErrorIs(t, err, timetable.ErrEmpty)

	_, err = b.Transfer(&timetable.StopTimes{TripID: []uint32{1}})
	require.ErrorIs(t, err, timetable.ErrColumnLength)

	require.Panics(t, func() { connector.WithLogger(nil)(nil) })
}

func TestTableCSV_RoundTrip(t *testing.T) {
	in := &connector.Table{
		Origin: []uint32{0, 7},
		Dest:   []uint32{3, 9},
		Walk:   []uint32{12, 0},
		Wait:   []uint32{4, 60},
	}
	var buf bytes.Buffer
	require.NoError(t, connector.WriteCSV(&buf, in))
	require.Equal(t, "onode,dnode,walk,wait\n0,3,12,4\n7,9,0,60\n", buf.String())

	out, err := connector.ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = connector.ReadCSV(bytes.NewBufferString("a,b\n1,2\n"))
	require.Error(t, err)
}
