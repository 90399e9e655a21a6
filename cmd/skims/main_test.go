// SPDX-License-Identifier: MIT

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/skims/timetable"
)

var lineFeed = map[string]string{
	"agency.txt":   "agency_id,agency_name,agency_url,agency_timezone\nag,Line,https://example.com,UTC\n",
	"routes.txt":   "route_id,agency_id,route_type\nr1,ag,3\n",
	"stops.txt":    "stop_id,stop_lat,stop_lon\ns1,50.70,-1.30\ns2,50.70,-1.29\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\nwk,1,1,1,1,1,0,0,20190101,20191231\n",
	"trips.txt":    "route_id,service_id,trip_id\nr1,wk,t1\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"t1,08:00:00,08:00:00,s1,1\n" +
		"t1,08:10:00,08:10:00,s2,2\n",
}

func writeFixture(t *testing.T, steps string) (cfgPath, outDir string) {
	t.Helper()
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range lineFeed {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feed.zip"), buf.Bytes(), 0o644))

	centroids := "name,lon,lat\nA,-1.30,50.70\nB,-1.29,50.70\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "centroids.csv"), []byte(centroids), 0o644))

	outDir = filepath.Join(dir, "out")
	cfg := strings.NewReplacer("DIR", dir, "STEPS", steps).Replace(`
paths:
  path_gtfs: DIR/feed.zip
  path_outputs: DIR/out
  path_origins: DIR/centroids.csv
  path_destinations: DIR/centroids.csv
settings:
  calendar_date: 20190515
  start_s: 28000
  end_s: 36000
  reference_latitude: 50.7
  workers: 2
logging:
  level: debug
  file: log_skims.log
steps: STEPS
`)
	cfgPath = filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, outDir
}

func readSkim(t *testing.T, path string) map[string]float64 {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "origin,A,B", lines[0])

	out := make(map[string]float64)
	for _, line := range lines[1:] {
		cells := strings.Split(line, ",")
		require.Len(t, cells, 3)
		for j, dest := range []string{"A", "B"} {
			out[cells[0]+dest] = parseCell(t, cells[j+1])
		}
	}
	return out
}

func parseCell(t *testing.T, s string) float64 {
	t.Helper()
	switch s {
	case "":
		return math.NaN()
	case "inf":
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestRun_AllSteps(t *testing.T) {
	cfgPath, outDir := writeFixture(t, "[preprocessing, connectors, graph]")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"run", cfgPath}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	for _, name := range []string{fileStopTimes, fileTransfer, fileAccess, fileEgress, fileSkims, "log_skims.log"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	f, err := os.Open(filepath.Join(outDir, fileStopTimes))
	require.NoError(t, err)
	st, err := timetable.ReadStopTimes(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.Equal(t, []float64{28800, 29400}, st.Departure)

	skims := readSkim(t, filepath.Join(outDir, fileSkims))
	assert.True(t, math.IsNaN(skims["AA"]))
	assert.True(t, math.IsNaN(skims["BB"]))
	assert.False(t, math.IsInf(skims["AB"], 0))
	assert.Greater(t, skims["AB"], 0.0)

	logData, err := os.ReadFile(filepath.Join(outDir, "log_skims.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Getting transfer connectors...")
	assert.Contains(t, string(logData), "Building graph...")
}

func TestRun_GraphStepReusesOutputs(t *testing.T) {
	cfgPath, outDir := writeFixture(t, "[preprocessing, connectors, graph]")
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"run", cfgPath}, &stdout, &stderr), stderr.String())
	first, err := os.ReadFile(filepath.Join(outDir, fileSkims))
	require.NoError(t, err)

	// a graph-only run over the same directory reads the saved tables
	graphOnly, _ := writeFixture(t, "[graph]")
	require.Equal(t, 0, run(context.Background(), []string{"run", graphOnly, "-output", outDir}, &stdout, &stderr), stderr.String())
	second, err := os.ReadFile(filepath.Join(outDir, fileSkims))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.Equal(t, 0, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	require.Equal(t, "skims dev\n", stdout.String())

	require.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	require.Equal(t, 2, run(context.Background(), []string{"build"}, &stdout, &stderr))
	require.Equal(t, 2, run(context.Background(), []string{"run"}, &stdout, &stderr))
	require.Equal(t, 1, run(context.Background(), []string{"run", filepath.Join(t.TempDir(), "none.yml")}, &stdout, &stderr))
}

func TestRun_GraphWithoutPreviousOutputs(t *testing.T) {
	cfgPath, _ := writeFixture(t, "[graph]")
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run(context.Background(), []string{"run", cfgPath}, &stdout, &stderr))
}

func TestRun_ProjectionInputs(t *testing.T) {
	var stdout, stderr bytes.Buffer

	// no reference latitude
	cfgPath, _ := writeFixture(t, "[preprocessing, connectors, graph]")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Replace(string(data), "  reference_latitude: 50.7\n", "", 1)), 0o644))
	require.Equal(t, 1, run(context.Background(), []string{"run", cfgPath}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "ReferenceLatitude")

	// centroids in a national grid cannot meet stops projected from lon/lat
	cfgPath, outDir := writeFixture(t, "[preprocessing, connectors, graph]")
	grid := "name,x,y\nA,451000,92000\nB,451700,92000\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(outDir), "centroids.csv"), []byte(grid), 0o644))
	require.Equal(t, 1, run(context.Background(), []string{"run", cfgPath}, &stdout, &stderr))
	logData, err := os.ReadFile(filepath.Join(outDir, "log_skims.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), timetable.ErrPlanarFrame.Error())
	assert.NoFileExists(t, filepath.Join(outDir, fileSkims))
}
