// SPDX-License-Identifier: MIT

package spatial_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/skims/spatial"
)

func TestCrossJoin_Planar(t *testing.T) {
	a := []spatial.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	b := []spatial.Point{{X: 0.5, Y: 0.5}, {X: 2, Y: 1}, {X: 2, Y: 2}}

	pairs, err := spatial.CrossJoin(a, b, 2, 1)
	require.NoError(t, err)
	require.Equal(t, []spatial.Pair{
		{Origin: 0, Dest: 0},
		{Origin: 1, Dest: 0},
		{Origin: 1, Dest: 1},
	}, pairs)
}

func TestCrossJoin_PlanarIgnoresZ(t *testing.T) {
	a := []spatial.Point{{X: 0, Y: 0, Z: 100}}
	b := []spatial.Point{{X: 0, Y: 0, Z: -100}}

	pairs, err := spatial.CrossJoin(a, b, 2, 0)
	require.NoError(t, err)
	require.Equal(t, []spatial.Pair{{Origin: 0, Dest: 0}}, pairs)
}

func TestCrossJoin_ThreeDimensional(t *testing.T) {
	a := []spatial.Point{{X: 0, Y: 0, Z: 0}}
	b := []spatial.Point{
		{X: 0.5, Y: 0.5, Z: 1}, // |d| ≈ 1.22
		{X: 0, Y: 0, Z: 1.5},   // |d| = 1.5 > √2
		{X: 1, Y: 0, Z: 1},     // |d| = √2, boundary is inclusive
	}

	pairs, err := spatial.CrossJoin(a, b, 3, spatial.InflateRadius(1))
	require.NoError(t, err)
	require.Equal(t, []spatial.Pair{{Origin: 0, Dest: 0}, {Origin: 0, Dest: 2}}, pairs)
}

func TestSelfJoin_ForwardInTimeOnly(t *testing.T) {
	points := []spatial.Point{
		{X: 0, Y: 0, Z: 10},
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 5},
	}

	pairs, err := spatial.SelfJoin(points, 20)
	require.NoError(t, err)
	// time order is 1 → 2 → 0
	require.Equal(t, []spatial.Pair{
		{Origin: 1, Dest: 0},
		{Origin: 1, Dest: 2},
		{Origin: 2, Dest: 0},
	}, pairs)
}

func TestSelfJoin_CoincidentPoints(t *testing.T) {
	points := []spatial.Point{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}

	pairs, err := spatial.SelfJoin(points, 0)
	require.NoError(t, err)
	require.Equal(t, []spatial.Pair{{Origin: 0, Dest: 1}}, pairs)
}

func TestJoins_Empty(t *testing.T) {
	pairs, err := spatial.SelfJoin(nil, 1)
	require.NoError(t, err)
	require.Empty(t, pairs)

	pairs, err = spatial.SelfJoin([]spatial.Point{{}}, 1)
	require.NoError(t, err)
	require.Empty(t, pairs)

	pairs, err = spatial.CrossJoin(nil, []spatial.Point{{}}, 3, 1)
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestJoins_Errors(t *testing.T) {
	_, err := spatial.SelfJoin([]spatial.Point{{}}, -1)
	require.ErrorIs(t, err, spatial.ErrBadRadius)

	_, err = spatial.SelfJoin([]spatial.Point{{}}, math.NaN())
	require.ErrorIs(t, err, spatial.ErrBadRadius)

	_, err = spatial.SelfJoin([]spatial.Point{{Z: math.Inf(1)}}, 1)
	require.ErrorIs(t, err, spatial.ErrNonFinite)

	_, err = spatial.CrossJoin(nil, nil, 4, 1)
	require.ErrorIs(t, err, spatial.ErrBadDims)

	// Z is not inspected for planar joins.
	_, err = spatial.CrossJoin([]spatial.Point{{Z: math.NaN()}}, []spatial.Point{{}}, 2, 1)
	require.NoError(t, err)

	_, err = spatial.CrossJoin([]spatial.Point{{}}, []spatial.Point{{X: math.NaN()}}, 2, 1)
	require.ErrorIs(t, err, spatial.ErrNonFinite)
}

// TestSelfJoin_MatchesBruteForce checks completeness and soundness against an
// exhaustive scan on random data.
func TestSelfJoin_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := make([]spatial.Point, 300)
	for i := range points {
		points[i] = spatial.Point{
			X: rng.Float64() * 100,
			Y: rng.Float64() * 100,
			Z: float64(rng.Intn(50)), // many ties on the time axis
		}
	}
	const radius = 12.0

	got, err := spatial.SelfJoin(points, radius)
	require.NoError(t, err)

	want := make([]spatial.Pair, 0)
	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			forward := points[j].Z > points[i].Z || (points[j].Z == points[i].Z && j > i)
			if forward && dist3(points[i], points[j]) <= radius {
				want = append(want, spatial.Pair{Origin: uint32(i), Dest: uint32(j)})
			}
		}
	}
	require.Equal(t, want, got)
}

func TestCrossJoin_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	gen := func(n int) []spatial.Point {
		out := make([]spatial.Point, n)
		for i := range out {
			out[i] = spatial.Point{X: rng.Float64() * 50, Y: rng.Float64() * 50, Z: rng.Float64() * 50}
		}
		return out
	}
	a, b := gen(120), gen(200)

	for _, dims := range []int{2, 3} {
		got, err := spatial.CrossJoin(a, b, dims, 6)
		require.NoError(t, err)

		want := make([]spatial.Pair, 0)
		for i := range a {
			for j := range b {
				d := dist3(a[i], b[j])
				if dims == 2 {
					d = math.Hypot(a[i].X-b[j].X, a[i].Y-b[j].Y)
				}
				if d <= 6 {
					want = append(want, spatial.Pair{Origin: uint32(i), Dest: uint32(j)})
				}
			}
		}
		require.Equal(t, want, got, "dims=%d", dims)
	}
}

func TestInflateRadius(t *testing.T) {
	require.InDelta(t, 14.142135, spatial.InflateRadius(10), 1e-6)
	require.Zero(t, spatial.InflateRadius(0))
}

func dist3(a, b spatial.Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
