// SPDX-License-Identifier: MIT

package connector

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/skims/spatial"
	"github.com/katalvlaran/skims/timetable"
)

// Builder computes connector tables for one set of Params.
type Builder struct {
	params Params
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for stage progress. Default discards.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l == nil {
			panic("connector: WithLogger(nil)")
		}
		b.logger = l
	}
}

// NewBuilder validates params and returns a Builder.
func NewBuilder(params Params, opts ...BuilderOption) (*Builder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		params: params,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Transfer returns stop-visit → stop-visit connectors. Node ids are stop-time
// row positions.
//
// Steps:
//  1. self-join visits (x, y scaled, z = departure in distance units);
//  2. keep feasible transfers (wait > 0, walk + wait ≤ max transfer distance);
//  3. tighten walk and wait when their limits are below the transfer budget;
//  4. drop same-route pairs;
//  5. keep the nearest visit of every reachable service.
func (b *Builder) Transfer(st *timetable.StopTimes) (*Table, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("connector: transfer: %w", err)
	}
	maxdist := b.params.MaxTransferDistance()
	points := b.visitPoints(st, true)

	pairs, err := spatial.SelfJoin(points, spatial.InflateRadius(maxdist))
	if err != nil {
		return nil, fmt.Errorf("connector: transfer: %w", err)
	}
	b.logger.Debug("transfer candidates", "pairs", len(pairs))

	set := NewTransferSet(pairs, points)
	set = b.narrow(set, maxdist)
	if set, err = set.FilterSameRoute(st.RouteID); err != nil {
		return nil, err
	}
	if set, err = set.FilterNearestService(st.ServiceID); err != nil {
		return nil, err
	}
	b.logger.Debug("transfer connectors", "rows", set.Len())

	return set.Table(b.params.TimeToDistance()), nil
}

// Access returns origin → stop-visit connectors. Origin ids are positions in
// origins, destination ids are stop-time row positions.
func (b *Builder) Access(st *timetable.StopTimes, origins *timetable.Endpoints) (*Table, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("connector: access: %w", err)
	}
	if err := origins.Validate(); err != nil {
		return nil, fmt.Errorf("connector: access: %w", err)
	}
	maxdist := b.params.MaxTransferDistance()
	stops := b.visitPoints(st, true)
	zones := b.zonePoints(origins, b.params.StartS*b.params.TimeToDistance())

	pairs, err := spatial.CrossJoin(zones, stops, 3, spatial.InflateRadius(maxdist))
	if err != nil {
		return nil, fmt.Errorf("connector: access: %w", err)
	}
	b.logger.Debug("access candidates", "pairs", len(pairs))

	set := b.narrow(NewAccessEgressSet(pairs, zones, stops, 3), maxdist)
	b.logger.Debug("access connectors", "rows", set.Len())

	return set.Table(b.params.TimeToDistance()), nil
}

// Egress returns stop-visit → destination connectors with zero wait. Origin
// ids are stop-time row positions, destination ids are positions in dests.
func (b *Builder) Egress(st *timetable.StopTimes, dests *timetable.Endpoints) (*Table, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("connector: egress: %w", err)
	}
	if err := dests.Validate(); err != nil {
		return nil, fmt.Errorf("connector: egress: %w", err)
	}
	stops := b.visitPoints(st, false)
	zones := b.zonePoints(dests, 0)

	pairs, err := spatial.CrossJoin(stops, zones, 2, b.params.WalkDistanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("connector: egress: %w", err)
	}
	b.logger.Debug("egress connectors", "rows", len(pairs))

	return NewAccessEgressSet(pairs, stops, zones, 2).Table(b.params.TimeToDistance()), nil
}

// Build runs Transfer, Access and Egress and moves their node ids into the
// shared id space. Any failure aborts the whole build.
func (b *Builder) Build(st *timetable.StopTimes, origins, dests *timetable.Endpoints) (*Connectors, error) {
	b.logger.Info("Getting transfer connectors...")
	transfer, err := b.Transfer(st)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Getting access connectors...")
	access, err := b.Access(st, origins)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Getting egress connectors...")
	egress, err := b.Egress(st, dests)
	if err != nil {
		return nil, err
	}

	off := Offsets{Stops: st.Len(), Origins: origins.Len(), Destinations: dests.Len()}
	if uint64(off.NodeCount()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d nodes", spatial.ErrTooLarge, off.NodeCount())
	}
	access.shift(uint32(off.Stops), 0)
	egress.shift(0, uint32(off.Stops+off.Origins))
	b.logger.Info("connectors ready",
		"transfer", transfer.Len(), "access", access.Len(), "egress", egress.Len())

	return &Connectors{Transfer: transfer, Access: access, Egress: egress, Offsets: off}, nil
}

// narrow applies the feasibility, walk and wait filters shared by transfer
// and access candidates. Walk and wait limits only run when tighter than
// maxdist.
func (b *Builder) narrow(set *Set, maxdist float64) *Set {
	set = set.FilterFeasibleTransfer(maxdist)
	if b.params.WalkDistanceThreshold < maxdist {
		set = set.FilterMaxWalk(b.params.WalkDistanceThreshold)
	}
	if w := b.params.MaxWaitDistance(); w < maxdist {
		set = set.FilterMaxWait(w)
	}

	return set
}

// visitPoints scales stop-visit coordinates by the crow's-fly factor; with
// timed set, Z is the departure converted to walk-distance units.
func (b *Builder) visitPoints(st *timetable.StopTimes, timed bool) []spatial.Point {
	f, ttd := b.params.CrowsFlyFactor, b.params.TimeToDistance()
	out := make([]spatial.Point, st.Len())
	for i := range out {
		out[i] = spatial.Point{X: st.X[i] * f, Y: st.Y[i] * f}
		if timed {
			out[i].Z = st.Departure[i] * ttd
		}
	}

	return out
}

func (b *Builder) zonePoints(e *timetable.Endpoints, z float64) []spatial.Point {
	f := b.params.CrowsFlyFactor
	out := make([]spatial.Point, e.Len())
	for i := range out {
		out[i] = spatial.Point{X: e.X[i] * f, Y: e.Y[i] * f, Z: z}
	}

	return out
}
