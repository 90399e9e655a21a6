// SPDX-License-Identifier: MIT

package skim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/skims/connector"
	"github.com/katalvlaran/skims/edges"
	"github.com/katalvlaran/skims/matrix"
	"github.com/katalvlaran/skims/timetable"
)

var tracer = otel.Tracer("github.com/katalvlaran/skims/skim")

var (
	// ErrBadParams indicates an invalid cutoff or worker count.
	ErrBadParams = errors.New("skim: invalid parameters")

	// ErrConnectorsMismatch indicates precomputed connectors whose node
	// offsets do not match the inputs.
	ErrConnectorsMismatch = errors.New("skim: connectors do not match inputs")
)

// Inputs are the tables one pipeline run consumes.
type Inputs struct {
	StopTimes    *timetable.StopTimes
	Origins      *timetable.Endpoints
	Destinations *timetable.Endpoints
}

// Params are the scalars of one pipeline run.
type Params struct {
	Connector connector.Params
	Weights   edges.Weights
	Cutoff    float64         // seconds; distances ≥ Cutoff are infeasible
	Attribute edges.Attribute // weight minimised; empty means edges.AttrCost
	Workers   int             // 0 means DefaultWorkers()
}

// Validate checks every nested parameter group.
func (p Params) Validate() error {
	if err := p.Connector.Validate(); err != nil {
		return err
	}
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if !(p.Cutoff >= 0) {
		return fmt.Errorf("%w: cutoff %v", ErrBadParams, p.Cutoff)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrBadParams, p.Workers)
	}
	if p.Attribute != "" {
		if _, err := (&edges.Edge{}).Value(p.Attribute); err != nil {
			return err
		}
	}
	return nil
}

// Result holds every intermediate product of a run.
type Result struct {
	Connectors *connector.Connectors
	Edges      []edges.Edge
	Skim       *matrix.Labeled
}

// RunOption configures Run.
type RunOption func(*run)

type run struct {
	logger     *slog.Logger
	connectors *connector.Connectors
}

// WithRunLogger sets the logger handed to every stage. Default discards.
func WithRunLogger(l *slog.Logger) RunOption {
	return func(r *run) {
		if l == nil {
			panic("skim: WithRunLogger(nil)")
		}
		r.logger = l
	}
}

// WithConnectors skips the connector stage and uses c instead.
func WithConnectors(c *connector.Connectors) RunOption {
	return func(r *run) { r.connectors = c }
}

// Run computes the skim for in under p: connectors, edge table, graph,
// shortest distances and the labelled matrix. Only nodes that occur in the
// edge table are queried; every other zone keeps the +Inf infill.
func Run(ctx context.Context, in Inputs, p Params, opts ...RunOption) (*Result, error) {
	r := run{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&r)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Attribute == "" {
		p.Attribute = edges.AttrCost
	}
	if p.Workers == 0 {
		p.Workers = DefaultWorkers()
	}
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	res := &Result{}

	// 1) Connectors.
	conns, err := stage(ctx, "skims.connectors", func(ctx context.Context, span trace.Span) (*connector.Connectors, error) {
		if r.connectors != nil {
			want := connector.Offsets{Stops: in.StopTimes.Len(), Origins: in.Origins.Len(), Destinations: in.Destinations.Len()}
			if r.connectors.Offsets != want {
				return nil, fmt.Errorf("%w: offsets %+v, inputs %+v", ErrConnectorsMismatch, r.connectors.Offsets, want)
			}
			span.SetAttributes(attribute.Bool("precomputed", true))
			return r.connectors, nil
		}
		b, err := connector.NewBuilder(p.Connector, connector.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		c, err := b.Build(in.StopTimes, in.Origins, in.Destinations)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(
			attribute.Int("transfer", c.Transfer.Len()),
			attribute.Int("access", c.Access.Len()),
			attribute.Int("egress", c.Egress.Len()),
		)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	res.Connectors = conns

	// 2) Edge table.
	r.logger.Info("Building edges...")
	es, err := stage(ctx, "skims.edges", func(ctx context.Context, span trace.Span) ([]edges.Edge, error) {
		ivt, err := edges.InVehicle(in.StopTimes)
		if err != nil {
			return nil, err
		}
		es := edges.Assemble(ivt, conns)
		if err := edges.ApplyCost(es, p.Weights); err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("count", len(es)))
		return es, nil
	})
	if err != nil {
		return nil, err
	}
	res.Edges = es

	// 3) Graph.
	r.logger.Info("Building graph...")
	nodeCount := conns.Offsets.NodeCount()
	eng, err := stage(ctx, "skims.graph", func(ctx context.Context, span trace.Span) (*Engine, error) {
		eng, err := NewEngine(nodeCount, es,
			WithWorkers(p.Workers),
			WithAttributes(p.Attribute),
			WithLogger(r.logger),
		)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("nodes", nodeCount), attribute.Int("arcs", eng.Graph().ArcCount()))
		return eng, nil
	})
	if err != nil {
		return nil, err
	}

	// 4) Shortest distances over the nodes the edge table touches.
	r.logger.Info("Calculating shortest paths...")
	origins, destinations := zones(in, conns.Offsets)
	asOrigin, asDest := edges.Endpoints(es, nodeCount)
	dist, err := stage(ctx, "skims.shortest_paths", func(ctx context.Context, span trace.Span) (*Distances, error) {
		src := scope(origins, asOrigin)
		dst := scope(destinations, asDest)
		span.SetAttributes(attribute.Int("origins", len(src)), attribute.Int("destinations", len(dst)))
		return eng.ShortestDistances(ctx, src, dst, WithAttribute(p.Attribute), WithCutoff(p.Cutoff))
	})
	if err != nil {
		return nil, err
	}

	// 5) Labelled matrix.
	r.logger.Info("Assembling skim...")
	var reachable int
	res.Skim, err = stage(ctx, "skims.assemble", func(ctx context.Context, span trace.Span) (*matrix.Labeled, error) {
		m, err := Assemble(origins, destinations, dist, p.Cutoff)
		if err != nil {
			return nil, err
		}
		reachable = countFinite(m.Dense())
		span.SetAttributes(attribute.Int("reachable", reachable))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	rows, cols := res.Skim.Dense().Shape()
	r.logger.Info("skim ready", "origins", rows, "destinations", cols, "reachable", reachable)

	return res, nil
}

// stage runs fn inside a span named name.
func stage[T any](ctx context.Context, name string, fn func(context.Context, trace.Span) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	out, err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}
	return out, nil
}

func validateInputs(in Inputs) error {
	if in.StopTimes == nil || in.Origins == nil || in.Destinations == nil {
		return fmt.Errorf("%w: nil input table", timetable.ErrEmpty)
	}
	if err := in.StopTimes.Validate(); err != nil {
		return fmt.Errorf("stop times: %w", err)
	}
	if err := in.Origins.Validate(); err != nil {
		return fmt.Errorf("origins: %w", err)
	}
	if err := in.Destinations.Validate(); err != nil {
		return fmt.Errorf("destinations: %w", err)
	}
	return nil
}

// zones labels origins and destinations with their node ids.
func zones(in Inputs, off connector.Offsets) (origins, destinations []Zone) {
	origins = make([]Zone, in.Origins.Len())
	for i, name := range in.Origins.Name {
		origins[i] = Zone{Label: name, Node: off.OriginNode(i)}
	}
	destinations = make([]Zone, in.Destinations.Len())
	for j, name := range in.Destinations.Name {
		destinations[j] = Zone{Label: name, Node: off.DestinationNode(j)}
	}
	return origins, destinations
}

// scope keeps the nodes of zs marked in present.
func scope(zs []Zone, present []bool) []uint32 {
	out := make([]uint32, 0, len(zs))
	for _, z := range zs {
		if int(z.Node) < len(present) && present[z.Node] {
			out = append(out, z.Node)
		}
	}
	return out
}

// countFinite counts the cells holding a distance.
func countFinite(m *matrix.Dense) int {
	n := 0
	m.Do(func(_, _ int, v float64) bool {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
		return true
	})
	return n
}

// Cutoff returns the journey window end−start, or +Inf when end is not after
// start.
func Cutoff(startS, endS float64) float64 {
	if endS <= startS {
		return math.Inf(1)
	}
	return endS - startS
}
