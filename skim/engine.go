// SPDX-License-Identifier: MIT

package skim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/skims/core"
	"github.com/katalvlaran/skims/dijkstra"
	"github.com/katalvlaran/skims/edges"
)

var (
	// ErrWorkerFailed wraps the cause of a failed or panicking origin task.
	ErrWorkerFailed = errors.New("skim: worker failed")

	// ErrAttributeNotBuilt indicates a query on an attribute the engine has
	// no weight layer for.
	ErrAttributeNotBuilt = errors.New("skim: attribute not built")

	// ErrShape indicates distances whose rows or columns do not match their
	// node lists.
	ErrShape = errors.New("skim: distance table shape mismatch")

	// ErrNotBuilt indicates a query on an engine NewEngine did not return.
	ErrNotBuilt = errors.New("skim: engine not built")
)

// State is the engine lifecycle stage.
type State int32

const (
	// StateUninitialized is the zero Engine: no graph, queries fail.
	StateUninitialized State = iota
	// StateBuilt means the graph exists and no query has completed yet.
	StateBuilt
	// StateQueried means at least one query has completed.
	StateQueried
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilt:
		return "built"
	case StateQueried:
		return "queried"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// DefaultWorkers is one less than the number of CPUs, at least one.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

// Engine answers shortest-distance queries over one immutable graph.
// It is safe for concurrent use.
type Engine struct {
	graph   *core.Graph
	attrs   []edges.Attribute
	workers int
	logger  *slog.Logger
	state   atomic.Int32

	// search runs one origin; replaced in tests.
	search func(s *dijkstra.Search, source uint32) error
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers bounds the number of concurrent origin tasks. n < 1 panics.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n < 1 {
			panic("skim: WithWorkers: n must be ≥ 1")
		}
		e.workers = n
	}
}

// WithAttributes selects the edge attributes to build weight layers for.
// Default: edges.AttrCost only.
func WithAttributes(attrs ...edges.Attribute) EngineOption {
	return func(e *Engine) {
		e.attrs = append([]edges.Attribute(nil), attrs...)
	}
}

// WithLogger sets the engine logger. Default discards.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l == nil {
			panic("skim: WithLogger(nil)")
		}
		e.logger = l
	}
}

// NewEngine builds the graph over nodeCount nodes from es. Parallel edges are
// kept. One weight layer is built per selected attribute.
func NewEngine(nodeCount int, es []edges.Edge, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		attrs:   []edges.Attribute{edges.AttrCost},
		workers: DefaultWorkers(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		search:  (*dijkstra.Search).Run,
	}
	for _, opt := range opts {
		opt(e)
	}

	arcs := make([]core.Arc, len(es))
	for i := range es {
		arcs[i] = core.Arc{From: es[i].Origin, To: es[i].Dest}
	}
	layers := make([]core.GraphOption, 0, len(e.attrs))
	for _, a := range e.attrs {
		if _, err := (&edges.Edge{}).Value(a); err != nil {
			return nil, fmt.Errorf("skim: %w", err)
		}
		w := make([]float64, len(es))
		for i := range es {
			v, err := es[i].Value(a)
			if err != nil {
				return nil, err
			}
			w[i] = v
		}
		layers = append(layers, core.WithLayer(string(a), w))
	}

	g, err := core.NewGraph(nodeCount, arcs, layers...)
	if err != nil {
		return nil, fmt.Errorf("skim: build graph: %w", err)
	}
	e.graph = g
	e.state.Store(int32(StateBuilt))
	e.logger.Debug("graph built", "nodes", g.NodeCount(), "arcs", g.ArcCount(), "layers", g.Layers())

	return e, nil
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *core.Graph { return e.graph }

// State returns the lifecycle stage.
func (e *Engine) State() State { return State(e.state.Load()) }

// Distances is a many-to-many result. Values[i][j] is the distance from
// Origins[i] to Destinations[j], +Inf when unreachable within the cutoff.
type Distances struct {
	Origins      []uint32
	Destinations []uint32
	Values       [][]float64
}

// QueryOption configures one ShortestDistances call.
type QueryOption func(*query)

type query struct {
	attr   edges.Attribute
	cutoff float64
}

// WithAttribute selects the weight to minimise. Default edges.AttrCost.
func WithAttribute(a edges.Attribute) QueryOption {
	return func(q *query) { q.attr = a }
}

// WithCutoff reports distances above c as +Inf. Negative or NaN c panics.
func WithCutoff(c float64) QueryOption {
	return func(q *query) {
		if !(c >= 0) {
			panic("skim: WithCutoff: cutoff must be non-negative")
		}
		q.cutoff = c
	}
}

// ShortestDistances computes the distance from every origin to every
// destination. Rows follow the order of origins. Origins outside the graph
// yield an all +Inf row; destinations outside the graph a +Inf column.
//
// Errors:
//   - ErrNotBuilt on an Engine not returned by NewEngine.
//   - ErrAttributeNotBuilt for an attribute without a layer.
//   - ErrWorkerFailed wrapping the first task error or panic.
//   - ctx.Err() when ctx is cancelled before all tasks ran.
func (e *Engine) ShortestDistances(ctx context.Context, origins, destinations []uint32, opts ...QueryOption) (*Distances, error) {
	if e == nil || e.graph == nil {
		return nil, ErrNotBuilt
	}
	q := query{attr: edges.AttrCost, cutoff: math.Inf(1)}
	for _, opt := range opts {
		opt(&q)
	}
	if _, err := e.graph.Layer(string(q.attr)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrAttributeNotBuilt, q.attr)
	}

	// 1) Destinations inside the graph.
	targets := make([]uint32, 0, len(destinations))
	for _, d := range destinations {
		if e.graph.HasNode(d) {
			targets = append(targets, d)
		}
	}

	// 2) Pre-sized result slots, one per origin.
	values := make([][]float64, len(origins))
	started := time.Now()

	// No destination in the graph: nothing is reachable, skip the searches.
	if len(targets) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range values {
			values[i] = infRow(len(destinations))
		}
		return e.done(origins, destinations, values, 0, started), nil
	}

	// 3) Search options shared by every worker.
	searchOpts := []dijkstra.Option{
		dijkstra.WithLayer(string(q.attr)),
		dijkstra.WithMaxDistance(q.cutoff),
		dijkstra.WithTargets(targets),
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range origins {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	workers := min(e.workers, max(len(origins), 1))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return e.work(jobs, origins, destinations, values, searchOpts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.done(origins, destinations, values, workers, started), nil
}

// done records a completed query and packs its result.
func (e *Engine) done(origins, destinations []uint32, values [][]float64, workers int, started time.Time) *Distances {
	e.state.Store(int32(StateQueried))
	e.logger.Debug("shortest distances",
		"origins", len(origins), "destinations", len(destinations),
		"workers", workers, "elapsed", time.Since(started))

	return &Distances{
		Origins:      append([]uint32(nil), origins...),
		Destinations: append([]uint32(nil), destinations...),
		Values:       values,
	}
}

func infRow(n int) []float64 {
	row := make([]float64, n)
	for j := range row {
		row[j] = math.Inf(1)
	}
	return row
}

// work drains jobs with one reusable search. A panic is converted to
// ErrWorkerFailed so it fails the batch instead of the process.
func (e *Engine) work(jobs <-chan int, origins, dests []uint32, values [][]float64, opts []dijkstra.Option) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrWorkerFailed, r)
		}
	}()

	s, err := dijkstra.NewSearch(e.graph, opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}
	var row []float64
	for i := range jobs {
		if !e.graph.HasNode(origins[i]) {
			values[i] = infRow(len(dests))
			continue
		}
		if err = e.search(s, origins[i]); err != nil {
			return fmt.Errorf("%w: origin %d: %w", ErrWorkerFailed, origins[i], err)
		}
		row = make([]float64, len(dests))
		for j, d := range dests {
			row[j] = s.Distance(d)
		}
		values[i] = row
	}

	return nil
}
