// SPDX-License-Identifier: MIT

package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/skims/core"
)

// Distances returns the shortest distance from source to every node of g,
// +Inf where a node is unreachable within MaxDistance.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. the layer must exist (core.ErrLayerNotFound).
//  3. source and every target must be nodes of g (ErrVertexNotFound).
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func Distances(g *core.Graph, source uint32, opts ...Option) ([]float64, error) {
	s, err := NewSearch(g, opts...)
	if err != nil {
		return nil, err
	}
	if err = s.Run(source); err != nil {
		return nil, err
	}
	out := make([]float64, len(s.dist))
	for v := range out {
		out[v] = s.Distance(uint32(v))
	}

	return out, nil
}

// Search holds the scratch state of repeated single-source runs over one
// graph and one set of options.
type Search struct {
	g       *core.Graph
	options Options
	weights []float64 // layer in CSR slot order
	dist    []float64 // node → best known distance, +Inf when untouched
	settled []bool    // node → distance is final
	touched []uint32  // nodes whose dist/settled differ from the reset state
	target  []bool    // node → is a target
	nTarget int       // distinct targets
	pq      nodePQ
}

// NewSearch validates g and the options and allocates scratch buffers.
func NewSearch(g *core.Graph, opts ...Option) (*Search, error) {
	// 1) Build and validate Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	w, err := g.Layer(cfg.Layer)
	if err != nil {
		return nil, fmt.Errorf("dijkstra: %w", err)
	}

	// 2) Scratch buffers sized to the graph.
	n := g.NodeCount()
	s := &Search{
		g:       g,
		options: cfg,
		weights: w,
		dist:    make([]float64, n),
		settled: make([]bool, n),
		pq:      make(nodePQ, 0, 64),
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
	}

	// 3) Target set.
	if len(cfg.Targets) > 0 {
		s.target = make([]bool, n)
		for _, t := range cfg.Targets {
			if !g.HasNode(t) {
				return nil, fmt.Errorf("%w: target %d", ErrVertexNotFound, t)
			}
			if !s.target[t] {
				s.target[t] = true
				s.nTarget++
			}
		}
	}

	return s, nil
}

// Run computes distances from source, discarding the previous run.
func (s *Search) Run(source uint32) error {
	if !s.g.HasNode(source) {
		return fmt.Errorf("%w: source %d", ErrVertexNotFound, source)
	}
	s.reset()
	s.init(source)
	s.process()

	return nil
}

// Distance returns the distance of v found by the last Run, +Inf when v was
// not reached or lies outside the graph.
func (s *Search) Distance(v uint32) float64 {
	if int(v) >= len(s.dist) {
		return math.Inf(1)
	}
	if !s.settled[v] {
		// Tentative distances of unsettled nodes are not final.
		return math.Inf(1)
	}
	return s.dist[v]
}

// reset restores the untouched state in O(touched).
func (s *Search) reset() {
	for _, v := range s.touched {
		s.dist[v] = math.Inf(1)
		s.settled[v] = false
	}
	s.touched = s.touched[:0]
	s.pq = s.pq[:0]
}

// init sets the source distance to zero and pushes it into the heap.
func (s *Search) init(source uint32) {
	s.dist[source] = 0
	s.touched = append(s.touched, source)
	heap.Init(&s.pq)
	heap.Push(&s.pq, nodeItem{id: source, dist: 0})
}

// process is the main loop. It ends when the heap is empty, the next
// distance exceeds MaxDistance, or every target is settled.
func (s *Search) process() {
	var (
		item    nodeItem
		pending = s.nTarget
	)
	for s.pq.Len() > 0 {
		// 1) Pop the smallest-distance entry.
		item = heap.Pop(&s.pq).(nodeItem)

		// 2) Skip stale entries.
		if s.settled[item.id] {
			continue
		}

		// 3) Nothing beyond the cap can improve anything.
		if item.dist > s.options.MaxDistance {
			break
		}

		// 4) Settle.
		s.settled[item.id] = true
		if s.target != nil && s.target[item.id] {
			pending--
			if pending == 0 {
				return
			}
		}

		// 5) Relax out-arcs.
		s.relax(item.id)
	}
}

// relax improves the tentative distances of the successors of u.
func (s *Search) relax(u uint32) {
	lo, hi := s.g.OutRange(u)
	du := s.dist[u]
	var (
		v       uint32
		w       float64
		newDist float64
	)
	for slot := lo; slot < hi; slot++ {
		w = s.weights[slot]
		if w >= s.options.InfEdgeThreshold {
			continue // impassable
		}
		v = s.g.Head(slot)
		if s.settled[v] {
			continue
		}
		newDist = du + w
		if newDist > s.options.MaxDistance {
			continue
		}
		// strict < avoids pushing duplicates for equal distances
		if newDist >= s.dist[v] {
			continue
		}
		if math.IsInf(s.dist[v], 1) {
			s.touched = append(s.touched, v)
		}
		s.dist[v] = newDist
		heap.Push(&s.pq, nodeItem{id: v, dist: newDist})
	}
}

// nodeItem is a heap entry: a node and a candidate distance.
type nodeItem struct {
	id   uint32
	dist float64
}

// nodePQ is a min-heap of nodeItem ordered by dist. Outdated entries are
// left in place and skipped when popped (lazy decrease-key).
type nodePQ []nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less defines the comparison: smaller dist → higher priority.
func (pq nodePQ) Less(i, j int) bool { return pq[i].dist < pq[j].dist }

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(nodeItem)) }

// Pop removes and returns the last element; heap.Pop moves the minimum there first.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
