// SPDX-License-Identifier: MIT

package dijkstra

import (
	"errors"
	"math"
)

// DefaultLayer is the weight layer searched when WithLayer is not given.
const DefaultLayer = "cost"

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates a source or target outside the graph.
	ErrVertexNotFound = errors.New("dijkstra: vertex not found in graph")

	// ErrBadMaxDistance indicates a negative or NaN MaxDistance.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates a zero or negative InfEdgeThreshold,
	// which would make every arc impassable.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Options configures a search.
//
// Layer            – weight layer of the graph to minimise.
// MaxDistance      – distances strictly above this cap are not explored
//
//	and reported as +Inf. Default +Inf (no cap).
//
// Targets          – when non-empty, the search stops once all are settled.
// InfEdgeThreshold – arcs with weight ≥ threshold are skipped. Default +Inf.
type Options struct {
	Layer            string
	MaxDistance      float64
	Targets          []uint32
	InfEdgeThreshold float64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithLayer selects the weight layer to minimise.
func WithLayer(name string) Option {
	return func(o *Options) {
		o.Layer = name
	}
}

// WithMaxDistance caps the explored distance. Nodes whose shortest distance
// exceeds max are reported as +Inf.
// Negative or NaN values panic with ErrBadMaxDistance.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if !(max >= 0) {
			// Panic in option constructors signals invalid configuration early.
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithTargets stops the search once every node in targets is settled.
// Distances of other nodes are then partial.
func WithTargets(targets []uint32) Option {
	return func(o *Options) {
		o.Targets = targets
	}
}

// WithInfEdgeThreshold treats arcs with weight ≥ threshold as impassable.
// Zero or negative values panic with ErrBadInfThreshold.
func WithInfEdgeThreshold(threshold float64) Option {
	return func(o *Options) {
		if !(threshold > 0) {
			panic(ErrBadInfThreshold.Error())
		}
		o.InfEdgeThreshold = threshold
	}
}

// DefaultOptions returns the defaults overridden by options.
//
// Defaults:
//   - Layer:            DefaultLayer.
//   - MaxDistance:      +Inf.
//   - Targets:          none (settle everything reachable).
//   - InfEdgeThreshold: +Inf.
func DefaultOptions() Options {
	return Options{
		Layer:            DefaultLayer,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}
