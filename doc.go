// SPDX-License-Identifier: MIT

// Package skims computes generalised-cost travel skims over a scheduled
// public transport network.
//
// A skim is an origin × destination matrix of the cheapest journey cost,
// where a journey is a walk to a stop, any number of rides and transfers,
// and a walk from the last stop to the destination.
//
// The work is split into small packages, each usable on its own:
//
//	timetable/  stop-visit and endpoint tables, CSV codecs
//	feed/       GTFS loading, service-day and time-window filtering, projection
//	spatial/    radius self-join and cross-join over k-d and R-tree indexes
//	connector/  transfer, access and egress candidate filtering
//	edges/      in-vehicle edges, edge table assembly, generalised cost
//	core/       immutable CSR graph with named weight layers
//	dijkstra/   single-source search with cutoff and target early exit
//	matrix/     dense and labelled matrices, CSV output
//	skim/       parallel many-to-many engine, matrix assembly, pipeline
//	config/     YAML run configuration
//	logging/    slog setup
//
// Nodes share one id space: stop visits first, then origins, then
// destinations:
//
//	[0, S)        stop-time rows
//	[S, S+O)      origin zones
//	[S+O, S+O+D)  destination zones
//
// The command in cmd/skims runs the preprocessing, connectors and graph
// steps from a YAML file:
//
//	go install github.com/katalvlaran/skims/cmd/skims@latest
//	skims run config.yml
package skims
