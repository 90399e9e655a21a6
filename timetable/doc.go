// SPDX-License-Identifier: MIT

// Package timetable holds the column tables the skim pipeline consumes:
// scheduled stop visits (StopTimes) and named zone centroids (Endpoints).
//
// Both are structs of parallel slices. Row i of StopTimes is one visit of a
// trip at a stop; its position is the stop-visit node id used throughout the
// pipeline, so rows must be grouped by trip and ordered by stop sequence.
// Coordinates are planar and already projected (metres).
//
// CSV helpers read and write the tables so that preprocessing and the graph
// stages can run as separate steps.
package timetable
