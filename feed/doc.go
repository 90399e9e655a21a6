// SPDX-License-Identifier: MIT

// Package feed turns a zipped GTFS schedule into the stop-visit table the
// connector and graph stages consume.
//
// The preprocessing chain is:
//
//	Load → FilterDay → StopTimes (time window, projection) → FilterBoundingBox
//
// Parsing is delegated to github.com/jamespfennell/gtfs; projection and
// bounding boxes use github.com/paulmach/orb.
package feed
