// SPDX-License-Identifier: MIT

package connector

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadParams indicates a non-positive speed, time limit or factor.
var ErrBadParams = errors.New("connector: invalid parameters")

// Params are the scalar settings of connector discovery.
type Params struct {
	WalkSpeed             float64 // km/h
	MaxTransferTime       float64 // walk + wait budget, seconds
	MaxWait               float64 // seconds
	WalkDistanceThreshold float64 // metres, after crow's-fly scaling
	CrowsFlyFactor        float64 // ≥ 1, applied to x and y only
	StartS                float64 // journey start, seconds after midnight
}

// TimeToDistance is the walk speed in metres per second.
func (p Params) TimeToDistance() float64 { return p.WalkSpeed / 3.6 }

// MaxTransferDistance is MaxTransferTime in walk-distance units.
func (p Params) MaxTransferDistance() float64 { return p.MaxTransferTime * p.TimeToDistance() }

// MaxWaitDistance is MaxWait in walk-distance units.
func (p Params) MaxWaitDistance() float64 { return p.MaxWait * p.TimeToDistance() }

// Validate rejects settings that would make every join empty or undefined.
func (p Params) Validate() error {
	switch {
	case !(p.WalkSpeed > 0) || math.IsInf(p.WalkSpeed, 0):
		return fmt.Errorf("%w: walk speed %v", ErrBadParams, p.WalkSpeed)
	case !(p.MaxTransferTime >= 0), !(p.MaxWait >= 0), !(p.WalkDistanceThreshold >= 0):
		return fmt.Errorf("%w: negative time or distance limit", ErrBadParams)
	case !(p.CrowsFlyFactor >= 1):
		return fmt.Errorf("%w: crow's fly factor %v", ErrBadParams, p.CrowsFlyFactor)
	case math.IsNaN(p.StartS) || math.IsInf(p.StartS, 0):
		return fmt.Errorf("%w: start time %v", ErrBadParams, p.StartS)
	}

	return nil
}

// toSeconds converts a walk-distance value to seconds, rounded to one
// decimal and then truncated. Non-positive input yields 0.
func toSeconds(d, ttd float64) uint32 {
	if !(d > 0) {
		return 0
	}
	return uint32(math.Round(d/ttd*10) / 10)
}
