// SPDX-License-Identifier: MIT

// Package matrix: sentinel error set.
// All functions return these sentinels, wrapped with coordinates or labels
// where useful; callers match them via errors.Is.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value where the numeric policy requires
	// finite values.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrDuplicateLabel indicates the same row or column label twice.
	ErrDuplicateLabel = errors.New("matrix: duplicate label")

	// ErrUnknownLabel indicates a lookup of a label that is not present.
	ErrUnknownLabel = errors.New("matrix: unknown label")
)
