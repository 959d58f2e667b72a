// SPDX-License-Identifier: MIT
// Package waveform: sentinel errors.

package waveform

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a waveform or training set without samples/members.
	ErrEmpty = errors.New("waveform: empty input")

	// ErrBadGrid indicates a non-positive step, a non-positive length or
	// non-finite start of a time grid.
	ErrBadGrid = errors.New("waveform: invalid time grid")

	// ErrNonFinite indicates a NaN or ±Inf sample or parameter.
	ErrNonFinite = errors.New("waveform: NaN or Inf encountered")

	// ErrLengthMismatch indicates that sample count and grid length disagree,
	// or that two sequences expected to be parallel differ in length.
	ErrLengthMismatch = errors.New("waveform: length mismatch")

	// ErrGridMismatch indicates that members of a training set do not share a grid.
	ErrGridMismatch = errors.New("waveform: grids differ")

	// ErrIndex indicates an out-of-range sample or member index.
	ErrIndex = errors.New("waveform: index out of range")

	// ErrNotAligned indicates a training set member whose peak is not at t = 0.
	ErrNotAligned = errors.New("waveform: peaks not aligned at t = 0")
)

// waveformErrorf wraps err with an operation tag, preserving it for errors.Is.
func waveformErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
