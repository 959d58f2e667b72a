// SPDX-License-Identifier: MIT
// Package eim: sentinel and typed errors.

package eim

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular is the sentinel every *SingularInterpolantError unwraps to.
	ErrSingular = errors.New("eim: interpolation matrix is singular")

	// ErrEmptyBasis indicates a nil basis or one without elements.
	ErrEmptyBasis = errors.New("eim: empty basis")

	// ErrLengthMismatch indicates a vector whose length differs from the
	// grid or from the node count.
	ErrLengthMismatch = errors.New("eim: length mismatch")

	// ErrOutsideGrid indicates resampling times outside the native grid or
	// not strictly increasing.
	ErrOutsideGrid = errors.New("eim: times outside the native grid")
)

// SingularInterpolantError reports the greedy step at which a new node could
// not be placed (its residual, or an LU pivot, fell under the tolerance).
type SingularInterpolantError struct {
	Step  int     // basis element being added
	Pivot float64 // offending |residual| or pivot magnitude
	Tol   float64
}

// Error implements error.
func (e *SingularInterpolantError) Error() string {
	return fmt.Sprintf("eim: singular interpolant at step %d: |pivot| %.3e below %.3e", e.Step, e.Pivot, e.Tol)
}

// Unwrap exposes ErrSingular to errors.Is.
func (e *SingularInterpolantError) Unwrap() error { return ErrSingular }

// eimErrorf wraps err with an operation tag, preserving it for errors.Is.
func eimErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
