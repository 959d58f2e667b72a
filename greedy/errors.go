// SPDX-License-Identifier: MIT
// Package greedy: sentinel and typed errors.

package greedy

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrainingSet indicates a nil or empty training set.
	ErrEmptyTrainingSet = errors.New("greedy: empty training set")

	// ErrBadTolerance indicates a tolerance that is not a finite positive number.
	ErrBadTolerance = errors.New("greedy: tolerance must be finite and > 0")

	// ErrBadCap indicates a basis size cap below one.
	ErrBadCap = errors.New("greedy: basis size cap must be >= 1")

	// ErrBadSeed indicates a seed index outside the training set.
	ErrBadSeed = errors.New("greedy: seed index out of range")

	// ErrDegenerate indicates a zero-norm training waveform, or a selected
	// waveform that is numerically inside the span of the current basis.
	ErrDegenerate = errors.New("greedy: degenerate waveform")

	// ErrNotConverged is the sentinel every *ConvergenceError unwraps to.
	ErrNotConverged = errors.New("greedy: tolerance not reached")

	// ErrBadProduct indicates an unknown inner product name or a bad quadrature step.
	ErrBadProduct = errors.New("greedy: invalid inner product")

	// ErrLengthMismatch indicates a vector whose length differs from the grid.
	ErrLengthMismatch = errors.New("greedy: length mismatch")

	// ErrMalformed indicates a Basis whose fields disagree with each other,
	// typically one rebuilt from storage.
	ErrMalformed = errors.New("greedy: malformed basis")
)

// ConvergenceError reports that the basis size cap was reached before the
// maximum residual fell under the tolerance. Basis holds the partial result.
type ConvergenceError struct {
	Basis      *Basis
	Iterations int     // elements built
	Residual   float64 // final max residual
	Tolerance  float64
}

// Error implements error.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("greedy: not converged after %d elements: max residual %.3e >= tolerance %.3e",
		e.Iterations, e.Residual, e.Tolerance)
}

// Unwrap exposes ErrNotConverged to errors.Is.
func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }

// greedyErrorf wraps err with an operation tag, preserving it for errors.Is.
func greedyErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
