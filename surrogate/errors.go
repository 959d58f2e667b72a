// SPDX-License-Identifier: MIT
// Package surrogate: sentinel and typed errors.

package surrogate

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is the sentinel every *OutOfRangeError unwraps to.
	ErrOutOfRange = errors.New("surrogate: parameter outside the training interval")

	// ErrIncompatible indicates basis, interpolant and fit model that do not
	// describe the same grid or node count.
	ErrIncompatible = errors.New("surrogate: incompatible components")

	// ErrBadIndex indicates a basis vector index outside [0, size).
	ErrBadIndex = errors.New("surrogate: basis index out of range")

	// ErrBadCount indicates a non-positive repetition count.
	ErrBadCount = errors.New("surrogate: count must be >= 1")

	// ErrBadFlavor indicates an unknown basis vector flavor.
	ErrBadFlavor = errors.New("surrogate: unknown basis flavor")

	// ErrCorrupt indicates a serialised surrogate that fails validation.
	ErrCorrupt = errors.New("surrogate: corrupt encoding")

	// ErrLengthMismatch indicates a reference waveform whose length differs
	// from the result.
	ErrLengthMismatch = errors.New("surrogate: length mismatch")
)

// OutOfRangeError reports a query outside [Lo, Hi] under the Reject policy.
type OutOfRangeError struct {
	Param  float64
	Lo, Hi float64
}

// Error implements error.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("surrogate: q=%g outside training interval [%g, %g]", e.Param, e.Lo, e.Hi)
}

// Unwrap exposes ErrOutOfRange to errors.Is.
func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// surrogateErrorf wraps err with an operation tag, preserving it for errors.Is.
func surrogateErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
