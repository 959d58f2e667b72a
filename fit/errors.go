// SPDX-License-Identifier: MIT
// Package fit: sentinel errors.

package fit

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewPoints indicates fewer samples than polynomial coefficients.
	ErrTooFewPoints = errors.New("fit: too few points")

	// ErrLengthMismatch indicates parallel inputs of different lengths.
	ErrLengthMismatch = errors.New("fit: length mismatch")

	// ErrBadDegree indicates a negative polynomial degree or a selector
	// configuration that admits no degree.
	ErrBadDegree = errors.New("fit: invalid degree")

	// ErrIllConditioned indicates a least-squares system whose solution is
	// not finite (rank deficient design matrix).
	ErrIllConditioned = errors.New("fit: ill-conditioned least squares")

	// ErrNonFinite indicates a NaN or ±Inf sample.
	ErrNonFinite = errors.New("fit: NaN or Inf encountered")
)

// fitErrorf wraps err with an operation tag, preserving it for errors.Is.
func fitErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
