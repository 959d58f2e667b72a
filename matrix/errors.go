// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation tag
// via matrixErrorf) and callers match them with errors.Is. No kernel panics on
// user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Context is attached with matrixErrorf at the
// nearest detection site; callers still use errors.Is to match.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Mul where a.Cols != b.Rows or a vector of the wrong length.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf component was encountered where finite
	// values are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular is returned when the largest available pivot falls below the
	// configured pivot tolerance during LU factorisation.
	ErrSingular = errors.New("matrix: singular matrix")
)

// SingularError reports the elimination step whose best pivot fell under
// the tolerance. It unwraps to ErrSingular.
type SingularError struct {
	Step  int     // column being eliminated
	Pivot float64 // best available |pivot|
}

// Error implements error.
func (e *SingularError) Error() string {
	return fmt.Sprintf("pivot %d (|p|=%.3e): %s", e.Step, e.Pivot, ErrSingular)
}

// Unwrap exposes ErrSingular to errors.Is.
func (e *SingularError) Unwrap() error { return ErrSingular }

// Operation name constants for unified error wrapping.
const (
	opAt      = "At"
	opSet     = "Set"
	opMul     = "Mul"
	opMulVec  = "MulVec"
	opLU      = "LU"
	opSolve   = "Solve"
	opInverse = "Inverse"
	opFromCol = "FromColumns"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
