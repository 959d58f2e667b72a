// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults (single source of truth).
package matrix

const (
	// DefaultPivotTolerance is the relative pivot threshold used by Factorize:
	// a pivot with |p| <= DefaultPivotTolerance·max|a_ij| is treated as zero.
	DefaultPivotTolerance = 1e-13

	// DefaultEpsilon is the absolute tolerance used by AllClose-style helpers.
	DefaultEpsilon = 1e-9
)
