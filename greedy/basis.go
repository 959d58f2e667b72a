// SPDX-License-Identifier: MIT

package greedy

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/gwsur/matrix"
	"github.com/katalvlaran/gwsur/waveform"
)

// Basis is an orthonormal reduced basis on a training set's grid.
//
// Fields:
//   - Elements[k]: orthonormal vector e_k under Product.
//   - Indices[k], Params[k]: training waveform selected at step k.
//   - Residuals[k]: max residual over the training set after k+1 elements.
//   - R: upper-triangular Gram-Schmidt factor; the (normalised, if
//     Normalized) selected waveform j equals Σ_i R[i][j]·e_i.
//   - Norms[i]: ‖h_i‖ of every training waveform under Product.
type Basis struct {
	Grid       waveform.Grid
	Product    InnerProduct
	Normalized bool
	Elements   [][]complex128
	Indices    []int
	Params     []float64
	Residuals  []float64
	R          [][]complex128
	Norms      []float64
}

// Size returns the number of basis elements.
func (b *Basis) Size() int { return len(b.Elements) }

// Project returns the coefficients c_k = <e_k, h> and the projection error
// ‖h − Σ c_k e_k‖.
// Complexity: O(k·L).
func (b *Basis) Project(h []complex128) ([]complex128, float64, error) {
	if len(h) != b.Grid.Len {
		return nil, 0, greedyErrorf("Project", fmt.Errorf("%d samples, grid has %d: %w", len(h), b.Grid.Len, ErrLengthMismatch))
	}
	coeffs := make([]complex128, len(b.Elements))
	r := append([]complex128(nil), h...)
	for k, e := range b.Elements {
		coeffs[k] = b.Product.Dot(e, h)
		matrix.Axpy(-coeffs[k], e, r)
	}

	return coeffs, norm(b.Product, r), nil
}

// GreedyVector reconstructs the j-th selected training waveform from R
// (rescaled by its norm when the basis was built on normalised waveforms).
func (b *Basis) GreedyVector(j int) ([]complex128, error) {
	if j < 0 || j >= len(b.Elements) {
		return nil, greedyErrorf("GreedyVector", fmt.Errorf("%d of %d: %w", j, len(b.Elements), ErrBadSeed))
	}
	out := make([]complex128, b.Grid.Len)
	for i := 0; i <= j; i++ {
		matrix.Axpy(b.R[i][j], b.Elements[i], out)
	}
	if b.Normalized {
		matrix.ScaleVec(complex(b.Norms[b.Indices[j]], 0), out)
	}

	return out, nil
}

// Validate checks that the fields of b describe one consistent basis:
// k >= 1 elements on Grid, k indices, params and residuals, a k×k R and a
// finite non-negative norm for every selected training index.
// Errors: ErrMalformed.
func (b *Basis) Validate() error {
	const tag = "Validate"
	k := len(b.Elements)
	switch {
	case k == 0:
		return greedyErrorf(tag, fmt.Errorf("no elements: %w", ErrMalformed))
	case b.Product == nil:
		return greedyErrorf(tag, fmt.Errorf("no inner product: %w", ErrMalformed))
	case len(b.Indices) != k || len(b.Params) != k:
		return greedyErrorf(tag, fmt.Errorf("%d elements, %d indices, %d params: %w", k, len(b.Indices), len(b.Params), ErrMalformed))
	case len(b.Residuals) != k:
		return greedyErrorf(tag, fmt.Errorf("%d elements, %d residuals: %w", k, len(b.Residuals), ErrMalformed))
	case len(b.R) != k:
		return greedyErrorf(tag, fmt.Errorf("%d elements, %d rows of R: %w", k, len(b.R), ErrMalformed))
	}
	for i, e := range b.Elements {
		if len(e) != b.Grid.Len {
			return greedyErrorf(tag, fmt.Errorf("element %d has %d samples, grid has %d: %w", i, len(e), b.Grid.Len, ErrMalformed))
		}
		if !finiteVec(e) {
			return greedyErrorf(tag, fmt.Errorf("element %d is not finite: %w", i, ErrMalformed))
		}
	}
	for i, row := range b.R {
		if len(row) != k || !finiteVec(row) {
			return greedyErrorf(tag, fmt.Errorf("row %d of R: %w", i, ErrMalformed))
		}
	}
	for j, idx := range b.Indices {
		if idx < 0 || idx >= len(b.Norms) {
			return greedyErrorf(tag, fmt.Errorf("index %d=%d with %d norms: %w", j, idx, len(b.Norms), ErrMalformed))
		}
	}
	for i, v := range b.Norms {
		if !(v >= 0) || math.IsInf(v, 0) {
			return greedyErrorf(tag, fmt.Errorf("norm %d=%g: %w", i, v, ErrMalformed))
		}
	}

	return nil
}

func finiteVec(x []complex128) bool {
	for _, z := range x {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return false
		}
	}

	return true
}
