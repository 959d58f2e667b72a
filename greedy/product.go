// SPDX-License-Identifier: MIT

package greedy

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gwsur/matrix"
)

// InnerProduct is a Hermitian inner product on sampled waveforms,
// conjugate-linear in the first argument.
type InnerProduct interface {
	Dot(a, b []complex128) complex128
	Name() string
}

// Euclidean is Σ conj(a_i)·b_i.
type Euclidean struct{}

// Dot implements InnerProduct.
func (Euclidean) Dot(a, b []complex128) complex128 { return matrix.Dot(a, b) }

// Name implements InnerProduct.
func (Euclidean) Name() string { return "euclidean" }

// Riemann is the rectangle-rule quadrature Step·Σ conj(a_i)·b_i, approximating
// ∫ conj(a)·b dt on a uniform grid.
type Riemann struct {
	Step float64
}

// Dot implements InnerProduct.
func (r Riemann) Dot(a, b []complex128) complex128 {
	return complex(r.Step, 0) * matrix.Dot(a, b)
}

// Name implements InnerProduct.
func (Riemann) Name() string { return "riemann" }

// ProductByName rebuilds an inner product from its Name (step is used by
// "riemann" only).
func ProductByName(name string, step float64) (InnerProduct, error) {
	switch name {
	case "", "euclidean":
		return Euclidean{}, nil
	case "riemann":
		if !(step > 0) || math.IsInf(step, 0) {
			return nil, fmt.Errorf("riemann step %g: %w", step, ErrBadProduct)
		}

		return Riemann{Step: step}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrBadProduct)
	}
}

// norm returns sqrt(Re <a, a>).
func norm(ip InnerProduct, a []complex128) float64 {
	return math.Sqrt(math.Max(real(ip.Dot(a, a)), 0))
}
