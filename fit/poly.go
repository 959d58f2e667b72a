// SPDX-License-Identifier: MIT

package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Poly is a polynomial Σ Coeffs[p]·x^p in the mapped variable.
type Poly struct {
	Coeffs []float64
}

// Degree returns len(Coeffs)-1.
func (p Poly) Degree() int { return len(p.Coeffs) - 1 }

// Eval evaluates p at x by Horner's rule.
func (p Poly) Eval(x float64) float64 {
	var v float64
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = v*x + p.Coeffs[i]
	}

	return v
}

// validate rejects an empty or non-finite coefficient slice.
func (p Poly) validate() error {
	if len(p.Coeffs) == 0 {
		return fmt.Errorf("no coefficients: %w", ErrBadDegree)
	}
	for i, c := range p.Coeffs {
		if !finite(c) {
			return fmt.Errorf("coefficient %d=%g: %w", i, c, ErrNonFinite)
		}
	}

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Polyfit returns the least-squares polynomial of the given degree through
// (x_i, y_i). A condition-number warning from the QR solve is tolerated as
// long as the coefficients stay finite.
//
// Errors: ErrBadDegree, ErrLengthMismatch, ErrTooFewPoints, ErrNonFinite,
// ErrIllConditioned.
// Complexity: O(n·d²).
func Polyfit(x, y []float64, degree int) (Poly, error) {
	const tag = "Polyfit"
	switch {
	case degree < 0:
		return Poly{}, fitErrorf(tag, fmt.Errorf("degree %d: %w", degree, ErrBadDegree))
	case len(x) != len(y):
		return Poly{}, fitErrorf(tag, fmt.Errorf("%d x for %d y: %w", len(x), len(y), ErrLengthMismatch))
	case len(x) < degree+1:
		return Poly{}, fitErrorf(tag, fmt.Errorf("%d points for degree %d: %w", len(x), degree, ErrTooFewPoints))
	}

	n, m := len(x), degree+1
	design := mat.NewDense(n, m, nil)
	for i, xi := range x {
		if math.IsNaN(xi) || math.IsInf(xi, 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return Poly{}, fitErrorf(tag, fmt.Errorf("point %d: %w", i, ErrNonFinite))
		}
		pow := 1.0
		for j := 0; j < m; j++ {
			design.Set(i, j, pow)
			pow *= xi
		}
	}

	var c mat.VecDense
	if err := c.SolveVec(design, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return Poly{}, fitErrorf(tag, err)
		}
	}

	coeffs := make([]float64, m)
	for j := range coeffs {
		coeffs[j] = c.AtVec(j)
		if math.IsNaN(coeffs[j]) || math.IsInf(coeffs[j], 0) {
			return Poly{}, fitErrorf(tag, fmt.Errorf("degree %d on %d points: %w", degree, n, ErrIllConditioned))
		}
	}

	return Poly{Coeffs: coeffs}, nil
}
