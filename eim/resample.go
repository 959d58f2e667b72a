// SPDX-License-Identifier: MIT

package eim

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/katalvlaran/gwsur/matrix"
)

// colSpline holds natural cubic splines of one column of B.
type colSpline struct {
	re, im interp.NaturalCubic
}

// fitSplines fits every column of B over the native grid times.
func (in *Interpolant) fitSplines() ([]colSpline, error) {
	xs := in.Grid.Times()
	k := in.B.Cols()
	out := make([]colSpline, k)
	for j := 0; j < k; j++ {
		col, err := in.B.Col(j)
		if err != nil {
			return nil, err
		}
		re, im := make([]float64, len(col)), make([]float64, len(col))
		for i, z := range col {
			re[i], im[i] = real(z), imag(z)
		}
		if err = out[j].re.Fit(xs, re); err != nil {
			return nil, fmt.Errorf("column %d (real): %w", j, err)
		}
		if err = out[j].im.Fit(xs, im); err != nil {
			return nil, fmt.Errorf("column %d (imag): %w", j, err)
		}
	}

	return out, nil
}

// Resample returns the len(times)×k operator whose rows are the columns of B
// spline-interpolated at times (real and imaginary parts separately).
// Times must be strictly increasing and lie inside [Grid.Start, Grid.End()].
// Complexity: O(k·L) to fit (once per interpolant), O(k·len(times)·log L) to evaluate.
func (in *Interpolant) Resample(times []float64) (*matrix.CDense, error) {
	const tag = "Resample"
	if len(times) == 0 {
		return nil, eimErrorf(tag, fmt.Errorf("no times: %w", ErrLengthMismatch))
	}
	lo, hi := in.Grid.Start, in.Grid.End()
	slack := in.Grid.Step * 1e-9
	for i, t := range times {
		if !(t >= lo-slack && t <= hi+slack) {
			return nil, eimErrorf(tag, fmt.Errorf("times[%d]=%g not in [%g, %g]: %w", i, t, lo, hi, ErrOutsideGrid))
		}
		if i > 0 && !(t > times[i-1]) {
			return nil, eimErrorf(tag, fmt.Errorf("times[%d]=%g after %g, not strictly increasing: %w", i, t, times[i-1], ErrOutsideGrid))
		}
	}

	in.once.Do(func() { in.splines, in.splineErr = in.fitSplines() })
	if in.splineErr != nil {
		return nil, eimErrorf(tag, in.splineErr)
	}

	out, err := matrix.NewCDense(len(times), len(in.splines))
	if err != nil {
		return nil, eimErrorf(tag, err)
	}
	for i, t := range times {
		row := out.RawRowView(i)
		for j := range in.splines {
			row[j] = complex(in.splines[j].re.Predict(t), in.splines[j].im.Predict(t))
		}
	}

	return out, nil
}
