// SPDX-License-Identifier: MIT

package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DegreeSelector chooses the polynomial degree for one series (x sorted
// ascending, already affine-mapped).
type DegreeSelector interface {
	Select(x, y []float64) (int, error)
	Name() string
}

// Fixed always selects Degree (clamped to len(x)-1).
type Fixed struct {
	Degree int
}

// Select implements DegreeSelector.
func (f Fixed) Select(x, _ []float64) (int, error) {
	if f.Degree < 0 {
		return 0, fitErrorf("Fixed", fmt.Errorf("degree %d: %w", f.Degree, ErrBadDegree))
	}
	if len(x) == 0 {
		return 0, fitErrorf("Fixed", ErrTooFewPoints)
	}

	return min(f.Degree, len(x)-1), nil
}

// Name implements DegreeSelector.
func (f Fixed) Name() string { return fmt.Sprintf("fixed(%d)", f.Degree) }

// HoldOut selects the degree in [0, MaxDegree] with the smallest held-out RMS
// over Folds interleaved folds (point i is held out in fold i mod Folds).
// With fewer points than Folds it falls back to leave-one-out; a single
// point always selects degree 0.
// A higher degree must beat the best so far by more than a relative 1e-9
// (plus an absolute floor of 1e-12·max|y|), so the lowest degree wins ties.
type HoldOut struct {
	Folds     int
	MaxDegree int
}

// DefaultHoldOut is the selector used when none is configured.
var DefaultHoldOut = HoldOut{Folds: 5, MaxDegree: 12}

const (
	holdOutRelTie = 1e-9
	holdOutAbsTie = 1e-12
)

// Select implements DegreeSelector.
func (h HoldOut) Select(x, y []float64) (int, error) {
	const tag = "HoldOut"
	switch {
	case h.Folds < 2 || h.MaxDegree < 0:
		return 0, fitErrorf(tag, fmt.Errorf("folds=%d max degree=%d: %w", h.Folds, h.MaxDegree, ErrBadDegree))
	case len(x) != len(y):
		return 0, fitErrorf(tag, ErrLengthMismatch)
	case len(x) == 0:
		return 0, fitErrorf(tag, ErrTooFewPoints)
	case len(x) == 1:
		return 0, nil
	}

	folds := min(h.Folds, len(x))
	// The smallest training fold has len(x) - ceil(len(x)/folds) points.
	train := len(x) - (len(x)+folds-1)/folds
	maxDeg := min(h.MaxDegree, train-1)
	if maxDeg < 0 {
		return 0, fitErrorf(tag, fmt.Errorf("%d points: %w", len(x), ErrTooFewPoints))
	}

	floor := holdOutAbsTie * math.Max(floats.Max(y), -floats.Min(y))
	best, bestRMS := 0, math.Inf(1)
	for d := 0; d <= maxDeg; d++ {
		rms, err := heldOutRMS(x, y, d, folds)
		if errors.Is(err, ErrIllConditioned) && d > 0 {
			break
		}
		if err != nil {
			return 0, fitErrorf(tag, err)
		}
		if rms < bestRMS-holdOutRelTie*bestRMS-floor || math.IsInf(bestRMS, 1) {
			best, bestRMS = d, rms
		}
	}

	return best, nil
}

// Name implements DegreeSelector.
func (h HoldOut) Name() string { return fmt.Sprintf("holdout(%d,%d)", h.Folds, h.MaxDegree) }

func heldOutRMS(x, y []float64, degree, folds int) (float64, error) {
	var (
		sq    float64
		count int
		tx    = make([]float64, 0, len(x))
		ty    = make([]float64, 0, len(y))
	)
	for f := 0; f < folds; f++ {
		tx, ty = tx[:0], ty[:0]
		for i := range x {
			if i%folds != f {
				tx = append(tx, x[i])
				ty = append(ty, y[i])
			}
		}
		p, err := Polyfit(tx, ty, degree)
		if err != nil {
			return 0, err
		}
		for i := f; i < len(x); i += folds {
			r := p.Eval(x[i]) - y[i]
			sq += r * r
			count++
		}
	}

	return math.Sqrt(sq / float64(count)), nil
}
