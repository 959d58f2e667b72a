// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"math"
	"math/cmplx"
)

// TrainingSet is an ordered collection of waveforms sharing one grid and one
// alignment convention (peaks at t = 0, identical truncation). Alignment
// produces it; the builder stages consume it read-only.
type TrainingSet struct {
	grid    Grid
	members []*Waveform
}

// NewTrainingSet validates that every member shares the first member's grid.
// The member slice is copied; waveforms themselves are immutable.
// Errors: ErrEmpty, ErrGridMismatch.
func NewTrainingSet(ws []*Waveform) (*TrainingSet, error) {
	const tag = "NewTrainingSet"
	if len(ws) == 0 {
		return nil, waveformErrorf(tag, ErrEmpty)
	}
	for i, w := range ws {
		if w == nil {
			return nil, waveformErrorf(tag, fmt.Errorf("member %d is nil: %w", i, ErrEmpty))
		}
		if !w.grid.Equal(ws[0].grid) {
			return nil, waveformErrorf(tag, fmt.Errorf("member %d: %w", i, ErrGridMismatch))
		}
	}

	return &TrainingSet{grid: ws[0].grid, members: append([]*Waveform(nil), ws...)}, nil
}

// Len returns the number of members.
func (ts *TrainingSet) Len() int { return len(ts.members) }

// Grid returns the shared grid.
func (ts *TrainingSet) Grid() Grid { return ts.grid }

// At returns member i.
func (ts *TrainingSet) At(i int) (*Waveform, error) {
	if i < 0 || i >= len(ts.members) {
		return nil, waveformErrorf("TrainingSet.At", fmt.Errorf("%d: %w", i, ErrIndex))
	}

	return ts.members[i], nil
}

// Members returns a copy of the member slice.
func (ts *TrainingSet) Members() []*Waveform {
	return append([]*Waveform(nil), ts.members...)
}

// Params returns the parameter of each member, in member order.
func (ts *TrainingSet) Params() []float64 {
	out := make([]float64, len(ts.members))
	for i, w := range ts.members {
		out[i] = w.param
	}

	return out
}

// ParamRange returns the smallest and largest member parameter.
func (ts *TrainingSet) ParamRange() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, w := range ts.members {
		lo = math.Min(lo, w.param)
		hi = math.Max(hi, w.param)
	}

	return lo, hi
}

// Validate checks the alignment invariant: every member peaks at t = 0
// (within half a sample).
func (ts *TrainingSet) Validate() error {
	for i, w := range ts.members {
		if math.Abs(w.PeakTime()) > ts.grid.Step/2 {
			return waveformErrorf("TrainingSet.Validate",
				fmt.Errorf("member %d peaks at t=%g: %w", i, w.PeakTime(), ErrNotAligned))
		}
	}

	return nil
}

// AmpPhaseSets splits every member into its amplitude and its unwrapped
// phase, each stored as a real-valued waveform on the shared grid. Each phase
// series is shifted by a multiple of 2π so that its value at the peak is
// arg h(peak), keeping the phases of neighbouring members close.
func (ts *TrainingSet) AmpPhaseSets() (amp, phase *TrainingSet, err error) {
	const tag = "TrainingSet.AmpPhaseSets"
	as := make([]*Waveform, len(ts.members))
	ps := make([]*Waveform, len(ts.members))
	for i, w := range ts.members {
		a, phi := AmpPhase(w.data)
		p := w.PeakIndex()
		shift := 2 * math.Pi * math.Round((phi[p]-cmplx.Phase(w.data[p]))/(2*math.Pi))

		ra, rp := make([]complex128, len(a)), make([]complex128, len(phi))
		for j := range a {
			ra[j] = complex(a[j], 0)
			rp[j] = complex(phi[j]-shift, 0)
		}
		if as[i], err = New(w.param, ts.grid, ra, WithTotalMass(w.totalMass)); err != nil {
			return nil, nil, waveformErrorf(tag, fmt.Errorf("member %d amplitude: %w", i, err))
		}
		if ps[i], err = New(w.param, ts.grid, rp, WithTotalMass(w.totalMass)); err != nil {
			return nil, nil, waveformErrorf(tag, fmt.Errorf("member %d phase: %w", i, err))
		}
	}

	return &TrainingSet{grid: ts.grid, members: as}, &TrainingSet{grid: ts.grid, members: ps}, nil
}
