// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DefaultTotalMass is the total mass attached to waveforms expressed in
// geometric units (t/M, rh/M).
const DefaultTotalMass = 1.0

// Waveform is an immutable complex time series h = hp + i·hc on a uniform
// grid, labelled by its parameter (mass ratio) and total mass.
// Constructors copy their input and accessors return copies, so a Waveform
// can be shared freely between goroutines.
type Waveform struct {
	param     float64      // mass ratio q
	totalMass float64      // total mass (solar masses, or 1 in geometric units)
	grid      Grid         // sample times
	data      []complex128 // samples, len == grid.Len
}

// Option customises Waveform construction.
type Option func(*Waveform)

// WithTotalMass sets the total mass attribute. Panics on non-positive or
// non-finite values (programmer error).
func WithTotalMass(m float64) Option {
	if !(m > 0) || math.IsInf(m, 0) {
		panic("waveform: WithTotalMass: mass must be finite and > 0")
	}
	return func(w *Waveform) { w.totalMass = m }
}

// New validates and ingests a waveform. samples is copied.
// Errors: ErrBadGrid, ErrLengthMismatch, ErrNonFinite.
// Complexity: O(n).
func New(param float64, grid Grid, samples []complex128, opts ...Option) (*Waveform, error) {
	const tag = "New"
	if err := grid.Validate(); err != nil {
		return nil, waveformErrorf(tag, err)
	}
	if len(samples) != grid.Len {
		return nil, waveformErrorf(tag, fmt.Errorf("%d samples on a %d-point grid: %w", len(samples), grid.Len, ErrLengthMismatch))
	}
	if math.IsNaN(param) || math.IsInf(param, 0) {
		return nil, waveformErrorf(tag, fmt.Errorf("param: %w", ErrNonFinite))
	}
	for i, z := range samples {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return nil, waveformErrorf(tag, fmt.Errorf("sample %d: %w", i, ErrNonFinite))
		}
	}
	w := &Waveform{
		param:     param,
		totalMass: DefaultTotalMass,
		grid:      grid,
		data:      append([]complex128(nil), samples...),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// FromPolarizations builds a waveform from separate plus/cross polarisations.
func FromPolarizations(param float64, grid Grid, hp, hc []float64, opts ...Option) (*Waveform, error) {
	if len(hp) != len(hc) {
		return nil, waveformErrorf("FromPolarizations", ErrLengthMismatch)
	}
	h := make([]complex128, len(hp))
	for i := range hp {
		h[i] = complex(hp[i], hc[i])
	}

	return New(param, grid, h, opts...)
}

// Param returns the waveform's parameter (mass ratio).
func (w *Waveform) Param() float64 { return w.param }

// TotalMass returns the total mass attribute.
func (w *Waveform) TotalMass() float64 { return w.totalMass }

// Grid returns the sample grid.
func (w *Waveform) Grid() Grid { return w.grid }

// Len returns the number of samples.
func (w *Waveform) Len() int { return len(w.data) }

// At returns sample i.
func (w *Waveform) At(i int) (complex128, error) {
	if i < 0 || i >= len(w.data) {
		return 0, waveformErrorf("At", fmt.Errorf("%d: %w", i, ErrIndex))
	}

	return w.data[i], nil
}

// Samples returns a copy of the complex samples.
func (w *Waveform) Samples() []complex128 {
	return append([]complex128(nil), w.data...)
}

// Polarizations returns copies of hp = Re h and hc = Im h.
func (w *Waveform) Polarizations() (hp, hc []float64) {
	hp = make([]float64, len(w.data))
	hc = make([]float64, len(w.data))
	for i, z := range w.data {
		hp[i], hc[i] = real(z), imag(z)
	}

	return hp, hc
}

// PeakIndex returns the first index of maximal |h|.
func (w *Waveform) PeakIndex() int {
	idx, best := 0, -1.0
	var a float64
	for i, z := range w.data {
		if a = cmplx.Abs(z); a > best {
			idx, best = i, a
		}
	}

	return idx
}

// PeakTime returns the time of maximal |h|.
func (w *Waveform) PeakTime() float64 { return w.grid.At(w.PeakIndex()) }

// PeakAmplitude returns max |h|.
func (w *Waveform) PeakAmplitude() float64 { return cmplx.Abs(w.data[w.PeakIndex()]) }

// Amplitude returns |h| per sample.
func (w *Waveform) Amplitude() []float64 { return Amplitude(w.data) }

// Phase returns the unwrapped phase arg h per sample.
func (w *Waveform) Phase() []float64 { return Phase(w.data) }

// Cycles returns the number of wave cycles: |φ_end − φ_start| / 2π.
func (w *Waveform) Cycles() float64 {
	phi := w.Phase()

	return math.Abs(phi[len(phi)-1]-phi[0]) / (2 * math.Pi)
}

// Norm returns sqrt(Σ|h_i|²) (Euclidean, no quadrature weight).
func (w *Waveform) Norm() float64 {
	var s float64
	for _, z := range w.data {
		s += real(z)*real(z) + imag(z)*imag(z)
	}

	return math.Sqrt(s)
}

// Window returns the samples [from, to) as a new waveform on the matching sub-grid.
func (w *Waveform) Window(from, to int) (*Waveform, error) {
	if from < 0 || to > len(w.data) || from >= to {
		return nil, waveformErrorf("Window", fmt.Errorf("[%d,%d) of %d: %w", from, to, len(w.data), ErrIndex))
	}

	return &Waveform{
		param:     w.param,
		totalMass: w.totalMass,
		grid:      w.grid.Slice(from, to),
		data:      append([]complex128(nil), w.data[from:to]...),
	}, nil
}

// Retimed returns the same samples on a grid starting at start.
func (w *Waveform) Retimed(start float64) *Waveform {
	g := w.grid
	g.Start = start

	return &Waveform{param: w.param, totalMass: w.totalMass, grid: g, data: append([]complex128(nil), w.data...)}
}

// Rotated returns h·e^{iφ}.
func (w *Waveform) Rotated(phi float64) *Waveform {
	out := &Waveform{param: w.param, totalMass: w.totalMass, grid: w.grid, data: append([]complex128(nil), w.data...)}
	RotateInPlace(out.data, phi)

	return out
}
