// SPDX-License-Identifier: MIT
// Package waveform: amplitude/phase decomposition h = A·e^{iφ}.

package waveform

import (
	"math"
	"math/cmplx"
)

// Amplitude returns |h_i|.
func Amplitude(h []complex128) []float64 {
	out := make([]float64, len(h))
	for i, z := range h {
		out[i] = cmplx.Abs(z)
	}

	return out
}

// Phase returns arg h_i, unwrapped so consecutive values never jump by more than π.
func Phase(h []complex128) []float64 {
	out := make([]float64, len(h))
	for i, z := range h {
		out[i] = cmplx.Phase(z)
	}

	return Unwrap(out)
}

// AmpPhase splits h into amplitude and unwrapped phase.
func AmpPhase(h []complex128) (amp, phase []float64) {
	return Amplitude(h), Phase(h)
}

// FromAmpPhase rebuilds A·e^{iφ}. Slices must be parallel.
func FromAmpPhase(amp, phase []float64) ([]complex128, error) {
	if len(amp) != len(phase) {
		return nil, waveformErrorf("FromAmpPhase", ErrLengthMismatch)
	}
	out := make([]complex128, len(amp))
	for i := range amp {
		out[i] = complex(amp[i], 0) * cmplx.Exp(complex(0, phase[i]))
	}

	return out, nil
}

// Unwrap removes 2π discontinuities: each successive difference is mapped into
// [−π, π) and accumulated. The first value is kept as is. Returns a new slice.
// Complexity: O(n).
func Unwrap(phi []float64) []float64 {
	out := make([]float64, len(phi))
	if len(phi) == 0 {
		return out
	}
	out[0] = phi[0]
	var d float64
	for i := 1; i < len(phi); i++ {
		d = phi[i] - phi[i-1]
		d = d - 2*math.Pi*math.Floor((d+math.Pi)/(2*math.Pi))
		out[i] = out[i-1] + d
	}

	return out
}

// ShiftNonNegative shifts an unwrapped phase series by a multiple of 2π so
// that its first value lies in [0, 2π). Modifies phi in place and returns it.
func ShiftNonNegative(phi []float64) []float64 {
	if len(phi) == 0 {
		return phi
	}
	k := math.Floor(phi[0] / (2 * math.Pi))
	if k == 0 {
		return phi
	}
	shift := 2 * math.Pi * k
	for i := range phi {
		phi[i] -= shift
	}

	return phi
}

// RotateInPlace multiplies every sample by e^{iφ}.
func RotateInPlace(h []complex128, phi float64) {
	rot := cmplx.Exp(complex(0, phi))
	for i := range h {
		h[i] *= rot
	}
}

// InstantFrequency returns the instantaneous frequency |dφ/dt|/2π at the first
// sample, from a first difference of the unwrapped phase. Returns 0 when fewer
// than two samples are given.
func InstantFrequency(h []complex128, step float64) float64 {
	if len(h) < 2 || !(step > 0) {
		return 0
	}
	d := cmplx.Phase(h[1]) - cmplx.Phase(h[0])
	d = d - 2*math.Pi*math.Floor((d+math.Pi)/(2*math.Pi))

	return math.Abs(d) / (2 * math.Pi * step)
}
