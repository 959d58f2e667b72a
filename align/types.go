// SPDX-License-Identifier: MIT

package align

import "fmt"

// TimeMode selects the common window every waveform is cut to.
//
//   - PeakOfShortest: the pre-/post-peak extent of the shortest waveform;
//     every other waveform must cover it.
//   - CommonOverlap: the largest window around the peak every waveform covers.
type TimeMode int

const (
	// PeakOfShortest aligns at the peak and cuts to the shortest waveform's extent.
	PeakOfShortest TimeMode = iota

	// CommonOverlap aligns at the peak and keeps the overlap of all waveforms.
	CommonOverlap
)

// PhaseMode selects the phase convention applied after time alignment.
type PhaseMode int

const (
	// PhaseNone keeps the phase as delivered.
	PhaseNone PhaseMode = iota

	// PhaseAtPeak rotates each waveform so that arg h(t_peak) = PhaseRef.
	PhaseAtPeak
)

// TrimMode selects how unreliable trailing samples are dropped.
type TrimMode int

const (
	// TrimNone keeps the aligned window untouched.
	TrimNone TrimMode = iota

	// TrimTrailing cuts Count samples from the end of the aligned window.
	TrimTrailing

	// TrimBelowPeakFraction cuts every post-peak sample from the first point
	// where |h| < Fraction·peak in any member (terminal instability).
	TrimBelowPeakFraction
)

// Options configures Align.
//
// Fields:
//   - Time: window policy (PeakOfShortest by default).
//   - Phase: phase policy (PhaseAtPeak by default).
//   - PhaseRef: target phase at the peak for PhaseAtPeak.
//   - Trim: trim policy (TrimNone by default).
//   - TrimCount: samples cut by TrimTrailing (>= 0).
//   - TrimFraction: amplitude fraction for TrimBelowPeakFraction, in (0, 1).
//
// Example:
//
//	opts := align.DefaultOptions()
//	opts.Trim = align.TrimTrailing
//	opts.TrimCount = 20
//	ts, err := align.Align(raw, opts)
type Options struct {
	Time         TimeMode
	Phase        PhaseMode
	PhaseRef     float64
	Trim         TrimMode
	TrimCount    int
	TrimFraction float64
}

// DefaultOptions returns the peak-of-shortest, zero-phase-at-peak, no-trim policy.
func DefaultOptions() Options {
	return Options{
		Time:  PeakOfShortest,
		Phase: PhaseAtPeak,
		Trim:  TrimNone,
	}
}

// Validate rejects unknown modes and meaningless trim parameters.
func (o Options) Validate() error {
	switch {
	case o.Time != PeakOfShortest && o.Time != CommonOverlap:
		return fmt.Errorf("time mode %d: %w", o.Time, ErrBadOptions)
	case o.Phase != PhaseNone && o.Phase != PhaseAtPeak:
		return fmt.Errorf("phase mode %d: %w", o.Phase, ErrBadOptions)
	case o.Trim < TrimNone || o.Trim > TrimBelowPeakFraction:
		return fmt.Errorf("trim mode %d: %w", o.Trim, ErrBadOptions)
	case o.Trim == TrimTrailing && o.TrimCount < 0:
		return fmt.Errorf("trim count %d: %w", o.TrimCount, ErrBadOptions)
	case o.Trim == TrimBelowPeakFraction && !(o.TrimFraction > 0 && o.TrimFraction < 1):
		return fmt.Errorf("trim fraction %g: %w", o.TrimFraction, ErrBadOptions)
	}

	return nil
}
