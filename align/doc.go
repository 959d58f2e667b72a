// Package align turns raw waveforms of unequal length into a training set
// on one shared grid.
//
// Every waveform is shifted so that its amplitude peak sits at t = 0, cut to a
// common window chosen by TimeMode, optionally rotated so that its phase at
// the peak equals a reference (PhaseMode) and trimmed at the end (TrimMode).
//
//	opts := align.DefaultOptions()
//	opts.Trim = align.TrimBelowPeakFraction
//	opts.TrimFraction = 1e-3
//	ts, err := align.Align(raw, opts)
//	var ae *align.AlignmentError
//	if errors.As(err, &ae) {
//		log.Printf("waveform %d rejected: %s", ae.Index, ae.Reason)
//	}
package align
