// Package waveform holds the data model shared by the surrogate builder:
// uniform time grids, immutable complex waveforms h = hp + i·hc labelled by
// mass ratio, and aligned training sets.
//
// It also carries the small signal utilities every stage needs: amplitude and
// unwrapped phase (h = A·e^{iφ}), phase rotation, peak location, cycle count
// and instantaneous frequency.
//
//	w, _ := waveform.New(1.5, grid, samples)
//	amp, phase := waveform.AmpPhase(w.Samples())
package waveform
