// SPDX-License-Identifier: MIT

package align

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/gwsur/waveform"
)

// extent is the geometry of one raw waveform relative to its peak.
type extent struct {
	peak int // index of max |h|
	pre  int // samples before the peak
	post int // samples after the peak
}

// Align places every peak at t = 0, cuts all members to one common window,
// applies the phase convention and the trim policy, and returns the result as
// a training set in input order.
//
// Preconditions: all inputs share one sample spacing; each has a non-zero
// peak that is not on its first sample.
//
// Errors: ErrBadOptions for invalid opts; *AlignmentError (unwrapping to
// ErrAlignment) when the input geometry cannot be reconciled.
//
// Complexity: O(Σ len_i).
func Align(raw []*waveform.Waveform, opts Options) (*waveform.TrainingSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("Align: %w", err)
	}
	if len(raw) == 0 {
		return nil, &AlignmentError{Index: -1, Reason: "no waveforms"}
	}

	ext, err := measure(raw)
	if err != nil {
		return nil, err
	}

	pre, post, err := window(raw, ext, opts.Time)
	if err != nil {
		return nil, err
	}

	post, err = trim(raw, ext, pre, post, opts)
	if err != nil {
		return nil, err
	}

	step := raw[0].Grid().Step
	out := make([]*waveform.Waveform, len(raw))
	for i, w := range raw {
		cut, werr := w.Window(ext[i].peak-pre, ext[i].peak+post+1)
		if werr != nil {
			return nil, &AlignmentError{Index: i, Param: w.Param(), Reason: werr.Error()}
		}
		cut = cut.Retimed(-float64(pre) * step)
		if opts.Phase == PhaseAtPeak {
			z, _ := cut.At(pre)
			cut = cut.Rotated(opts.PhaseRef - cmplx.Phase(z))
		}
		out[i] = cut
	}

	return waveform.NewTrainingSet(out)
}

// measure checks spacing and peak sanity and records each member's extent.
func measure(raw []*waveform.Waveform) ([]extent, error) {
	ext := make([]extent, len(raw))
	var step float64
	for i, w := range raw {
		if w == nil {
			return nil, &AlignmentError{Index: i, Reason: "nil waveform"}
		}
		if i == 0 {
			step = w.Grid().Step
		} else if !waveform.SameStep(step, w.Grid().Step) {
			return nil, &AlignmentError{Index: i, Param: w.Param(),
				Reason: fmt.Sprintf("sample spacing %g differs from %g", w.Grid().Step, step)}
		}

		p := w.PeakIndex()
		if w.PeakAmplitude() == 0 {
			return nil, &AlignmentError{Index: i, Param: w.Param(), Reason: "no coherent peak (identically zero)"}
		}
		if p == 0 {
			return nil, &AlignmentError{Index: i, Param: w.Param(), Reason: "peak on first sample, no inspiral"}
		}
		ext[i] = extent{peak: p, pre: p, post: w.Len() - 1 - p}
	}

	return ext, nil
}

// window picks the common pre-/post-peak extent.
func window(raw []*waveform.Waveform, ext []extent, mode TimeMode) (pre, post int, err error) {
	switch mode {
	case CommonOverlap:
		pre, post = ext[0].pre, ext[0].post
		for _, e := range ext[1:] {
			pre = min(pre, e.pre)
			post = min(post, e.post)
		}

		return pre, post, nil

	default: // PeakOfShortest
		s := 0
		for i := range raw {
			if raw[i].Len() < raw[s].Len() {
				s = i
			}
		}
		pre, post = ext[s].pre, ext[s].post
		for i, e := range ext {
			if e.pre < pre || e.post < post {
				return 0, 0, &AlignmentError{Index: i, Param: raw[i].Param(),
					Reason: fmt.Sprintf("does not cover window of shortest waveform %d (%d before / %d after peak)", s, pre, post)}
			}
		}

		return pre, post, nil
	}
}

// trim returns the post-peak extent after the trim policy.
func trim(raw []*waveform.Waveform, ext []extent, pre, post int, opts Options) (int, error) {
	switch opts.Trim {
	case TrimTrailing:
		if opts.TrimCount >= pre+post+1 {
			return 0, &AlignmentError{Index: -1,
				Reason: fmt.Sprintf("aligned length %d is shorter than trim count %d", pre+post+1, opts.TrimCount)}
		}
		if opts.TrimCount > post {
			return 0, &AlignmentError{Index: -1,
				Reason: fmt.Sprintf("trim count %d removes the peak (%d post-peak samples)", opts.TrimCount, post)}
		}

		return post - opts.TrimCount, nil

	case TrimBelowPeakFraction:
		for i, w := range raw {
			floor := opts.TrimFraction * w.PeakAmplitude()
			for j := ext[i].peak + 1; j <= ext[i].peak+post; j++ {
				z, _ := w.At(j)
				if cmplx.Abs(z) < floor {
					post = j - 1 - ext[i].peak
					break
				}
			}
		}

		return post, nil

	default:
		return post, nil
	}
}
