// SPDX-License-Identifier: MIT

package align

import (
	"errors"
	"fmt"
)

var (
	// ErrAlignment is the sentinel every *AlignmentError unwraps to.
	ErrAlignment = errors.New("align: alignment failed")

	// ErrBadOptions indicates an unknown mode or a meaningless trim parameter.
	ErrBadOptions = errors.New("align: invalid options")
)

// AlignmentError reports bad input geometry for one waveform (Index = -1 when
// the failure concerns the whole input).
type AlignmentError struct {
	Index  int     // offending waveform, or -1
	Param  float64 // its parameter (0 when Index = -1)
	Reason string  // human readable cause
}

// Error implements error.
func (e *AlignmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("align: %s", e.Reason)
	}

	return fmt.Sprintf("align: waveform %d (q=%g): %s", e.Index, e.Param, e.Reason)
}

// Unwrap exposes ErrAlignment to errors.Is.
func (e *AlignmentError) Unwrap() error { return ErrAlignment }
