// SPDX-License-Identifier: MIT

package fit

import "fmt"

// AffineMap selects the transform of the parameter interval [lo, hi] into the
// polynomial variable.
type AffineMap int

const (
	// MapMinus1To1 maps [lo, hi] onto [-1, 1].
	MapMinus1To1 AffineMap = iota

	// MapZeroTo1 maps [lo, hi] onto [0, 1].
	MapZeroTo1

	// MapNone uses the parameter as is.
	MapNone
)

// String implements fmt.Stringer.
func (m AffineMap) String() string {
	switch m {
	case MapMinus1To1:
		return "minus1to1"
	case MapZeroTo1:
		return "zeroto1"
	case MapNone:
		return "none"
	default:
		return fmt.Sprintf("AffineMap(%d)", int(m))
	}
}

// ParseAffineMap is the inverse of String.
func ParseAffineMap(s string) (AffineMap, error) {
	for _, m := range []AffineMap{MapMinus1To1, MapZeroTo1, MapNone} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("fit: unknown affine map %q", s)
}

// Apply maps x from [lo, hi]. A degenerate interval (lo == hi) maps to 0.
func (m AffineMap) Apply(x, lo, hi float64) float64 {
	if m == MapNone {
		return x
	}
	if hi == lo {
		return 0
	}
	u := (x - lo) / (hi - lo)
	if m == MapZeroTo1 {
		return u
	}

	return 2*u - 1
}

func (m AffineMap) valid() bool { return m >= MapMinus1To1 && m <= MapNone }
