// SPDX-License-Identifier: MIT

package surrogate

import "fmt"

// RangePolicy decides what Evaluate does with a parameter outside the
// training interval.
type RangePolicy int

const (
	// Reject returns *OutOfRangeError.
	Reject RangePolicy = iota

	// Extrapolate logs a warning and evaluates the fits anyway.
	Extrapolate
)

// String implements fmt.Stringer.
func (p RangePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Extrapolate:
		return "extrapolate"
	default:
		return fmt.Sprintf("RangePolicy(%d)", int(p))
	}
}

// ParseRangePolicy is the inverse of String.
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch s {
	case "reject", "":
		return Reject, nil
	case "extrapolate":
		return Extrapolate, nil
	default:
		return Reject, fmt.Errorf("surrogate: unknown range policy %q", s)
	}
}

func (p RangePolicy) valid() bool { return p == Reject || p == Extrapolate }

// Flavor selects which representation BasisVector returns.
type Flavor int

const (
	// Cardinal is column i of the interpolation operator B.
	Cardinal Flavor = iota

	// Orthogonal is the i-th orthonormal reduced-basis element.
	Orthogonal

	// Greedy is the i-th selected training waveform, rebuilt from R.
	Greedy
)

// Kind selects how a surrogate represents h.
type Kind int

const (
	// WaveformBasis interpolates the complex waveform with one basis.
	WaveformBasis Kind = iota

	// AmpPhaseBasis interpolates the amplitude and the unwrapped phase with
	// two real bases and recombines them as A·e^{iφ}.
	AmpPhaseBasis
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case WaveformBasis:
		return "waveform_basis"
	case AmpPhaseBasis:
		return "amp_phase_basis"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of String; "" selects WaveformBasis.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "waveform_basis", "":
		return WaveformBasis, nil
	case "amp_phase_basis":
		return AmpPhaseBasis, nil
	default:
		return WaveformBasis, fmt.Errorf("surrogate: unknown kind %q", s)
	}
}

// partName names part i of a surrogate of kind k.
func (k Kind) partName(i int) string {
	if k == AmpPhaseBasis {
		if i == 0 {
			return "amplitude"
		}
		return "phase"
	}
	return "waveform"
}

// PartNames lists the part names of kind k, in Parts order.
func (k Kind) PartNames() []string {
	if k == AmpPhaseBasis {
		return []string{k.partName(0), k.partName(1)}
	}
	return []string{k.partName(0)}
}
