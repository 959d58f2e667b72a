// SPDX-License-Identifier: MIT

package surrogate

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/gwsur/eim"
	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/waveform"
)

// Metadata describes how a surrogate was built.
type Metadata struct {
	Name          string
	Tolerance     float64
	TrainingCount int
	Created       time.Time
}

// Part is one reduced-order component: a basis, its empirical interpolant and
// the node fits in the training parameter.
type Part struct {
	Basis  *greedy.Basis
	Interp *eim.Interpolant
	Model  *fit.Model
}

// validate checks that the three stages describe the same grid and nodes.
func (p Part) validate(grid waveform.Grid) error {
	switch {
	case p.Basis == nil || p.Interp == nil || p.Model == nil:
		return fmt.Errorf("nil component: %w", ErrIncompatible)
	case !p.Basis.Grid.Equal(grid) || !p.Interp.Grid.Equal(grid):
		return fmt.Errorf("basis grid %+v, interpolant grid %+v: %w", p.Basis.Grid, p.Interp.Grid, ErrIncompatible)
	case p.Basis.Size() != p.Interp.Size() || p.Interp.Size() != p.Model.Size():
		return fmt.Errorf("basis %d, nodes %d, fits %d: %w", p.Basis.Size(), p.Interp.Size(), p.Model.Size(), ErrIncompatible)
	}

	return p.Model.Validate()
}

// Surrogate evaluates h(t; q) for any q in the training interval from one
// or two reduced-order parts. A WaveformBasis surrogate interpolates h with a
// single complex basis; an AmpPhaseBasis surrogate interpolates |h| and the
// unwrapped phase with separate real bases. It is read-only after
// construction and safe for concurrent Evaluate calls.
type Surrogate struct {
	kind          Kind
	grid          waveform.Grid
	parts         []Part
	policy        RangePolicy
	trainingError float64
	meta          Metadata
	logger        *slog.Logger
}

// Option customizes New.
type Option func(*Surrogate)

// WithRangePolicy sets the default out-of-range behaviour (Reject).
// Panics on an unknown policy.
func WithRangePolicy(p RangePolicy) Option {
	if !p.valid() {
		panic(fmt.Sprintf("surrogate: WithRangePolicy(%d)", int(p)))
	}
	return func(s *Surrogate) {
		s.policy = p
	}
}

// WithLogger sets the logger used for extrapolation and low-frequency
// warnings (slog.Default() otherwise). Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("surrogate: WithLogger(nil)")
	}
	return func(s *Surrogate) {
		s.logger = l
	}
}

// WithMetadata attaches build metadata.
func WithMetadata(m Metadata) Option {
	return func(s *Surrogate) {
		s.meta = m
	}
}

// New bundles the three stages of a complex waveform basis into a
// WaveformBasis surrogate.
// Errors: ErrIncompatible when the pieces disagree on grid or node count.
func New(b *greedy.Basis, in *eim.Interpolant, m *fit.Model, opts ...Option) (*Surrogate, error) {
	const tag = "New"
	if in == nil {
		return nil, surrogateErrorf(tag, fmt.Errorf("nil interpolant: %w", ErrIncompatible))
	}

	return assemble(tag, WaveformBasis, in.Grid, []Part{{Basis: b, Interp: in, Model: m}}, opts)
}

// NewAmpPhase bundles an amplitude part and a phase part, both built on real
// series over the same grid and parameter interval, into an AmpPhaseBasis
// surrogate: h = (B_amp·a(q))·e^{i·B_phase·φ(q)}.
// Errors: ErrIncompatible.
func NewAmpPhase(amp, phase Part, opts ...Option) (*Surrogate, error) {
	const tag = "NewAmpPhase"
	if amp.Interp == nil {
		return nil, surrogateErrorf(tag, fmt.Errorf("nil amplitude interpolant: %w", ErrIncompatible))
	}
	if amp.Model != nil && phase.Model != nil && (amp.Model.Lo != phase.Model.Lo || amp.Model.Hi != phase.Model.Hi) {
		return nil, surrogateErrorf(tag, fmt.Errorf("amplitude interval [%g, %g], phase interval [%g, %g]: %w",
			amp.Model.Lo, amp.Model.Hi, phase.Model.Lo, phase.Model.Hi, ErrIncompatible))
	}

	return assemble(tag, AmpPhaseBasis, amp.Interp.Grid, []Part{amp, phase}, opts)
}

func assemble(tag string, kind Kind, grid waveform.Grid, parts []Part, opts []Option) (*Surrogate, error) {
	for i, p := range parts {
		if err := p.validate(grid); err != nil {
			return nil, surrogateErrorf(tag, fmt.Errorf("%s part: %w", kind.partName(i), err))
		}
		if p.Model.Real != (kind == AmpPhaseBasis) {
			return nil, surrogateErrorf(tag, fmt.Errorf("%s part: real fits %t in a %s surrogate: %w",
				kind.partName(i), p.Model.Real, kind, ErrIncompatible))
		}
	}

	s := &Surrogate{
		kind:   kind,
		grid:   grid,
		parts:  parts,
		policy: Reject,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// WithTrainingError returns a copy of s carrying the training error bound
// (max relative L2 error over the training set).
func (s *Surrogate) WithTrainingError(bound float64) *Surrogate {
	c := *s
	c.trainingError = bound

	return &c
}

// Kind reports how the surrogate represents the waveform.
func (s *Surrogate) Kind() Kind { return s.kind }

// Grid returns the native time grid (units of M, peak at t = 0).
func (s *Surrogate) Grid() waveform.Grid { return s.grid }

// Range returns the training interval [lo, hi].
func (s *Surrogate) Range() (lo, hi float64) { return s.parts[0].Model.Lo, s.parts[0].Model.Hi }

// InRange reports whether q lies in the closed training interval.
func (s *Surrogate) InRange(q float64) bool {
	lo, hi := s.Range()
	return !math.IsNaN(q) && q >= lo && q <= hi
}

// Size returns the number of basis elements (= interpolation nodes) summed
// over every part.
func (s *Surrogate) Size() int {
	n := 0
	for _, p := range s.parts {
		n += p.Interp.Size()
	}
	return n
}

// Policy returns the default range policy.
func (s *Surrogate) Policy() RangePolicy { return s.policy }

// TrainingError returns the training error bound recorded at build time
// (0 when unknown).
func (s *Surrogate) TrainingError() float64 { return s.trainingError }

// Metadata returns the build metadata.
func (s *Surrogate) Metadata() Metadata { return s.meta }

// Parts returns the reduced-order parts: one for WaveformBasis, amplitude
// then phase for AmpPhaseBasis (shared, do not mutate).
func (s *Surrogate) Parts() []Part { return append([]Part(nil), s.parts...) }

// Basis returns the reduced basis of the first part (shared, do not mutate).
func (s *Surrogate) Basis() *greedy.Basis { return s.parts[0].Basis }

// Interpolant returns the empirical interpolant of the first part (shared,
// do not mutate).
func (s *Surrogate) Interpolant() *eim.Interpolant { return s.parts[0].Interp }

// Model returns the fit model of the first part (shared, do not mutate).
func (s *Surrogate) Model() *fit.Model { return s.parts[0].Model }

// Lebesgue returns the largest Lebesgue constant over the parts.
func (s *Surrogate) Lebesgue() float64 {
	var l float64
	for _, p := range s.parts {
		l = math.Max(l, p.Interp.Lebesgue)
	}
	return l
}
