// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/gwsur/waveform"
)

// Model holds one amplitude and one phase polynomial per interpolation node,
// in the affine-mapped parameter, plus an optional norm polynomial.
// A Real model (from FitReal) fits real node values directly: Amp holds one
// value polynomial per node and Phase is empty.
type Model struct {
	Map      AffineMap
	Lo, Hi   float64
	Amp      []Poly
	Phase    []Poly
	Norm     *Poly
	Selector string
	Real     bool
}

// Option customizes Fit.
type Option func(*config)

type config struct {
	mapping  AffineMap
	selector DegreeSelector
	norms    []float64
}

// WithMap selects the affine parameter map. Panics on an unknown map.
func WithMap(m AffineMap) Option {
	if !m.valid() {
		panic(fmt.Sprintf("fit: WithMap(%d)", int(m)))
	}
	return func(c *config) {
		c.mapping = m
	}
}

// WithSelector replaces DefaultHoldOut. Panics on nil.
func WithSelector(s DegreeSelector) Option {
	if s == nil {
		panic("fit: WithSelector(nil)")
	}
	return func(c *config) {
		c.selector = s
	}
}

// WithNorms also fits the training norms (one per parameter), for node
// coefficients taken from normalised waveforms.
func WithNorms(norms []float64) Option {
	return func(c *config) {
		c.norms = append([]float64(nil), norms...)
	}
}

// Fit fits coeffs[i][j], the value of training waveform i at node j, as
// amplitude and phase polynomials in params[i].
//
// Phases are unwrapped along the sorted parameter axis and shifted so that
// the first one lies in [0, 2π).
//
// Errors: ErrLengthMismatch, ErrTooFewPoints, ErrBadDegree, ErrNonFinite,
// ErrIllConditioned.
func Fit(params []float64, coeffs [][]complex128, opts ...Option) (*Model, error) {
	const tag = "Fit"
	k := 0
	if len(coeffs) > 0 {
		k = len(coeffs[0])
	}
	rows := make([]int, len(coeffs))
	for i := range coeffs {
		rows[i] = len(coeffs[i])
	}
	m, p, err := prepare(params, rows, k, opts)
	if err != nil {
		return nil, fitErrorf(tag, err)
	}

	n := len(params)
	m.Phase = make([]Poly, k)
	amp, phase := make([]float64, n), make([]float64, n)
	for j := 0; j < k; j++ {
		for i, src := range p.order {
			amp[i] = cmplx.Abs(coeffs[src][j])
			phase[i] = cmplx.Phase(coeffs[src][j])
		}
		unwrapped := waveform.ShiftNonNegative(waveform.Unwrap(phase))

		if m.Amp[j], err = fitSeries(p.selector, p.x, amp); err != nil {
			return nil, fitErrorf(tag, fmt.Errorf("node %d amplitude: %w", j, err))
		}
		if m.Phase[j], err = fitSeries(p.selector, p.x, unwrapped); err != nil {
			return nil, fitErrorf(tag, fmt.Errorf("node %d phase: %w", j, err))
		}
	}
	if err = p.fitNorm(m); err != nil {
		return nil, fitErrorf(tag, err)
	}

	return m, nil
}

// FitReal fits values[i][j], the real value of training series i at node j,
// with one polynomial per node in params[i]. The result is a Real model whose
// Coefficients are purely real.
//
// Errors: as Fit.
func FitReal(params []float64, values [][]float64, opts ...Option) (*Model, error) {
	const tag = "FitReal"
	k := 0
	if len(values) > 0 {
		k = len(values[0])
	}
	rows := make([]int, len(values))
	for i := range values {
		rows[i] = len(values[i])
	}
	m, p, err := prepare(params, rows, k, opts)
	if err != nil {
		return nil, fitErrorf(tag, err)
	}

	m.Real = true
	y := make([]float64, len(params))
	for j := 0; j < k; j++ {
		for i, src := range p.order {
			y[i] = values[src][j]
		}
		if m.Amp[j], err = fitSeries(p.selector, p.x, y); err != nil {
			return nil, fitErrorf(tag, fmt.Errorf("node %d: %w", j, err))
		}
	}
	if err = p.fitNorm(m); err != nil {
		return nil, fitErrorf(tag, err)
	}

	return m, nil
}

// prepared is the shared state of Fit and FitReal: parameters sorted and
// mapped, with the permutation back to input order.
type prepared struct {
	x        []float64
	order    []int
	selector DegreeSelector
	norms    []float64
}

// prepare validates the input shape (one row of k node values per
// parameter) and returns an empty model over the parameter interval.
func prepare(params []float64, rows []int, k int, opts []Option) (*Model, prepared, error) {
	cfg := config{mapping: MapMinus1To1, selector: DefaultHoldOut}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(params)
	switch {
	case n == 0:
		return nil, prepared{}, ErrTooFewPoints
	case len(rows) != n:
		return nil, prepared{}, fmt.Errorf("%d parameters, %d coefficient rows: %w", n, len(rows), ErrLengthMismatch)
	case cfg.norms != nil && len(cfg.norms) != n:
		return nil, prepared{}, fmt.Errorf("%d parameters, %d norms: %w", n, len(cfg.norms), ErrLengthMismatch)
	case k == 0:
		return nil, prepared{}, fmt.Errorf("no nodes: %w", ErrTooFewPoints)
	}
	for i, r := range rows {
		if r != k {
			return nil, prepared{}, fmt.Errorf("row %d has %d nodes, want %d: %w", i, r, k, ErrLengthMismatch)
		}
	}

	sorted := append([]float64(nil), params...)
	order := make([]int, n)
	floats.Argsort(sorted, order)
	lo, hi := sorted[0], sorted[n-1]
	x := make([]float64, n)
	for i, q := range sorted {
		x[i] = cfg.mapping.Apply(q, lo, hi)
	}

	m := &Model{
		Map:      cfg.mapping,
		Lo:       lo,
		Hi:       hi,
		Amp:      make([]Poly, k),
		Selector: cfg.selector.Name(),
	}

	return m, prepared{x: x, order: order, selector: cfg.selector, norms: cfg.norms}, nil
}

// fitNorm fits the norm series into m when WithNorms was given.
func (p prepared) fitNorm(m *Model) error {
	if p.norms == nil {
		return nil
	}
	norms := make([]float64, len(p.order))
	for i, src := range p.order {
		norms[i] = p.norms[src]
	}
	poly, err := fitSeries(p.selector, p.x, norms)
	if err != nil {
		return fmt.Errorf("norm: %w", err)
	}
	m.Norm = &poly

	return nil
}

func fitSeries(sel DegreeSelector, x, y []float64) (Poly, error) {
	d, err := sel.Select(x, y)
	if err != nil {
		return Poly{}, err
	}

	return Polyfit(x, y, d)
}

// Size returns the number of nodes.
func (m *Model) Size() int { return len(m.Amp) }

// Mapped applies the model's affine map to q.
func (m *Model) Mapped(q float64) float64 { return m.Map.Apply(q, m.Lo, m.Hi) }

// AmpPhase evaluates every node's amplitude and phase fit at q. For a Real
// model amp holds the node values and phase is all zero.
func (m *Model) AmpPhase(q float64) (amp, phase []float64) {
	x := m.Mapped(q)
	amp, phase = make([]float64, len(m.Amp)), make([]float64, len(m.Amp))
	for j := range m.Amp {
		amp[j] = m.Amp[j].Eval(x)
		if !m.Real {
			phase[j] = m.Phase[j].Eval(x)
		}
	}

	return amp, phase
}

// NormAt evaluates the norm fit at q (1 without a norm fit).
func (m *Model) NormAt(q float64) float64 {
	if m.Norm == nil {
		return 1
	}

	return m.Norm.Eval(m.Mapped(q))
}

// Coefficients returns the node values A_j·e^{iφ_j} at q (the real value
// fits for a Real model), scaled by NormAt(q).
func (m *Model) Coefficients(q float64) []complex128 {
	amp, phase := m.AmpPhase(q)
	scale := m.NormAt(q)
	out := make([]complex128, len(amp))
	for j := range amp {
		if m.Real {
			out[j] = complex(scale*amp[j], 0)
			continue
		}
		out[j] = cmplx.Rect(scale*amp[j], phase[j])
	}

	return out
}

// Degrees returns the selected amplitude and phase degree per node (phase is
// empty for a Real model).
func (m *Model) Degrees() (amp, phase []int) {
	amp, phase = make([]int, len(m.Amp)), make([]int, len(m.Phase))
	for j := range m.Amp {
		amp[j] = m.Amp[j].Degree()
	}
	for j := range m.Phase {
		phase[j] = m.Phase[j].Degree()
	}

	return amp, phase
}

// NegativeAmplitude lists the nodes whose amplitude fit dips below zero at
// any of samples evenly spaced parameters in [Lo, Hi].
func (m *Model) NegativeAmplitude(samples int) []int {
	if samples < 2 {
		samples = 2
	}
	qs := floats.Span(make([]float64, samples), m.Lo, m.Hi)
	var out []int
	for j, p := range m.Amp {
		for _, q := range qs {
			if p.Eval(m.Mapped(q)) < 0 {
				out = append(out, j)
				break
			}
		}
	}

	return out
}

// Validate checks the structural invariants of a deserialised model: one
// amplitude and (unless Real) one phase polynomial per node, every
// polynomial non-empty and finite, and a finite ordered interval.
func (m *Model) Validate() error {
	const tag = "Validate"
	wantPhase := len(m.Amp)
	if m.Real {
		wantPhase = 0
	}
	switch {
	case len(m.Amp) == 0 || len(m.Phase) != wantPhase:
		return fitErrorf(tag, fmt.Errorf("%d amplitude / %d phase fits: %w", len(m.Amp), len(m.Phase), ErrLengthMismatch))
	case !m.Map.valid():
		return fitErrorf(tag, fmt.Errorf("affine map %d: %w", int(m.Map), ErrBadDegree))
	case !finite(m.Lo) || !finite(m.Hi) || m.Lo > m.Hi:
		return fitErrorf(tag, fmt.Errorf("interval [%g, %g]: %w", m.Lo, m.Hi, ErrNonFinite))
	}
	for j := range m.Amp {
		if err := m.Amp[j].validate(); err != nil {
			return fitErrorf(tag, fmt.Errorf("amplitude fit %d: %w", j, err))
		}
	}
	for j := range m.Phase {
		if err := m.Phase[j].validate(); err != nil {
			return fitErrorf(tag, fmt.Errorf("phase fit %d: %w", j, err))
		}
	}
	if m.Norm != nil {
		if err := m.Norm.validate(); err != nil {
			return fitErrorf(tag, fmt.Errorf("norm fit: %w", err))
		}
	}

	return nil
}
