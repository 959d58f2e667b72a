// SPDX-License-Identifier: MIT

package surrogate

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/cmplx"

	"github.com/katalvlaran/gwsur/eim"
	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/matrix"
	"github.com/katalvlaran/gwsur/waveform"
)

// formatVersion is bumped on incompatible changes of the portable form.
const formatVersion = 1

// cvec is a complex vector as (re, im) pairs, portable to JSON.
type cvec [][2]float64

func toCvec(x []complex128) cvec {
	out := make(cvec, len(x))
	for i, z := range x {
		out[i] = [2]float64{real(z), imag(z)}
	}

	return out
}

func (v cvec) complex() []complex128 {
	out := make([]complex128, len(v))
	for i, p := range v {
		out[i] = complex(p[0], p[1])
	}

	return out
}

func toCmat(x [][]complex128) []cvec {
	out := make([]cvec, len(x))
	for i := range x {
		out[i] = toCvec(x[i])
	}

	return out
}

func fromCmat(x []cvec) [][]complex128 {
	out := make([][]complex128, len(x))
	for i := range x {
		out[i] = x[i].complex()
	}

	return out
}

// portable is the serialised form shared by the gob and JSON codecs.
type portable struct {
	Version int            `json:"version"`
	Kind    string         `json:"kind"`
	Meta    Metadata       `json:"meta"`
	Grid    waveform.Grid  `json:"grid"`
	Policy  string         `json:"range_policy"`
	Bound   float64        `json:"training_error"`
	Parts   []portablePart `json:"parts"`
}

// portablePart is one basis, interpolant and fit model.
type portablePart struct {
	Product     string    `json:"inner_product"`
	ProductStep float64   `json:"inner_product_step,omitempty"`
	Normalized  bool      `json:"normalized"`
	Elements    []cvec    `json:"basis"`
	Indices     []int     `json:"greedy_indices"`
	Params      []float64 `json:"greedy_params"`
	Residuals   []float64 `json:"residuals"`
	R           []cvec    `json:"r"`
	Norms       []float64 `json:"training_norms"`

	Nodes    []int  `json:"nodes"`
	Operator []cvec `json:"operator"`

	Map      string      `json:"affine_map"`
	Lo       float64     `json:"param_lo"`
	Hi       float64     `json:"param_hi"`
	Real     bool        `json:"real_fits,omitempty"`
	Amp      [][]float64 `json:"amp_fits"`
	Phase    [][]float64 `json:"phase_fits,omitempty"`
	Norm     []float64   `json:"norm_fit,omitempty"`
	Selector string      `json:"degree_selector"`
}

func (s *Surrogate) portable() portable {
	p := portable{
		Version: formatVersion,
		Kind:    s.kind.String(),
		Meta:    s.meta,
		Grid:    s.grid,
		Policy:  s.policy.String(),
		Bound:   s.trainingError,
	}
	for _, part := range s.parts {
		p.Parts = append(p.Parts, toPortablePart(part))
	}

	return p
}

func toPortablePart(part Part) portablePart {
	b, in, m := part.Basis, part.Interp, part.Model
	p := portablePart{
		Product:    b.Product.Name(),
		Normalized: b.Normalized,
		Elements:   toCmat(b.Elements),
		Indices:    b.Indices,
		Params:     b.Params,
		Residuals:  b.Residuals,
		R:          toCmat(b.R),
		Norms:      b.Norms,
		Nodes:      in.Nodes,
		Map:        m.Map.String(),
		Lo:         m.Lo,
		Hi:         m.Hi,
		Real:       m.Real,
		Selector:   m.Selector,
	}
	if r, ok := b.Product.(greedy.Riemann); ok {
		p.ProductStep = r.Step
	}
	p.Operator = make([]cvec, in.B.Rows())
	for t := range p.Operator {
		p.Operator[t] = toCvec(in.B.RawRowView(t))
	}
	for j := range m.Amp {
		p.Amp = append(p.Amp, m.Amp[j].Coeffs)
	}
	for j := range m.Phase {
		p.Phase = append(p.Phase, m.Phase[j].Coeffs)
	}
	if m.Norm != nil {
		p.Norm = m.Norm.Coeffs
	}

	return p
}

// corrupt wraps err as a decoding failure.
func corrupt(err error) error {
	return surrogateErrorf("decode", fmt.Errorf("%w: %w", err, ErrCorrupt))
}

// fromPortable validates and rebuilds a surrogate. Every shape a later call
// indexes into is checked here, so a decoded surrogate never panics.
func fromPortable(p portable) (*Surrogate, error) {
	if p.Version != formatVersion {
		return nil, corrupt(fmt.Errorf("version %d, want %d", p.Version, formatVersion))
	}
	if err := p.Grid.Validate(); err != nil {
		return nil, corrupt(err)
	}
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return nil, corrupt(err)
	}
	policy, err := ParseRangePolicy(p.Policy)
	if err != nil {
		return nil, corrupt(err)
	}
	if want := len(kind.PartNames()); len(p.Parts) != want {
		return nil, corrupt(fmt.Errorf("%d parts for %s, want %d", len(p.Parts), kind, want))
	}

	parts := make([]Part, len(p.Parts))
	for i, pp := range p.Parts {
		if parts[i], err = pp.part(p.Grid); err != nil {
			return nil, corrupt(fmt.Errorf("%s part: %w", kind.partName(i), err))
		}
	}

	opts := []Option{WithRangePolicy(policy), WithMetadata(p.Meta), WithLogger(slog.Default())}
	var s *Surrogate
	if kind == AmpPhaseBasis {
		s, err = NewAmpPhase(parts[0], parts[1], opts...)
	} else {
		s, err = New(parts[0].Basis, parts[0].Interp, parts[0].Model, opts...)
	}
	if err != nil {
		return nil, corrupt(err)
	}

	return s.WithTrainingError(p.Bound), nil
}

// part rebuilds and validates one stored part on grid.
func (pp portablePart) part(grid waveform.Grid) (Part, error) {
	ip, err := greedy.ProductByName(pp.Product, pp.ProductStep)
	if err != nil {
		return Part{}, err
	}
	mapping, err := fit.ParseAffineMap(pp.Map)
	if err != nil {
		return Part{}, err
	}

	b := &greedy.Basis{
		Grid:       grid,
		Product:    ip,
		Normalized: pp.Normalized,
		Elements:   fromCmat(pp.Elements),
		Indices:    pp.Indices,
		Params:     pp.Params,
		Residuals:  pp.Residuals,
		R:          fromCmat(pp.R),
		Norms:      pp.Norms,
	}
	if err = b.Validate(); err != nil {
		return Part{}, err
	}

	if len(pp.Nodes) != b.Size() {
		return Part{}, fmt.Errorf("%d nodes for %d basis elements", len(pp.Nodes), b.Size())
	}
	if len(pp.Operator) != grid.Len {
		return Part{}, fmt.Errorf("operator has %d rows for %d samples", len(pp.Operator), grid.Len)
	}
	op, err := matrix.NewCDense(len(pp.Operator), len(pp.Nodes))
	if err != nil {
		return Part{}, err
	}
	for t, row := range pp.Operator {
		if len(row) != len(pp.Nodes) {
			return Part{}, fmt.Errorf("operator row %d has %d columns for %d nodes", t, len(row), len(pp.Nodes))
		}
		z := row.complex()
		if !finite(z) {
			return Part{}, fmt.Errorf("operator row %d is not finite", t)
		}
		copy(op.RawRowView(t), z)
	}
	in, err := eim.New(grid, pp.Nodes, op)
	if err != nil {
		return Part{}, err
	}

	m := &fit.Model{Map: mapping, Lo: pp.Lo, Hi: pp.Hi, Selector: pp.Selector, Real: pp.Real}
	for j := range pp.Amp {
		m.Amp = append(m.Amp, fit.Poly{Coeffs: pp.Amp[j]})
	}
	for j := range pp.Phase {
		m.Phase = append(m.Phase, fit.Poly{Coeffs: pp.Phase[j]})
	}
	if pp.Norm != nil {
		m.Norm = &fit.Poly{Coeffs: pp.Norm}
	}
	if err = m.Validate(); err != nil {
		return Part{}, err
	}

	return Part{Basis: b, Interp: in, Model: m}, nil
}

func finite(x []complex128) bool {
	for _, z := range x {
		if cmplx.IsNaN(z) || cmplx.IsInf(z) {
			return false
		}
	}

	return true
}

// MarshalBinary implements encoding.BinaryMarshaler (gob).
func (s *Surrogate) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.portable()); err != nil {
		return nil, surrogateErrorf("MarshalBinary", err)
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler (gob).
func (s *Surrogate) UnmarshalBinary(data []byte) error {
	var p portable
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return surrogateErrorf("UnmarshalBinary", fmt.Errorf("%v: %w", err, ErrCorrupt))
	}
	built, err := fromPortable(p)
	if err != nil {
		return err
	}
	*s = *built

	return nil
}

// WriteJSON writes the portable JSON form of s.
func (s *Surrogate) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(s.portable()); err != nil {
		return surrogateErrorf("WriteJSON", err)
	}

	return nil
}

// ReadJSON reads a surrogate written by WriteJSON.
func ReadJSON(r io.Reader) (*Surrogate, error) {
	var p portable
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, surrogateErrorf("ReadJSON", fmt.Errorf("%v: %w", err, ErrCorrupt))
	}

	return fromPortable(p)
}
