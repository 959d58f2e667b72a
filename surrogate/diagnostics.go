// SPDX-License-Identifier: MIT

package surrogate

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ErrorNorms compares an evaluation with a reference waveform.
type ErrorNorms struct {
	L2    float64 // sqrt(Δt·Σ|h − ref|²)
	RelL2 float64 // ‖h − ref‖ / ‖ref‖
	LInf  float64 // max |h − ref|
}

// Errors returns the discrepancy between r and ref sampled on r.Times.
func Errors(r *Result, ref []complex128) (ErrorNorms, error) {
	if r == nil || len(ref) != len(r.Samples) || len(ref) == 0 {
		n := 0
		if r != nil {
			n = len(r.Samples)
		}
		return ErrorNorms{}, surrogateErrorf("Errors", fmt.Errorf("%d reference samples for %d: %w", len(ref), n, ErrLengthMismatch))
	}
	diff, mag := make([]float64, len(ref)), make([]float64, len(ref))
	for i := range ref {
		diff[i] = cmplx.Abs(r.Samples[i] - ref[i])
		mag[i] = cmplx.Abs(ref[i])
	}
	dt := 1.0
	if len(r.Times) > 1 {
		dt = math.Abs(r.Times[1] - r.Times[0])
	}
	l2 := floats.Norm(diff, 2)
	out := ErrorNorms{L2: math.Sqrt(dt) * l2, LInf: floats.Max(diff)}
	if n := floats.Norm(mag, 2); n > 0 {
		out.RelL2 = l2 / n
	} else {
		out.RelL2 = math.Inf(1)
	}

	return out, nil
}

// BasisVector returns basis vector i in the requested flavor on the native
// grid. Indices run over the parts in Parts order: for an AmpPhaseBasis
// surrogate the amplitude vectors come first, then the phase vectors.
func (s *Surrogate) BasisVector(i int, flavor Flavor) ([]complex128, error) {
	const tag = "BasisVector"
	if i < 0 || i >= s.Size() {
		return nil, surrogateErrorf(tag, fmt.Errorf("%d of %d: %w", i, s.Size(), ErrBadIndex))
	}
	p := s.parts[0]
	for _, p = range s.parts {
		if i < p.Interp.Size() {
			break
		}
		i -= p.Interp.Size()
	}
	switch flavor {
	case Cardinal:
		return p.Interp.B.Col(i)
	case Orthogonal:
		return append([]complex128(nil), p.Basis.Elements[i]...), nil
	case Greedy:
		return p.Basis.GreedyVector(i)
	default:
		return nil, surrogateErrorf(tag, fmt.Errorf("%d: %w", int(flavor), ErrBadFlavor))
	}
}

// TimerStats summarises repeated evaluations.
type TimerStats struct {
	N              int
	Mean, Min, Max time.Duration
}

// Timer evaluates n parameters drawn uniformly from the training interval
// (seeded) and reports the wall-clock statistics.
func (s *Surrogate) Timer(n int, seed int64) (TimerStats, error) {
	if n < 1 {
		return TimerStats{}, surrogateErrorf("Timer", fmt.Errorf("n=%d: %w", n, ErrBadCount))
	}
	rng := rand.New(rand.NewSource(seed))
	lo, hi := s.Range()
	st := TimerStats{N: n, Min: time.Duration(math.MaxInt64)}
	var total time.Duration
	for i := 0; i < n; i++ {
		q := lo + (hi-lo)*rng.Float64()
		begin := time.Now()
		if _, err := s.Evaluate(q); err != nil {
			return TimerStats{}, surrogateErrorf("Timer", err)
		}
		d := time.Since(begin)
		total += d
		st.Min = min(st.Min, d)
		st.Max = max(st.Max, d)
	}
	st.Mean = total / time.Duration(n)

	return st, nil
}

// diffTol is the absolute tolerance under which numeric fields compare equal.
const diffTol = 1e-12

// Diff compares two surrogates field by field and describes every
// difference; an empty result means they are equivalent.
func Diff(a, b *Surrogate) []string {
	var out []string
	add := func(format string, args ...any) { out = append(out, fmt.Sprintf(format, args...)) }

	if a.kind != b.kind {
		add("kind: %s vs %s", a.kind, b.kind)
		return out
	}
	if !a.grid.Equal(b.grid) {
		add("grid: %+v vs %+v", a.grid, b.grid)
	}
	alo, ahi := a.Range()
	blo, bhi := b.Range()
	if alo != blo || ahi != bhi {
		add("range: [%g, %g] vs [%g, %g]", alo, ahi, blo, bhi)
	}
	if a.policy != b.policy {
		add("range policy: %s vs %s", a.policy, b.policy)
	}
	if a.trainingError != b.trainingError {
		add("training error: %g vs %g", a.trainingError, b.trainingError)
	}
	for i := range a.parts {
		name := a.kind.partName(i)
		for _, d := range diffPart(a.parts[i], b.parts[i]) {
			if len(a.parts) > 1 {
				d = name + " " + d
			}
			add("%s", d)
		}
	}

	return out
}

func diffPart(a, b Part) []string {
	var out []string
	add := func(format string, args ...any) { out = append(out, fmt.Sprintf(format, args...)) }

	if a.Basis.Product.Name() != b.Basis.Product.Name() {
		add("inner product: %s vs %s", a.Basis.Product.Name(), b.Basis.Product.Name())
	}
	if a.Interp.Size() != b.Interp.Size() {
		add("size: %d vs %d", a.Interp.Size(), b.Interp.Size())
		return out
	}

	for j := range a.Interp.Nodes {
		if a.Interp.Nodes[j] != b.Interp.Nodes[j] {
			add("node %d: %d vs %d", j, a.Interp.Nodes[j], b.Interp.Nodes[j])
		}
	}
	if d := maxDiff(a.Basis.Elements, b.Basis.Elements); d > diffTol {
		add("basis elements: max |Δ| = %.3e", d)
	}
	var dB float64
	for t := 0; t < a.Interp.B.Rows() && t < b.Interp.B.Rows(); t++ {
		dB = math.Max(dB, maxDiff([][]complex128{a.Interp.B.RawRowView(t)}, [][]complex128{b.Interp.B.RawRowView(t)}))
	}
	if dB > diffTol {
		add("interpolation operator: max |Δ| = %.3e", dB)
	}

	am, bm := a.Model, b.Model
	if am.Map != bm.Map {
		add("affine map: %s vs %s", am.Map, bm.Map)
	}
	for j := range am.Amp {
		if !samePoly(am.Amp[j].Coeffs, bm.Amp[j].Coeffs) {
			add("amplitude fit %d differs", j)
		}
	}
	for j := range am.Phase {
		if j >= len(bm.Phase) || !samePoly(am.Phase[j].Coeffs, bm.Phase[j].Coeffs) {
			add("phase fit %d differs", j)
		}
	}
	switch {
	case (am.Norm == nil) != (bm.Norm == nil):
		add("norm fit: present %t vs %t", am.Norm != nil, bm.Norm != nil)
	case am.Norm != nil && !samePoly(am.Norm.Coeffs, bm.Norm.Coeffs):
		add("norm fit differs")
	}

	return out
}

func maxDiff(a, b [][]complex128) float64 {
	var d float64
	for i := range a {
		if i >= len(b) || len(a[i]) != len(b[i]) {
			return math.Inf(1)
		}
		for j := range a[i] {
			d = math.Max(d, cmplx.Abs(a[i][j]-b[i][j]))
		}
	}

	return d
}

func samePoly(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	return floats.EqualApprox(a, b, diffTol)
}
