package surrogate_test

import (
	"bytes"
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/align"
	"github.com/katalvlaran/gwsur/builder"
	"github.com/katalvlaran/gwsur/eim"
	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/surrogate"
	"github.com/katalvlaran/gwsur/waveform"
)

// realPart builds one real-valued part, keeping a partial basis at the cap.
func realPart(ts *waveform.TrainingSet) surrogate.Part {
	b, err := greedy.Build(ts, 1e-12)
	var ce *greedy.ConvergenceError
	if errors.As(err, &ce) {
		b, err = ce.Basis, nil
	}
	if err != nil {
		panic(err)
	}
	in, err := eim.Build(b)
	if err != nil {
		panic(err)
	}
	values := make([][]float64, ts.Len())
	for i, w := range ts.Members() {
		c, err := in.NodeValues(w.Samples())
		if err != nil {
			panic(err)
		}
		values[i] = make([]float64, len(c))
		for j, z := range c {
			values[i][j] = real(z)
		}
	}
	m, err := fit.FitReal(ts.Params(), values, fit.WithSelector(fit.HoldOut{Folds: 5, MaxDegree: 15}))
	if err != nil {
		panic(err)
	}

	return surrogate.Part{Basis: b, Interp: in, Model: m}
}

// ampPhaseFixture is fixture with separate amplitude and phase bases.
var ampPhaseFixture = sync.OnceValues(func() (*waveform.TrainingSet, *surrogate.Surrogate) {
	raw, err := builder.BuildTrainingSet(1, 2, 101, 1)
	if err != nil {
		panic(err)
	}
	ts, err := align.Align(raw, align.DefaultOptions())
	if err != nil {
		panic(err)
	}
	amp, phase, err := ts.AmpPhaseSets()
	if err != nil {
		panic(err)
	}
	s, err := surrogate.NewAmpPhase(realPart(amp), realPart(phase), surrogate.WithLogger(quiet),
		surrogate.WithMetadata(surrogate.Metadata{Name: "amp-phase", Tolerance: 1e-12, TrainingCount: ts.Len()}))
	if err != nil {
		panic(err)
	}

	return ts, s
})

func TestAmpPhase_ReproducesTrainingWaveforms(t *testing.T) {
	t.Parallel()

	ts, s := ampPhaseFixture()
	assert.Equal(t, surrogate.AmpPhaseBasis, s.Kind())
	parts := s.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, parts[0].Basis.Size()+parts[1].Basis.Size(), s.Size())
	assert.Equal(t, math.Max(parts[0].Interp.Lebesgue, parts[1].Interp.Lebesgue), s.Lebesgue())
	assert.Equal(t, []string{"amplitude", "phase"}, s.Kind().PartNames())

	for i, w := range ts.Members() {
		if i%10 != 0 {
			continue
		}
		res, err := s.Evaluate(w.Param())
		require.NoError(t, err)
		e, err := surrogate.Errors(res, w.Samples())
		require.NoError(t, err)
		assert.Less(t, e.RelL2, 1e-2, "q=%g", w.Param())
	}
}

func TestAmpPhase_EvaluateOptions(t *testing.T) {
	t.Parallel()

	_, s := ampPhaseFixture()
	g := s.Grid()
	base, err := s.Evaluate(1.5)
	require.NoError(t, err)
	for _, z := range base.Samples {
		require.False(t, cmplx.IsNaN(z))
	}

	rot, err := s.Evaluate(1.5, surrogate.WithPhaseRef(-0.4))
	require.NoError(t, err)
	assert.InDelta(t, -0.4, cmplx.Phase(rot.Samples[g.Index(0)]), 1e-9)
	assert.InDelta(t, cmplx.Abs(base.Samples[10]), cmplx.Abs(rot.Samples[10]), 1e-12)

	idx := []int{0, 33, g.Index(0), g.Len - 1}
	times := make([]float64, len(idx))
	for k, i := range idx {
		times[k] = g.At(i)
	}
	sub, err := s.Evaluate(1.5, surrogate.WithTimes(times))
	require.NoError(t, err)
	for k, i := range idx {
		assert.InDelta(t, 0, cmplx.Abs(sub.Samples[k]-base.Samples[i]), 1e-10)
	}
}

func TestAmpPhase_RoundTripAndDiagnostics(t *testing.T) {
	t.Parallel()

	_, s := ampPhaseFixture()
	want, err := s.Evaluate(1.23)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"amp_phase_basis"`)
	back, err := surrogate.ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, surrogate.AmpPhaseBasis, back.Kind())
	assert.Empty(t, surrogate.Diff(s, back))
	got, err := back.Evaluate(1.23)
	require.NoError(t, err)
	assert.Equal(t, want.Samples, got.Samples)

	blob, err := s.MarshalBinary()
	require.NoError(t, err)
	var fromGob surrogate.Surrogate
	require.NoError(t, fromGob.UnmarshalBinary(blob))
	assert.Empty(t, surrogate.Diff(s, &fromGob))

	_, w := fixture()
	d := surrogate.Diff(s, w)
	require.NotEmpty(t, d)
	assert.Contains(t, d[0], "kind")

	// Part indices run through the amplitude basis, then the phase basis.
	parts := s.Parts()
	na := parts[0].Basis.Size()
	first, err := s.BasisVector(0, surrogate.Orthogonal)
	require.NoError(t, err)
	assert.Equal(t, parts[0].Basis.Elements[0], first)
	ph, err := s.BasisVector(na, surrogate.Orthogonal)
	require.NoError(t, err)
	assert.Equal(t, parts[1].Basis.Elements[0], ph)
	_, err = s.BasisVector(s.Size(), surrogate.Cardinal)
	assert.ErrorIs(t, err, surrogate.ErrBadIndex)
}

func TestNewAmpPhase_Incompatible(t *testing.T) {
	t.Parallel()

	_, s := ampPhaseFixture()
	_, w := fixture()
	parts := s.Parts()

	_, err := surrogate.NewAmpPhase(parts[0], surrogate.Part{})
	assert.ErrorIs(t, err, surrogate.ErrIncompatible)

	complexPart := w.Parts()[0]
	_, err = surrogate.NewAmpPhase(complexPart, parts[1])
	assert.ErrorIs(t, err, surrogate.ErrIncompatible, "waveform fits are not real")

	_, err = surrogate.New(parts[0].Basis, parts[0].Interp, parts[0].Model)
	assert.ErrorIs(t, err, surrogate.ErrIncompatible, "real fits need amp_phase_basis")

	shifted := *parts[1].Model
	shifted.Hi += 1
	_, err = surrogate.NewAmpPhase(parts[0], surrogate.Part{Basis: parts[1].Basis, Interp: parts[1].Interp, Model: &shifted})
	assert.ErrorIs(t, err, surrogate.ErrIncompatible, "intervals differ")

	k, err := surrogate.ParseKind("amp_phase_basis")
	require.NoError(t, err)
	assert.Equal(t, surrogate.AmpPhaseBasis, k)
	_, err = surrogate.ParseKind("spline")
	assert.Error(t, err)
}

// Evaluate allocates its own buffers, so a surrogate serves many goroutines.
func TestEvaluate_Concurrent(t *testing.T) {
	t.Parallel()

	for name, load := range map[string]func() (*waveform.TrainingSet, *surrogate.Surrogate){
		"waveform":  fixture,
		"amp-phase": ampPhaseFixture,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, s := load()
			g := s.Grid()
			times := []float64{g.At(3) + 0.25*g.Step, g.At(40) + 0.5*g.Step, 0, g.At(g.Len-5) + 0.75*g.Step}
			qs := []float64{1.05, 1.3, 1.5, 1.77, 1.95}
			opts := func(q float64) []surrogate.EvalOption {
				return []surrogate.EvalOption{surrogate.WithTimes(times), surrogate.WithPhaseRef(q - 1)}
			}

			want := make([][]complex128, len(qs))
			for i, q := range qs {
				res, err := s.Evaluate(q, opts(q)...)
				require.NoError(t, err)
				want[i] = res.Samples
			}

			const workers = 8
			got := make([][][]complex128, workers)
			errs := make([]error, workers)
			var wg sync.WaitGroup
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					got[w] = make([][]complex128, len(qs))
					for r := range 20 {
						i := (w + r) % len(qs)
						res, err := s.Evaluate(qs[i], opts(qs[i])...)
						if err != nil {
							errs[w] = err
							return
						}
						got[w][i] = res.Samples
					}
				}()
			}
			wg.Wait()

			for w := range workers {
				require.NoError(t, errs[w])
				for i := range qs {
					assert.Equal(t, want[i], got[w][i], "worker %d q=%g", w, qs[i])
				}
			}
		})
	}
}
