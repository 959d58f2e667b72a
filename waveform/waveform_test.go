package waveform_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/waveform"
)

// tone returns A·e^{iωt} sampled on g.
func tone(g waveform.Grid, amp, omega float64) []complex128 {
	out := make([]complex128, g.Len)
	for i := range out {
		out[i] = complex(amp, 0) * cmplx.Exp(complex(0, omega*g.At(i)))
	}

	return out
}

func TestGrid_Validate(t *testing.T) {
	t.Parallel()

	for _, g := range []waveform.Grid{
		{Start: 0, Step: 0, Len: 3},
		{Start: 0, Step: -1, Len: 3},
		{Start: 0, Step: 1, Len: 0},
		{Start: math.NaN(), Step: 1, Len: 3},
	} {
		assert.ErrorIs(t, g.Validate(), waveform.ErrBadGrid, "%+v", g)
	}

	g, err := waveform.NewGrid(-2, 0.5, 9)
	require.NoError(t, err)
	assert.Equal(t, 2.0, g.End())
	assert.Equal(t, 4, g.Index(0))
	assert.Len(t, g.Times(), 9)
	assert.True(t, g.Equal(waveform.Grid{Start: -2 + 1e-12, Step: 0.5, Len: 9}))
	assert.False(t, g.Equal(waveform.Grid{Start: -2, Step: 0.5, Len: 8}))
}

func TestNew_ValidatesAndCopies(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(0, 1, 3)
	_, err := waveform.New(1, g, []complex128{1, 2})
	assert.ErrorIs(t, err, waveform.ErrLengthMismatch)
	_, err = waveform.New(1, g, []complex128{1, complex(math.NaN(), 0), 2})
	assert.ErrorIs(t, err, waveform.ErrNonFinite)
	_, err = waveform.New(math.Inf(1), g, []complex128{1, 2, 3})
	assert.ErrorIs(t, err, waveform.ErrNonFinite)

	in := []complex128{1, 3i, 2}
	w, err := waveform.New(1.25, g, in, waveform.WithTotalMass(60))
	require.NoError(t, err)
	in[1] = 0
	got, err := w.At(1)
	require.NoError(t, err)
	assert.Equal(t, 3i, got, "input must be copied")

	s := w.Samples()
	s[0] = 99
	got, _ = w.At(0)
	assert.Equal(t, complex(1, 0), got, "Samples must return a copy")

	assert.Equal(t, 1.25, w.Param())
	assert.Equal(t, 60.0, w.TotalMass())
	assert.Equal(t, 1, w.PeakIndex())
	assert.Equal(t, 1.0, w.PeakTime())
	assert.Equal(t, 3.0, w.PeakAmplitude())

	_, err = w.At(3)
	assert.ErrorIs(t, err, waveform.ErrIndex)
}

func TestWithTotalMass_PanicsOnNonsense(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { waveform.WithTotalMass(0) })
	assert.Panics(t, func() { waveform.WithTotalMass(math.Inf(1)) })
}

func TestUnwrap_RemovesJumps(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(0, 0.1, 200)
	h := tone(g, 1, 3.0) // 19.9·3 rad ≈ 9.5 cycles
	phi := waveform.Phase(h)
	var i int
	for i = 1; i < len(phi); i++ {
		assert.InDelta(t, 0.3, phi[i]-phi[i-1], 1e-9, "step %d", i)
	}

	w, err := waveform.New(1, g, h)
	require.NoError(t, err)
	assert.InDelta(t, 3.0*g.End()/(2*math.Pi), w.Cycles(), 1e-9)
	assert.InDelta(t, 3.0/(2*math.Pi), waveform.InstantFrequency(h, g.Step), 1e-9)
}

func TestShiftNonNegative(t *testing.T) {
	t.Parallel()

	phi := waveform.ShiftNonNegative([]float64{-1, 0, 1})
	assert.InDelta(t, 2*math.Pi-1, phi[0], 1e-12)
	assert.InDelta(t, 2*math.Pi+1, phi[2], 1e-12)

	phi = waveform.ShiftNonNegative([]float64{4*math.Pi + 0.5, 0})
	assert.InDelta(t, 0.5, phi[0], 1e-12)
	assert.InDelta(t, -4*math.Pi, phi[1], 1e-12)
}

func TestAmpPhaseRoundTrip(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(-1, 0.05, 41)
	h := tone(g, 0.7, -5)
	amp, phase := waveform.AmpPhase(h)
	back, err := waveform.FromAmpPhase(amp, phase)
	require.NoError(t, err)
	for i := range h {
		assert.InDelta(t, 0, cmplx.Abs(back[i]-h[i]), 1e-12)
	}

	_, err = waveform.FromAmpPhase(amp, phase[:3])
	assert.ErrorIs(t, err, waveform.ErrLengthMismatch)
}

func TestWindowRetimeRotate(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(0, 1, 5)
	w, err := waveform.New(2, g, []complex128{1, 2, 3, 4, 5})
	require.NoError(t, err)

	win, err := w.Window(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, win.Len())
	assert.Equal(t, 1.0, win.Grid().Start)
	_, err = w.Window(3, 3)
	assert.ErrorIs(t, err, waveform.ErrIndex)

	assert.Equal(t, -4.0, w.Retimed(-4).Grid().Start)

	r := w.Rotated(math.Pi / 2)
	z, _ := r.At(0)
	assert.InDelta(t, 0, cmplx.Abs(z-1i), 1e-15)
	z, _ = w.At(0)
	assert.Equal(t, complex(1, 0), z, "Rotated must not mutate the receiver")
}

func TestTrainingSet(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(0, 1, 3)
	g2, _ := waveform.NewGrid(1, 1, 3)
	a, _ := waveform.New(1.5, g, []complex128{1, 2, 3})
	b, _ := waveform.New(1.0, g, []complex128{1, 2, 3})
	c, _ := waveform.New(2.0, g2, []complex128{1, 2, 3})

	_, err := waveform.NewTrainingSet(nil)
	assert.ErrorIs(t, err, waveform.ErrEmpty)
	_, err = waveform.NewTrainingSet([]*waveform.Waveform{a, c})
	assert.ErrorIs(t, err, waveform.ErrGridMismatch)

	ts, err := waveform.NewTrainingSet([]*waveform.Waveform{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, ts.Len())
	assert.Equal(t, []float64{1.5, 1.0}, ts.Params())
	lo, hi := ts.ParamRange()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 1.5, hi)
	_, err = ts.At(2)
	assert.ErrorIs(t, err, waveform.ErrIndex)
	assert.ErrorIs(t, ts.Validate(), waveform.ErrNotAligned, "peaks at t=2")

	ga, _ := waveform.NewGrid(-1, 1, 3)
	d, _ := waveform.New(1, ga, []complex128{1, 2, 1})
	aligned, err := waveform.NewTrainingSet([]*waveform.Waveform{d})
	require.NoError(t, err)
	assert.NoError(t, aligned.Validate())
}

func TestTrainingSet_AmpPhaseSets(t *testing.T) {
	t.Parallel()

	g, _ := waveform.NewGrid(-2, 0.5, 9)
	var ws []*waveform.Waveform
	for k, q := range []float64{1, 1.5} {
		h := tone(g, 1+float64(k), 4.0)
		// Scale the envelope so the peak sits on t = 0 (index 4).
		for i := range h {
			h[i] *= complex(1/(1+math.Abs(g.At(i))), 0)
		}
		w, err := waveform.New(q, g, h, waveform.WithTotalMass(30))
		require.NoError(t, err)
		ws = append(ws, w)
	}
	ts, err := waveform.NewTrainingSet(ws)
	require.NoError(t, err)

	amp, phase, err := ts.AmpPhaseSets()
	require.NoError(t, err)
	require.Equal(t, 2, amp.Len())
	require.Equal(t, 2, phase.Len())
	assert.Equal(t, ts.Params(), amp.Params())
	assert.True(t, phase.Grid().Equal(g))

	for i, w := range ts.Members() {
		a, _ := amp.At(i)
		p, _ := phase.At(i)
		assert.Equal(t, 30.0, p.TotalMass())
		h := w.Samples()
		pk := w.PeakIndex()
		for j := range h {
			av, _ := a.At(j)
			pv, _ := p.At(j)
			assert.Equal(t, 0.0, imag(av))
			assert.Equal(t, 0.0, imag(pv))
			assert.InDelta(t, 0, cmplx.Abs(cmplx.Rect(real(av), real(pv))-h[j]), 1e-12)
		}
		pv, _ := p.At(pk)
		assert.InDelta(t, cmplx.Phase(h[pk]), real(pv), 1e-12, "peak phase is the principal value")
	}
}
