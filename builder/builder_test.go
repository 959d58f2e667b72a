package builder_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/builder"
)

func TestBuildInspiral_Shape(t *testing.T) {
	t.Parallel()

	w, err := builder.BuildInspiral(1.0, 1)
	require.NoError(t, err)
	assert.Equal(t, 351, w.Len())
	assert.Equal(t, 300, w.PeakIndex())
	assert.InDelta(t, 0.25, w.PeakAmplitude(), 1e-12)
	assert.Equal(t, 1.0, w.Param())

	cyc, err := builder.Cycles(1.0)
	require.NoError(t, err)
	assert.Greater(t, cyc, 5.0)
	assert.Less(t, cyc, 10.0)

	w2, err := builder.BuildInspiral(2.0, 1)
	require.NoError(t, err)
	assert.Greater(t, w2.Len(), w.Len(), "longer inspiral for higher q")
	assert.InDelta(t, builder.SymmetricMassRatio(2), w2.PeakAmplitude(), 1e-12)
}

func TestBuildInspiral_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := builder.BuildInspiral(1.3, 7, builder.WithNoise(1e-3))
	require.NoError(t, err)
	b, err := builder.BuildInspiral(1.3, 7, builder.WithNoise(1e-3))
	require.NoError(t, err)
	c, err := builder.BuildInspiral(1.3, 8, builder.WithNoise(1e-3))
	require.NoError(t, err)

	assert.Equal(t, a.Samples(), b.Samples())
	assert.NotEqual(t, a.Samples(), c.Samples())
}

func TestBuildInspiral_PhaseContinuousAtPeak(t *testing.T) {
	t.Parallel()

	w, err := builder.BuildInspiral(1.5, 0, builder.WithStep(0.5))
	require.NoError(t, err)
	phi := w.Phase()
	p := w.PeakIndex()
	before := phi[p] - phi[p-1]
	after := phi[p+1] - phi[p]
	assert.InDelta(t, before, after, 1e-3)
	assert.Greater(t, after, 0.0, "phase increases with time")
}

func TestBuildInspiral_Errors(t *testing.T) {
	t.Parallel()

	for _, q := range []float64{0.5, math.NaN(), math.Inf(1)} {
		_, err := builder.BuildInspiral(q, 0)
		assert.ErrorIs(t, err, builder.ErrBadParam, "q=%v", q)
	}
	_, err := builder.BuildInspiral(1, 0, builder.WithStep(1000))
	assert.ErrorIs(t, err, builder.ErrBadSize)
}

func TestBuildTrainingSet(t *testing.T) {
	t.Parallel()

	raw, err := builder.BuildTrainingSet(1, 2, 11, 3)
	require.NoError(t, err)
	require.Len(t, raw, 11)
	assert.Equal(t, 1.0, raw[0].Param())
	assert.InDelta(t, 1.5, raw[5].Param(), 1e-15)
	assert.Equal(t, 2.0, raw[10].Param())

	qs, err := builder.Params(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, qs)

	_, err = builder.BuildTrainingSet(2, 1, 5, 0)
	assert.ErrorIs(t, err, builder.ErrBadParam)
	_, err = builder.BuildTrainingSet(1, 2, 0, 0)
	assert.ErrorIs(t, err, builder.ErrBadSize)
}

func TestBuildTrainingSet_SharedNoiseStream(t *testing.T) {
	t.Parallel()

	// WithSeed overrides the seed argument and is shared by every member.
	a, err := builder.BuildTrainingSet(1, 1.2, 3, 1, builder.WithNoise(1e-3), builder.WithSeed(42))
	require.NoError(t, err)
	b, err := builder.BuildTrainingSet(1, 1.2, 3, 99, builder.WithNoise(1e-3), builder.WithSeed(42))
	require.NoError(t, err)
	c, err := builder.BuildTrainingSet(1, 1.2, 3, 1, builder.WithNoise(1e-3),
		builder.WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	for i := range a {
		assert.Equal(t, a[i].Samples(), b[i].Samples(), "member %d", i)
		assert.Equal(t, a[i].Samples(), c[i].Samples(), "member %d", i)
	}

	// The first member consumes the head of the stream.
	first, err := builder.BuildInspiral(1, 7, builder.WithNoise(1e-3), builder.WithSeed(42))
	require.NoError(t, err)
	assert.Equal(t, first.Samples(), a[0].Samples())

	// Two members at the same q draw different noise from one stream.
	twin, err := builder.BuildTrainingSet(1, 1, 2, 0, builder.WithNoise(1e-3), builder.WithSeed(42))
	require.NoError(t, err)
	assert.NotEqual(t, twin[0].Samples(), twin[1].Samples())
}

func TestBuildInspiral_ShapeOptions(t *testing.T) {
	t.Parallel()

	w, err := builder.BuildInspiral(1, 0,
		builder.WithInspiral(150),
		builder.WithRingdown(20),
		builder.WithAmplitude(2),
		builder.WithTotalMass(60))
	require.NoError(t, err)
	assert.Equal(t, 171, w.Len())
	assert.Equal(t, 150, w.PeakIndex())
	assert.InDelta(t, 0.5, w.PeakAmplitude(), 1e-12)
	assert.Equal(t, 60.0, w.TotalMass())

	base, err := builder.Cycles(1.3)
	require.NoError(t, err)
	fast, err := builder.Cycles(1.3, builder.WithPeakFrequency(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 2*base, fast, 1e-9)

	slow, err := builder.BuildInspiral(1.3, 0, builder.WithPeakFrequency(0.125))
	require.NoError(t, err)
	ref, err := builder.BuildInspiral(1.3, 0)
	require.NoError(t, err)
	assert.Equal(t, ref.Len(), slow.Len())
	assert.Less(t, slow.Cycles(), ref.Cycles())
}

func TestOptions_Panic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithAmplitude(0) })
	assert.Panics(t, func() { builder.WithNoise(-1) })
	assert.Panics(t, func() { builder.WithStep(0) })
	assert.Panics(t, func() { builder.WithInspiral(-1) })
	assert.Panics(t, func() { builder.WithRingdown(0) })
	assert.Panics(t, func() { builder.WithPeakFrequency(0) })
	assert.Panics(t, func() { builder.WithTotalMass(0) })
}
