package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/gwsur/builder"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/metrics"
	"github.com/katalvlaran/gwsur/pipeline"
	"github.com/katalvlaran/gwsur/surrogate"
	"github.com/katalvlaran/gwsur/waveform"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func rawSet(t *testing.T, n int) []*waveform.Waveform {
	t.Helper()
	raw, err := builder.BuildTrainingSet(1, 2, n, 7)
	require.NoError(t, err)

	return raw
}

func quietConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Logger = quiet

	return cfg
}

func TestBuild_ReproducesTrainingSet(t *testing.T) {
	t.Parallel()

	cfg := quietConfig()
	cfg.Name = "q-1-2"
	s, sum, err := pipeline.Build(context.Background(), rawSet(t, 61), cfg)
	require.NoError(t, err)

	assert.Equal(t, "q-1-2", s.Metadata().Name)
	assert.Equal(t, 61, sum.TrainingCount)
	assert.True(t, sum.Converged)
	assert.Less(t, sum.FinalResidual(), cfg.Tolerance)
	assert.Equal(t, s.Size(), sum.BasisSize)
	assert.Equal(t, "waveform_basis", sum.Kind)
	require.Len(t, sum.Parts, 1)
	assert.Equal(t, "waveform", sum.Parts[0].Name)
	assert.Len(t, sum.Parts[0].Residuals, sum.BasisSize)
	assert.GreaterOrEqual(t, sum.Lebesgue, 1.0-1e-9)
	assert.Len(t, sum.Parts[0].AmpDegrees, sum.BasisSize)

	require.Len(t, sum.TrainingErrors, 61)
	assert.Equal(t, sum.MaxTrainingError, s.TrainingError())
	for i, e := range sum.TrainingErrors {
		assert.LessOrEqual(t, e, s.TrainingError(), "member %d", i)
	}
	assert.Less(t, s.TrainingError(), 1e-2)
	assert.LessOrEqual(t, sum.MeanTrainingError, sum.MaxTrainingError)

	var names []string
	for _, st := range sum.Stages {
		names = append(names, st.Stage)
	}
	assert.Equal(t, []string{
		pipeline.StageAlign, pipeline.StageGreedy, pipeline.StageEIM,
		pipeline.StageFit, pipeline.StageAssemble, pipeline.StageValidate,
	}, names)

	var buf bytes.Buffer
	require.NoError(t, sum.WriteReport(&buf))
	for _, key := range []string{"name", "basis_size", "lebesgue", "max_training_error", "stage.greedy", "total"} {
		assert.Contains(t, buf.String(), key+" ")
	}
	assert.Contains(t, buf.String(), "q-1-2")
}

func TestBuild_FitNormsAndWorkers(t *testing.T) {
	t.Parallel()

	cfg := quietConfig()
	cfg.FitNorms = true
	cfg.Workers = 1
	s, sum, err := pipeline.Build(context.Background(), rawSet(t, 41), cfg)
	require.NoError(t, err)
	assert.NotNil(t, s.Model().Norm)
	assert.Less(t, sum.MaxTrainingError, 1e-2)
}

func TestBuild_AmpPhaseBasis(t *testing.T) {
	t.Parallel()

	raw := rawSet(t, 61)
	cfg := quietConfig()
	cfg.Kind = surrogate.AmpPhaseBasis
	cfg.Tolerance = 1e-10
	cfg.AllowPartial = true
	s, sum, err := pipeline.Build(context.Background(), raw, cfg)
	require.NoError(t, err)

	assert.Equal(t, surrogate.AmpPhaseBasis, s.Kind())
	assert.Equal(t, "amp_phase_basis", sum.Kind)
	require.Len(t, sum.Parts, 2)
	assert.Equal(t, []string{"amplitude", "phase"}, []string{sum.Parts[0].Name, sum.Parts[1].Name})
	assert.Equal(t, s.Size(), sum.BasisSize)
	assert.Equal(t, sum.Parts[0].BasisSize+sum.Parts[1].BasisSize, sum.BasisSize)
	assert.Empty(t, sum.Parts[1].NegativeAmplitude)
	assert.Empty(t, sum.Parts[1].PhaseDegrees)
	assert.Equal(t, max(sum.Parts[0].Lebesgue, sum.Parts[1].Lebesgue), sum.Lebesgue)
	assert.Less(t, s.TrainingError(), 1e-2)

	var buf bytes.Buffer
	require.NoError(t, sum.WriteReport(&buf))
	for _, key := range []string{"kind", "amplitude.residuals", "phase.basis_size", "phase.greedy_params"} {
		assert.Contains(t, buf.String(), key+" ")
	}
}

func TestBuild_PartialBasis(t *testing.T) {
	t.Parallel()

	raw := rawSet(t, 31)
	cfg := quietConfig()
	cfg.MaxBasis = 2

	_, _, err := pipeline.Build(context.Background(), raw, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, greedy.ErrNotConverged)
	var ce *greedy.ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Iterations)

	cfg.AllowPartial = true
	s, sum, err := pipeline.Build(context.Background(), raw, cfg)
	require.NoError(t, err)
	assert.False(t, sum.Converged)
	assert.Equal(t, 2, s.Size())
	assert.NotEmpty(t, sum.Warnings)
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	raw := rawSet(t, 11)
	for name, mutate := range map[string]func(*pipeline.Config){
		"name":      func(c *pipeline.Config) { c.Name = "" },
		"tolerance": func(c *pipeline.Config) { c.Tolerance = 0 },
		"cap":       func(c *pipeline.Config) { c.MaxBasis = 0 },
		"workers":   func(c *pipeline.Config) { c.Workers = -1 },
		"selector":  func(c *pipeline.Config) { c.Selector = nil },
		"product":   func(c *pipeline.Config) { c.InnerProduct = "hermite" },
		"map":       func(c *pipeline.Config) { c.Map = 9 },
		"policy":    func(c *pipeline.Config) { c.RangePolicy = 7 },
		"kind":      func(c *pipeline.Config) { c.Kind = 5 },
		"norm fits": func(c *pipeline.Config) { c.Kind, c.FitNorms = surrogate.AmpPhaseBasis, true },
	} {
		cfg := quietConfig()
		mutate(&cfg)
		_, _, err := pipeline.Build(context.Background(), raw, cfg)
		assert.ErrorIs(t, err, pipeline.ErrBadConfig, name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := pipeline.Build(ctx, raw, quietConfig())
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = pipeline.Build(context.Background(), nil, quietConfig())
	assert.Error(t, err)
}

func TestBuild_MetricsAndSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	cfg := quietConfig()
	cfg.Metrics = metrics.New("gwsur")
	_, _, err := pipeline.Build(context.Background(), rawSet(t, 21), cfg)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(cfg.Metrics.Registry(), "gwsur_build_stage_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	spans := map[string]bool{}
	for _, s := range exp.GetSpans() {
		spans[s.Name] = true
	}
	for _, name := range []string{"build", pipeline.StageAlign, pipeline.StageGreedy, pipeline.StageValidate} {
		assert.True(t, spans[name], "span %q", name)
	}
}
