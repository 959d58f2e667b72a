// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gwsur/align"
	"github.com/katalvlaran/gwsur/eim"
	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/surrogate"
	"github.com/katalvlaran/gwsur/waveform"
)

// Stage names, used for spans, metrics labels and Summary.Stages.
const (
	StageAlign    = "align"
	StageGreedy   = "greedy"
	StageEIM      = "eim"
	StageFit      = "fit"
	StageAssemble = "assemble"
	StageValidate = "validate"
)

// negativeAmpSamples is the parameter resolution of the negative-amplitude scan.
const negativeAmpSamples = 200

var tracer = otel.Tracer("github.com/katalvlaran/gwsur/pipeline")

// run carries the state shared by the stages of one Build.
type run struct {
	cfg     Config
	log     *slog.Logger
	summary *Summary
}

// stage runs fn inside its own span and records its duration.
func (r *run) stage(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	if err := ctx.Err(); err != nil {
		return pipelineErrorf(name, err)
	}
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	d := time.Since(start)
	r.summary.Stages = append(r.summary.Stages, StageTiming{Stage: name, Duration: d})
	r.cfg.Metrics.ObserveBuildStage(name, d)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Error("pipeline stage failed", slog.String("stage", name), slog.Duration("duration", d), slog.Any("error", err))

		return pipelineErrorf(name, err)
	}
	r.log.Debug("pipeline stage done", slog.String("stage", name), slog.Duration("duration", d))

	return nil
}

func (r *run) warn(msg string, attrs ...any) {
	r.summary.Warnings = append(r.summary.Warnings, msg)
	r.log.Warn("pipeline: "+msg, attrs...)
}

// Build turns raw waveforms into a validated surrogate.
//
// The greedy stage stops at cfg.Tolerance; reaching cfg.MaxBasis first is an
// error (a *greedy.ConvergenceError in the chain) unless cfg.AllowPartial.
// The returned surrogate carries TrainingError() = max relative L2 error
// over the training set.
//
// Errors: ErrBadConfig, and every stage error wrapped with its stage name.
// Cancelling ctx aborts between stages and during validation.
func Build(ctx context.Context, raw []*waveform.Waveform, cfg Config) (*surrogate.Surrogate, *Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, pipelineErrorf("config", err)
	}
	r := &run{
		cfg: cfg,
		log: cfg.logger().With(slog.String("surrogate", cfg.Name)),
		summary: &Summary{
			Name:      cfg.Name,
			Tolerance: cfg.Tolerance,
			Created:   time.Now().UTC(),
		},
	}

	ctx, span := tracer.Start(ctx, "build", trace.WithAttributes(
		attribute.String("gwsur.name", cfg.Name),
		attribute.Int("gwsur.waveforms", len(raw)),
		attribute.Float64("gwsur.tolerance", cfg.Tolerance),
	))
	defer span.End()

	s, err := r.build(ctx, raw)
	sum := r.summary
	cfg.Metrics.RecordBuild(err, sum.BasisSize, sum.FinalResidual(), sum.MaxTrainingError)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, nil, err
	}
	span.SetAttributes(
		attribute.Int("gwsur.basis_size", sum.BasisSize),
		attribute.Float64("gwsur.training_error", sum.MaxTrainingError),
	)
	r.log.Info("surrogate built",
		slog.Int("waveforms", sum.TrainingCount),
		slog.Int("basis", sum.BasisSize),
		slog.Bool("converged", sum.Converged),
		slog.Float64("residual", sum.FinalResidual()),
		slog.Float64("lebesgue", sum.Lebesgue),
		slog.Float64("training_error", sum.MaxTrainingError),
		slog.Duration("took", sum.Total()))

	return s, sum, nil
}

// part is one basis under construction. Signed parts (the phase) skip the
// negative-amplitude scan.
type part struct {
	name   string
	set    *waveform.TrainingSet
	signed bool
	basis  *greedy.Basis
	interp *eim.Interpolant
	model  *fit.Model
	sum    PartSummary
}

func (r *run) build(ctx context.Context, raw []*waveform.Waveform) (*surrogate.Surrogate, error) {
	cfg, sum := r.cfg, r.summary
	sum.Kind = cfg.Kind.String()

	var ts *waveform.TrainingSet
	var parts []*part
	err := r.stage(ctx, StageAlign, func(_ context.Context, span trace.Span) error {
		var err error
		if ts, err = align.Align(raw, cfg.Align); err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("gwsur.grid_len", ts.Grid().Len))
		if err = ts.Validate(); err != nil {
			return err
		}
		parts, err = splitParts(cfg.Kind, ts)

		return err
	})
	if err != nil {
		return nil, err
	}
	sum.TrainingCount = ts.Len()
	sum.ParamLo, sum.ParamHi = ts.ParamRange()
	sum.Grid = ts.Grid()

	err = r.stage(ctx, StageGreedy, func(_ context.Context, span trace.Span) error {
		ip, err := greedy.ProductByName(cfg.InnerProduct, ts.Grid().Step)
		if err != nil {
			return err
		}
		sum.InnerProduct = ip.Name()
		opts := []greedy.Option{
			greedy.WithMaxBasis(cfg.MaxBasis),
			greedy.WithInnerProduct(ip),
			greedy.WithNormalize(cfg.Normalize),
		}
		if cfg.Workers > 0 {
			opts = append(opts, greedy.WithWorkers(cfg.Workers))
		}

		sum.Converged = true
		for _, p := range parts {
			b, err := greedy.Build(p.set, cfg.Tolerance, opts...)
			var ce *greedy.ConvergenceError
			switch {
			case err == nil:
				p.sum.Converged = true
			case cfg.AllowPartial && errors.As(err, &ce):
				b = ce.Basis
				sum.Converged = false
				r.warn(p.name+": "+ce.Error(), slog.String("part", p.name),
					slog.Int("basis", ce.Iterations), slog.Float64("residual", ce.Residual))
			default:
				if len(parts) > 1 {
					return fmt.Errorf("%s: %w", p.name, err)
				}
				return err
			}
			p.basis = b
			p.sum.BasisSize = b.Size()
			p.sum.Residuals = append([]float64(nil), b.Residuals...)
			p.sum.SelectedParams = append([]float64(nil), b.Params...)
			sum.BasisSize += b.Size()
		}
		span.SetAttributes(attribute.Int("gwsur.basis_size", sum.BasisSize), attribute.Bool("gwsur.converged", sum.Converged))

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageEIM, func(_ context.Context, span trace.Span) error {
		for _, p := range parts {
			in, err := eim.Build(p.basis)
			if err != nil {
				return err
			}
			p.interp = in
			p.sum.Lebesgue = in.Lebesgue
			sum.Lebesgue = max(sum.Lebesgue, in.Lebesgue)
		}
		span.SetAttributes(attribute.Float64("gwsur.lebesgue", sum.Lebesgue))

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageFit, func(context.Context, trace.Span) error {
		opts := []fit.Option{fit.WithMap(cfg.Map), fit.WithSelector(cfg.Selector)}
		for _, p := range parts {
			var err error
			if cfg.Kind == surrogate.AmpPhaseBasis {
				var values [][]float64
				if values, err = nodeValues(p.set, p.interp); err != nil {
					return err
				}
				p.model, err = fit.FitReal(p.set.Params(), values, opts...)
			} else {
				var coeffs [][]complex128
				if coeffs, err = nodeCoefficients(p.set, p.interp, p.basis, cfg.FitNorms); err != nil {
					return err
				}
				popts := opts
				if cfg.FitNorms {
					popts = append(popts[:len(popts):len(popts)], fit.WithNorms(p.basis.Norms))
				}
				p.model, err = fit.Fit(p.set.Params(), coeffs, popts...)
			}
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	sum.Selector = parts[0].model.Selector
	for _, p := range parts {
		p.sum.AmpDegrees, p.sum.PhaseDegrees = p.model.Degrees()
		if p.signed {
			continue
		}
		if p.sum.NegativeAmplitude = p.model.NegativeAmplitude(negativeAmpSamples); len(p.sum.NegativeAmplitude) > 0 {
			r.warn(fmt.Sprintf("%s: amplitude fit negative somewhere in the interval at nodes %v", p.name, p.sum.NegativeAmplitude))
		}
	}
	for _, p := range parts {
		sum.Parts = append(sum.Parts, p.sum)
	}

	var s *surrogate.Surrogate
	err = r.stage(ctx, StageAssemble, func(context.Context, trace.Span) error {
		opts := []surrogate.Option{
			surrogate.WithRangePolicy(cfg.RangePolicy),
			surrogate.WithLogger(r.log),
			surrogate.WithMetadata(surrogate.Metadata{
				Name:          cfg.Name,
				Tolerance:     cfg.Tolerance,
				TrainingCount: ts.Len(),
				Created:       sum.Created,
			}),
		}
		var err error
		if cfg.Kind == surrogate.AmpPhaseBasis {
			s, err = surrogate.NewAmpPhase(parts[0].surrogatePart(), parts[1].surrogatePart(), opts...)
		} else {
			p := parts[0]
			s, err = surrogate.New(p.basis, p.interp, p.model, opts...)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageValidate, func(ctx context.Context, span trace.Span) error {
		errs, err := trainingErrors(ctx, s, ts, cfg.Workers)
		if err != nil {
			return err
		}
		sum.TrainingErrors = errs
		var total float64
		for i, e := range errs {
			total += e
			if e > sum.MaxTrainingError || i == 0 {
				sum.MaxTrainingError, sum.WorstParam = e, ts.Params()[i]
			}
		}
		sum.MeanTrainingError = total / float64(len(errs))
		span.SetAttributes(attribute.Float64("gwsur.training_error", sum.MaxTrainingError))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.WithTrainingError(sum.MaxTrainingError), nil
}

// splitParts returns the training sets the bases of kind k are built from.
func splitParts(k surrogate.Kind, ts *waveform.TrainingSet) ([]*part, error) {
	names := k.PartNames()
	if k != surrogate.AmpPhaseBasis {
		return []*part{{name: names[0], set: ts, sum: PartSummary{Name: names[0]}}}, nil
	}
	amp, phase, err := ts.AmpPhaseSets()
	if err != nil {
		return nil, err
	}

	return []*part{
		{name: names[0], set: amp, sum: PartSummary{Name: names[0]}},
		{name: names[1], set: phase, signed: true, sum: PartSummary{Name: names[1]}},
	}, nil
}

func (p *part) surrogatePart() surrogate.Part {
	return surrogate.Part{Basis: p.basis, Interp: p.interp, Model: p.model}
}

// nodeCoefficients returns each training waveform's values at the EIM nodes,
// of the normalised waveform when normalized is set.
func nodeCoefficients(ts *waveform.TrainingSet, in *eim.Interpolant, b *greedy.Basis, normalized bool) ([][]complex128, error) {
	coeffs := make([][]complex128, ts.Len())
	for i, w := range ts.Members() {
		c, err := in.NodeValues(w.Samples())
		if err != nil {
			return nil, err
		}
		if normalized {
			inv := complex(1/b.Norms[i], 0)
			for j := range c {
				c[j] *= inv
			}
		}
		coeffs[i] = c
	}

	return coeffs, nil
}

// nodeValues is nodeCoefficients for a real-valued training set.
func nodeValues(ts *waveform.TrainingSet, in *eim.Interpolant) ([][]float64, error) {
	values := make([][]float64, ts.Len())
	for i, w := range ts.Members() {
		c, err := in.NodeValues(w.Samples())
		if err != nil {
			return nil, err
		}
		v := make([]float64, len(c))
		for j, z := range c {
			v[j] = real(z)
		}
		values[i] = v
	}

	return values, nil
}

// trainingErrors evaluates s at every training parameter on a bounded pool
// and returns the relative L2 errors in training-set order.
func trainingErrors(ctx context.Context, s *surrogate.Surrogate, ts *waveform.TrainingSet, workers int) ([]float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	members := ts.Members()
	out := make([]float64, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, w := range members {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Evaluate(w.Param())
			if err != nil {
				return err
			}
			e, err := surrogate.Errors(res, w.Samples())
			if err != nil {
				return err
			}
			out[i] = e.RelL2

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
