// SPDX-License-Identifier: MIT
// Package: gwsur/builder
//
// trainingset.go - families of synthetic waveforms over a parameter interval.

package builder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/gwsur/waveform"
)

// Params returns n mass ratios evenly spaced over [lo, hi], endpoints
// included (n = 1 yields {lo}).
func Params(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, builderErrorf(MethodTrainingSet, fmt.Errorf("n=%d: %w", n, ErrBadSize))
	}
	if err := checkParam(lo); err != nil {
		return nil, builderErrorf(MethodTrainingSet, err)
	}
	if err := checkParam(hi); err != nil || lo > hi {
		return nil, builderErrorf(MethodTrainingSet, fmt.Errorf("[%g, %g]: %w", lo, hi, ErrBadParam))
	}
	if n == 1 {
		return []float64{lo}, nil
	}

	qs := floats.Span(make([]float64, n), lo, hi)
	qs[n-1] = hi

	return qs, nil
}

// BuildTrainingSet returns raw (unaligned) waveforms for n mass ratios evenly
// spaced over [lo, hi]. All members share one noise stream drawn from
// rngFrom(cfg, seed), so the whole set is reproducible from seed.
func BuildTrainingSet(lo, hi float64, n int, seed int64, opts ...BuilderOption) ([]*waveform.Waveform, error) {
	qs, err := Params(lo, hi, n)
	if err != nil {
		return nil, err
	}

	cfg := newBuilderConfig(opts...)
	rng := rngFrom(cfg, seed)
	out := make([]*waveform.Waveform, len(qs))
	for i, q := range qs {
		if out[i], err = synthesize(q, cfg, rng); err != nil {
			return nil, builderErrorf(MethodTrainingSet, fmt.Errorf("q=%g: %w", q, err))
		}
	}

	return out, nil
}

// Cycles returns the number of gravitational-wave cycles before the peak for
// mass ratio q under the given options.
func Cycles(q float64, opts ...BuilderOption) (float64, error) {
	if err := checkParam(q); err != nil {
		return 0, builderErrorf(MethodInspiral, err)
	}
	cfg := newBuilderConfig(opts...)
	eta := SymmetricMassRatio(q)
	tau := cfg.inspiral / 3 * etaEqual / eta
	omegaP := cfg.peakOmega * math.Sqrt(eta/etaEqual)
	d := math.Round(cfg.inspiral*(1+inspiralGrowth*(q-1))/cfg.step) * cfg.step

	return omegaP * tau * 1.6 * (math.Pow(1+d/tau, 0.625) - 1) / (2 * math.Pi), nil
}
