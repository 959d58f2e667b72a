// SPDX-License-Identifier: MIT

package surrogate

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"time"

	"github.com/katalvlaran/gwsur/matrix"
	"github.com/katalvlaran/gwsur/waveform"
)

// Timing breaks down one evaluation.
type Timing struct {
	Fit      time.Duration // node fits
	Assemble time.Duration // B·c (and resampling)
	Total    time.Duration
}

// Result is one surrogate evaluation.
type Result struct {
	Param          float64
	Times          []float64    // M, or seconds with physical units
	Samples        []complex128 // h = hp + i·hc
	Physical       bool
	StartFrequency float64 // 1/M, or Hz with physical units
	Timing         Timing
	Warnings       []string
}

// Polarizations splits the samples into hp and hc.
func (r *Result) Polarizations() (hp, hc []float64) {
	hp, hc = make([]float64, len(r.Samples)), make([]float64, len(r.Samples))
	for i, z := range r.Samples {
		hp[i], hc[i] = real(z), imag(z)
	}

	return hp, hc
}

// EvalOption customizes one Evaluate call.
type EvalOption func(*evalConfig)

type evalConfig struct {
	times    []float64
	phaseRef float64
	hasPhase bool
	mass     float64
	dist     float64
	physical bool
	fLow     float64
	policy   RangePolicy
}

// WithTimes evaluates on the given times (units of M, inside the native grid)
// by spline-resampling the interpolation operator.
func WithTimes(t []float64) EvalOption {
	return func(c *evalConfig) {
		c.times = append([]float64(nil), t...)
	}
}

// WithPhaseRef rotates the result so that its phase at the peak (t = 0)
// equals phi. Panics on a non-finite phi.
func WithPhaseRef(phi float64) EvalOption {
	if math.IsNaN(phi) || math.IsInf(phi, 0) {
		panic("surrogate: WithPhaseRef(non-finite)")
	}
	return func(c *evalConfig) {
		c.phaseRef, c.hasPhase = phi, true
	}
}

// WithPhysicalUnits scales times to seconds and the strain to a source of
// total mass M (solar masses) at distMpc megaparsecs. Panics unless both are
// finite and > 0.
func WithPhysicalUnits(totalMass, distMpc float64) EvalOption {
	if !(totalMass > 0) || !(distMpc > 0) || math.IsInf(totalMass, 0) || math.IsInf(distMpc, 0) {
		panic("surrogate: WithPhysicalUnits(M<=0 or dist<=0)")
	}
	return func(c *evalConfig) {
		c.mass, c.dist, c.physical = totalMass, distMpc, true
	}
}

// WithLowFrequency records a warning when the waveform starts above f
// (1/M, or Hz with physical units). Panics unless f > 0.
func WithLowFrequency(f float64) EvalOption {
	if !(f > 0) {
		panic("surrogate: WithLowFrequency(f<=0)")
	}
	return func(c *evalConfig) {
		c.fLow = f
	}
}

// WithRange overrides the surrogate's default range policy for one call.
// Panics on an unknown policy.
func WithRange(p RangePolicy) EvalOption {
	if !p.valid() {
		panic(fmt.Sprintf("surrogate: WithRange(%d)", int(p)))
	}
	return func(c *evalConfig) {
		c.policy = p
	}
}

// Evaluate returns h(t; q): range check, node fits of every part, then
// h = B·c for a WaveformBasis surrogate, or h = (B_amp·a)·e^{i·B_phase·φ}
// for an AmpPhaseBasis one.
//
// Errors: *OutOfRangeError under Reject; resampling errors from WithTimes.
func (s *Surrogate) Evaluate(q float64, opts ...EvalOption) (*Result, error) {
	const tag = "Evaluate"
	start := time.Now()
	cfg := evalConfig{policy: s.policy}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := &Result{Param: q, Physical: cfg.physical}
	if !s.InRange(q) {
		lo, hi := s.Range()
		if cfg.policy == Reject || math.IsNaN(q) || math.IsInf(q, 0) {
			return nil, &OutOfRangeError{Param: q, Lo: lo, Hi: hi}
		}
		msg := fmt.Sprintf("extrapolating to q=%g outside [%g, %g]", q, lo, hi)
		s.logger.Warn("surrogate: "+msg, slog.Float64("q", q), slog.Float64("lo", lo), slog.Float64("hi", hi))
		res.Warnings = append(res.Warnings, msg)
	}

	coeffs := make([][]complex128, len(s.parts))
	for i, p := range s.parts {
		coeffs[i] = p.Model.Coefficients(q)
	}
	res.Timing.Fit = time.Since(start)

	asm := time.Now()
	times := s.grid.Times()
	if cfg.times != nil {
		times = cfg.times
	}
	vals := make([][]complex128, len(s.parts))
	for i, p := range s.parts {
		op := p.Interp.B
		if cfg.times != nil {
			var err error
			if op, err = p.Interp.Resample(cfg.times); err != nil {
				return nil, surrogateErrorf(tag, err)
			}
		}
		v, err := matrix.MulVec(op, coeffs[i])
		if err != nil {
			return nil, surrogateErrorf(tag, err)
		}
		vals[i] = v
	}
	h := vals[0]
	if s.kind == AmpPhaseBasis {
		for t := range h {
			h[t] = cmplx.Rect(real(vals[0][t]), real(vals[1][t]))
		}
	}

	if cfg.hasPhase {
		if peak, ok := s.peakPhase(coeffs); ok {
			waveform.RotateInPlace(h, cfg.phaseRef-peak)
		} else {
			waveform.RotateInPlace(h, cfg.phaseRef)
		}
	}

	step := s.grid.Step
	if len(times) > 1 {
		step = times[1] - times[0]
	}
	if cfg.physical {
		ts, as := TimeScale(cfg.mass), AmplitudeScale(cfg.mass, cfg.dist)
		scaled := make([]float64, len(times))
		for i, t := range times {
			scaled[i] = t * ts
		}
		times, step = scaled, step*ts
		matrix.ScaleVec(complex(as, 0), h)
	} else {
		times = append([]float64(nil), times...)
	}
	res.Times, res.Samples = times, h
	res.Timing.Assemble = time.Since(asm)

	res.StartFrequency = waveform.InstantFrequency(h, step)
	if cfg.fLow > 0 && res.StartFrequency > cfg.fLow {
		msg := fmt.Sprintf("waveform starts at f=%.4g, above the requested %.4g", res.StartFrequency, cfg.fLow)
		s.logger.Warn("surrogate: "+msg, slog.Float64("q", q), slog.Float64("f_start", res.StartFrequency), slog.Float64("f_low", cfg.fLow))
		res.Warnings = append(res.Warnings, msg)
	}
	res.Timing.Total = time.Since(start)

	return res, nil
}

// peakPhase returns the phase of the surrogate at t = 0 on the native grid.
func (s *Surrogate) peakPhase(coeffs [][]complex128) (float64, bool) {
	p := s.grid.Index(0)
	if p < 0 || p >= s.grid.Len {
		return 0, false
	}
	at := func(i int) complex128 {
		var z complex128
		for j, b := range s.parts[i].Interp.B.RawRowView(p) {
			z += b * coeffs[i][j]
		}
		return z
	}
	if s.kind == AmpPhaseBasis {
		return real(at(1)), true
	}

	return cmplx.Phase(at(0)), true
}
