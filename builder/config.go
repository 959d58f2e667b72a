// SPDX-License-Identifier: MIT
// Package: gwsur/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng        = nil   (seeded from the generator's seed argument)
//   • amplitude  = 1.0
//   • noiseSigma = 0.0
//   • step       = 1.0   (M)
//   • inspiral   = 300   (M before the peak at q = 1)
//   • ringdown   = 50    (M after the peak)
//   • peakOmega  = 0.25  (rad/M)
//   • totalMass  = 1.0

package builder

import (
	"math/rand"
)

// builderConfig aggregates all knobs used by the generators.
// It is passed by VALUE (immutable to callers).
type builderConfig struct {
	rng *rand.Rand

	amplitude  float64 // >0
	noiseSigma float64 // >=0
	step       float64 // >0
	inspiral   float64 // >0
	ringdown   float64 // >0
	peakOmega  float64 // >0
	totalMass  float64 // >0
}

const (
	defaultAmplitude  = 1.0
	defaultNoiseSigma = 0.0
	defaultStep       = 1.0
	defaultInspiral   = 300.0
	defaultRingdown   = 50.0
	defaultPeakOmega  = 0.25
	defaultTotalMass  = 1.0
)

// newBuilderConfig constructs a config with defaults and applies all options
// in order (last wins).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		amplitude:  defaultAmplitude,
		noiseSigma: defaultNoiseSigma,
		step:       defaultStep,
		inspiral:   defaultInspiral,
		ringdown:   defaultRingdown,
		peakOmega:  defaultPeakOmega,
		totalMass:  defaultTotalMass,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// rngFrom returns cfg.rng if present (shared stream), else a local rand
// seeded by 'seed'. This keeps determinism across composed calls.
func rngFrom(cfg builderConfig, seed int64) *rand.Rand {
	if cfg.rng != nil {
		return cfg.rng
	}

	return rand.New(rand.NewSource(seed))
}
