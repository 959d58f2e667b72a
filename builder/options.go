// SPDX-License-Identifier: MIT
// Package: gwsur/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Generators themselves never panic.
//   • Determinism is explicit: noise draws come from WithSeed/WithRand or
//     from the seed argument of the generator.

package builder

import (
	"math"
	"math/rand"
)

// BuilderOption customizes a generator by mutating a builderConfig instance
// before synthesis begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for noise draws. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed, shared by every
// waveform of one BuildTrainingSet call.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithAmplitude scales the strain by A (>0). Panics if A <= 0.
func WithAmplitude(A float64) BuilderOption {
	if !(A > 0) || math.IsInf(A, 0) {
		panic("builder: WithAmplitude(A<=0)")
	}
	return func(c *builderConfig) {
		c.amplitude = A
	}
}

// WithNoise sets the Gaussian noise sigma (>=0) added to both polarizations.
// Panics if sigma < 0.
func WithNoise(sigma float64) BuilderOption {
	if sigma < 0 || math.IsNaN(sigma) {
		panic("builder: WithNoise(sigma<0)")
	}
	return func(c *builderConfig) {
		c.noiseSigma = sigma
	}
}

// WithStep sets the sample spacing dt (>0, in units of M). Panics if dt <= 0.
func WithStep(dt float64) BuilderOption {
	if !(dt > 0) || math.IsInf(dt, 0) {
		panic("builder: WithStep(dt<=0)")
	}
	return func(c *builderConfig) {
		c.step = dt
	}
}

// WithInspiral sets the pre-peak duration of the q = 1 waveform (>0).
// Higher mass ratios get proportionally longer inspirals.
func WithInspiral(d float64) BuilderOption {
	if !(d > 0) || math.IsInf(d, 0) {
		panic("builder: WithInspiral(d<=0)")
	}
	return func(c *builderConfig) {
		c.inspiral = d
	}
}

// WithRingdown sets the post-peak duration (>0).
func WithRingdown(d float64) BuilderOption {
	if !(d > 0) || math.IsInf(d, 0) {
		panic("builder: WithRingdown(d<=0)")
	}
	return func(c *builderConfig) {
		c.ringdown = d
	}
}

// WithPeakFrequency sets the angular frequency at the peak (rad/M, >0).
func WithPeakFrequency(omega float64) BuilderOption {
	if !(omega > 0) || math.IsInf(omega, 0) {
		panic("builder: WithPeakFrequency(omega<=0)")
	}
	return func(c *builderConfig) {
		c.peakOmega = omega
	}
}

// WithTotalMass records the total mass (solar masses) on every waveform.
func WithTotalMass(m float64) BuilderOption {
	if !(m > 0) || math.IsInf(m, 0) {
		panic("builder: WithTotalMass(m<=0)")
	}
	return func(c *builderConfig) {
		c.totalMass = m
	}
}
