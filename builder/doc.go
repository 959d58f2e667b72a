// SPDX-License-Identifier: MIT

// Package builder synthesizes deterministic training waveforms for the
// surrogate pipeline: a smooth inspiral-merger-ringdown family h(t; q)
// labelled by mass ratio q ≥ 1, with optional seeded Gaussian noise.
//
// Generators follow one contract:
//
//   - Options are functional (BuilderOption) and panic on meaningless values.
//   - Generators return (value, error) and never panic.
//   - Randomness comes from WithSeed/WithRand or the seed argument only.
//
// Raw waveforms start at t = 0 and their pre-peak length grows with q, so a
// training set must go through align.Align before basis construction.
//
//	raw, err := builder.BuildTrainingSet(1, 2, 501, 42)
//	ts, err := align.Align(raw, align.DefaultOptions())
package builder
