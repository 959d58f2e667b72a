// SPDX-License-Identifier: MIT

// Package surrogate evaluates the reduced-order model of a waveform family:
//
//	h(t; q) = Σ_j B_j(t) · A_j(q)·e^{iφ_j(q)}
//
// where B is the empirical interpolation operator and A_j, φ_j are the node
// fits. That is the WaveformBasis kind. An AmpPhaseBasis surrogate keeps two
// real parts, one for |h| and one for the unwrapped phase, and returns
//
//	h(t; q) = (B_amp·a(q))(t) · e^{i (B_phase·φ(q))(t)}
//
// Evaluation options cover custom times (spline resampling of B),
// a merger phase reference, physical units and a low-frequency check.
// Queries outside the training interval are rejected (*OutOfRangeError) or
// extrapolated with a logged warning, per RangePolicy.
//
// A Surrogate is immutable and safe for concurrent use. It round-trips
// through gob (MarshalBinary/UnmarshalBinary) and a portable JSON form
// (WriteJSON/ReadJSON).
package surrogate
