// SPDX-License-Identifier: MIT

// Package fit models how the interpolation-node values of a waveform family
// vary with the parameter: each node value h(T_j; q) = A_j(q)·e^{iφ_j(q)} is
// split into amplitude and unwrapped phase, and each series is fitted by a
// least-squares polynomial (gonum mat) in an affine map of q.
//
// The polynomial degree is chosen per series by a DegreeSelector: Fixed, or
// HoldOut (interleaved k-fold validation, lowest degree on ties).
package fit
