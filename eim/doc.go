// SPDX-License-Identifier: MIT

// Package eim builds the empirical interpolant of a reduced basis: k grid
// nodes T_j and an operator B = E·V⁻¹ such that any waveform in the span of
// the basis is recovered from its values at the nodes, h ≈ B·h(T).
//
// Nodes are chosen greedily (argmax of the interpolation residual of the next
// basis element); the dense complex solves go through the pivoted LU of the
// matrix package. Resample evaluates B off the native grid with natural cubic
// splines (gonum interp).
package eim
