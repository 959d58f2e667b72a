// SPDX-License-Identifier: MIT

// Package greedy builds an orthonormal reduced basis for a training set of
// aligned waveforms.
//
// The greedy loop starts from a seed waveform and repeatedly adds the
// training waveform with the largest squared projection error onto the
// current span, orthonormalised by iterated modified Gram-Schmidt. Residuals
// are updated incrementally on a bounded worker pool (errgroup) and reduced
// deterministically, so the result does not depend on the worker count.
//
//	b, err := greedy.Build(ts, 1e-6, greedy.WithMaxBasis(60))
//	var ce *greedy.ConvergenceError
//	if errors.As(err, &ce) {
//		// ce.Basis holds the partial basis
//	}
//
// Inner products: Euclidean (default) or Riemann{Step}.
package greedy
