// SPDX-License-Identifier: MIT

package greedy

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gwsur/matrix"
	"github.com/katalvlaran/gwsur/waveform"
)

const (
	// kappa triggers another Gram-Schmidt pass when a pass shrinks the
	// vector below kappa times its previous norm.
	kappa = 0.5

	maxPasses = 3

	// degenerateTol is the relative norm under which a vector is considered
	// inside the span of the current basis.
	degenerateTol = 1e-14

	// tieTol makes residuals within this relative distance compare equal,
	// so the lowest index wins.
	tieTol = 1e-12
)

// Build selects a reduced basis for ts greedily: start from the seed
// waveform, and at every step add the training waveform worst represented by
// the current span, until the maximum residual falls below tol.
//
// The residual of waveform i is its squared projection error
// ‖h_i − P_k h_i‖² (h_i normalised unless WithNormalize(false)), updated
// incrementally so the history is monotone non-increasing.
//
// Errors: ErrEmptyTrainingSet, ErrBadTolerance, ErrBadCap, ErrBadSeed,
// ErrDegenerate; *ConvergenceError (carrying the partial basis) when the cap
// is reached first.
//
// Complexity: O(k·N·L) time, O((k+N)·L) memory, for k elements, N training
// waveforms of L samples.
func Build(ts *waveform.TrainingSet, tol float64, opts ...Option) (*Basis, error) {
	const tag = "Build"
	cfg := newConfig(opts...)

	switch {
	case ts == nil || ts.Len() == 0:
		return nil, greedyErrorf(tag, ErrEmptyTrainingSet)
	case !(tol > 0) || math.IsInf(tol, 0):
		return nil, greedyErrorf(tag, fmt.Errorf("%g: %w", tol, ErrBadTolerance))
	case cfg.maxBasis < 1:
		return nil, greedyErrorf(tag, fmt.Errorf("%d: %w", cfg.maxBasis, ErrBadCap))
	case cfg.seed >= ts.Len():
		return nil, greedyErrorf(tag, fmt.Errorf("%d of %d: %w", cfg.seed, ts.Len(), ErrBadSeed))
	}

	members := ts.Members()
	n := len(members)
	data := make([][]complex128, n)
	norms := make([]float64, n)
	resid := make([]float64, n)
	for i, w := range members {
		data[i] = w.Samples()
		norms[i] = norm(cfg.product, data[i])
		if norms[i] == 0 {
			return nil, greedyErrorf(tag, fmt.Errorf("waveform %d (q=%g) has zero norm: %w", i, w.Param(), ErrDegenerate))
		}
		if cfg.normalize {
			matrix.ScaleVec(complex(1/norms[i], 0), data[i])
		}
		resid[i] = real(cfg.product.Dot(data[i], data[i]))
	}

	b := &Basis{
		Grid:       ts.Grid(),
		Product:    cfg.product,
		Normalized: cfg.normalize,
		Norms:      norms,
	}
	var cols [][]complex128
	limit := min(cfg.maxBasis, n)

	for sel := cfg.seed; ; {
		e, col, err := orthonormalize(cfg.product, b.Elements, data[sel])
		if err != nil {
			return nil, greedyErrorf(tag, fmt.Errorf("waveform %d (q=%g): %w", sel, members[sel].Param(), err))
		}
		b.Elements = append(b.Elements, e)
		b.Indices = append(b.Indices, sel)
		b.Params = append(b.Params, members[sel].Param())
		cols = append(cols, col)

		updateResiduals(cfg.product, e, data, resid, cfg.workers)
		resid[sel] = 0

		next, worst := argmaxResidual(resid)
		b.Residuals = append(b.Residuals, worst)

		if worst < tol {
			b.R = upperTriangle(cols)

			return b, nil
		}
		if len(b.Elements) >= limit {
			b.R = upperTriangle(cols)

			return b, &ConvergenceError{Basis: b, Iterations: len(b.Elements), Residual: worst, Tolerance: tol}
		}
		sel = next
	}
}

// orthonormalize runs iterated modified Gram-Schmidt of u against basis and
// returns the new unit vector with its column of R.
func orthonormalize(ip InnerProduct, basis [][]complex128, u []complex128) ([]complex128, []complex128, error) {
	v := append([]complex128(nil), u...)
	r := make([]complex128, len(basis)+1)
	nrm0 := norm(ip, v)
	if nrm0 == 0 {
		return nil, nil, ErrDegenerate
	}

	nrm := nrm0
	for pass := 0; pass < maxPasses && len(basis) > 0; pass++ {
		for i, e := range basis {
			c := ip.Dot(e, v)
			r[i] += c
			matrix.Axpy(-c, e, v)
		}
		prev := nrm
		nrm = norm(ip, v)
		if nrm >= kappa*prev {
			break
		}
	}
	if nrm <= degenerateTol*nrm0 {
		return nil, nil, fmt.Errorf("residual norm %.3e of %.3e: %w", nrm, nrm0, ErrDegenerate)
	}

	r[len(basis)] = complex(nrm, 0)
	matrix.ScaleVec(complex(1/nrm, 0), v)

	return v, r, nil
}

// updateResiduals subtracts |<e, h_i>|² from every residual on a bounded
// worker pool. Each index is owned by exactly one goroutine, so the result
// does not depend on the worker count.
func updateResiduals(ip InnerProduct, e []complex128, data [][]complex128, resid []float64, workers int) {
	chunk := (len(data) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(data); lo += chunk {
		hi := min(lo+chunk, len(data))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				c := ip.Dot(e, data[i])
				resid[i] = math.Max(resid[i]-(real(c)*real(c)+imag(c)*imag(c)), 0)
			}

			return nil
		})
	}
	_ = g.Wait()
}

// argmaxResidual returns the index to select next (lowest index among
// near-ties) and the true maximum.
func argmaxResidual(resid []float64) (int, float64) {
	idx, best, worst := 0, resid[0], resid[0]
	for i := 1; i < len(resid); i++ {
		if resid[i] > best && resid[i]-best > tieTol*best {
			idx, best = i, resid[i]
		}
		worst = math.Max(worst, resid[i])
	}

	return idx, worst
}

// upperTriangle lays Gram-Schmidt columns out as a square R[i][j].
func upperTriangle(cols [][]complex128) [][]complex128 {
	k := len(cols)
	r := make([][]complex128, k)
	for i := range r {
		r[i] = make([]complex128, k)
	}
	for j, col := range cols {
		for i, v := range col {
			r[i][j] = v
		}
	}

	return r
}
