// SPDX-License-Identifier: MIT

package eim

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/matrix"
	"github.com/katalvlaran/gwsur/waveform"
)

// DefaultSingularTol is the relative threshold under which a node residual
// or LU pivot counts as zero.
const DefaultSingularTol = 1e-12

// Interpolant is the empirical interpolant of a reduced basis: k grid nodes
// and the L×k operator B = E·V⁻¹ with V[a][b] = e_b(node_a), so that
// h ≈ B·h(nodes) for every h in the span.
type Interpolant struct {
	Grid      waveform.Grid
	Nodes     []int
	NodeTimes []float64
	B         *matrix.CDense
	Lebesgue  float64

	once      sync.Once
	splines   []colSpline
	splineErr error
}

// Option customizes Build.
type Option func(*config)

type config struct {
	singularTol float64
}

// WithSingularTol overrides DefaultSingularTol. Panics unless 0 < tol < 1.
func WithSingularTol(tol float64) Option {
	if !(tol > 0 && tol < 1) {
		panic(fmt.Sprintf("eim: WithSingularTol(%g)", tol))
	}
	return func(c *config) {
		c.singularTol = tol
	}
}

// Build selects one interpolation node per basis element and assembles B.
//
// Node 0 is argmax|e_0|. Step j solves V_j·c = e_j(nodes) and takes the next
// node at argmax|e_j − Σ c_b e_b| over unselected indices (lowest index on
// ties).
//
// Errors: ErrEmptyBasis; *SingularInterpolantError.
// Complexity: O(k²·L + k⁴) time, O(k·L) memory.
func Build(b *greedy.Basis, opts ...Option) (*Interpolant, error) {
	const tag = "Build"
	cfg := config{singularTol: DefaultSingularTol}
	for _, opt := range opts {
		opt(&cfg)
	}
	if b == nil || b.Size() == 0 {
		return nil, eimErrorf(tag, ErrEmptyBasis)
	}

	k := b.Size()
	nodes := make([]int, 0, k)
	taken := make(map[int]bool, k)
	skip := func(i int) bool { return taken[i] }

	first, pivot := matrix.ArgMaxAbs(b.Elements[0], nil)
	if scale := maxAbs(b.Elements[0]); pivot <= cfg.singularTol*scale || first < 0 {
		return nil, &SingularInterpolantError{Step: 0, Pivot: pivot, Tol: cfg.singularTol}
	}
	nodes = append(nodes, first)
	taken[first] = true

	for j := 1; j < k; j++ {
		ej := b.Elements[j]
		v, err := vandermonde(b.Elements[:j], nodes)
		if err != nil {
			return nil, eimErrorf(tag, err)
		}
		rhs := make([]complex128, j)
		for a, n := range nodes {
			rhs[a] = ej[n]
		}
		c, err := solve(v, rhs, cfg.singularTol, j)
		if err != nil {
			return nil, err
		}

		r := append([]complex128(nil), ej...)
		for bi := 0; bi < j; bi++ {
			matrix.Axpy(-c[bi], b.Elements[bi], r)
		}
		next, mag := matrix.ArgMaxAbs(r, skip)
		if next < 0 || mag <= cfg.singularTol*maxAbs(ej) {
			return nil, &SingularInterpolantError{Step: j, Pivot: mag, Tol: cfg.singularTol}
		}
		nodes = append(nodes, next)
		taken[next] = true
	}

	v, err := vandermonde(b.Elements, nodes)
	if err != nil {
		return nil, eimErrorf(tag, err)
	}
	lu, err := matrix.Factorize(v, cfg.singularTol)
	if err != nil {
		return nil, singular(err, k-1, cfg.singularTol)
	}
	vinv, err := lu.Inverse()
	if err != nil {
		return nil, singular(err, k-1, cfg.singularTol)
	}
	e, err := matrix.FromColumns(b.Elements)
	if err != nil {
		return nil, eimErrorf(tag, err)
	}
	op, err := matrix.Mul(e, vinv)
	if err != nil {
		return nil, eimErrorf(tag, err)
	}

	times := make([]float64, k)
	for a, n := range nodes {
		times[a] = b.Grid.At(n)
	}

	return &Interpolant{
		Grid:      b.Grid,
		Nodes:     nodes,
		NodeTimes: times,
		B:         op,
		Lebesgue:  lebesgue(op),
	}, nil
}

// New assembles an interpolant from stored parts (nodes and operator), e.g.
// after deserialisation. The Lebesgue constant is recomputed.
func New(grid waveform.Grid, nodes []int, op *matrix.CDense) (*Interpolant, error) {
	const tag = "New"
	if op == nil || len(nodes) == 0 {
		return nil, eimErrorf(tag, ErrEmptyBasis)
	}
	if op.Rows() != grid.Len || op.Cols() != len(nodes) {
		return nil, eimErrorf(tag, fmt.Errorf("operator %dx%d for %d samples and %d nodes: %w",
			op.Rows(), op.Cols(), grid.Len, len(nodes), ErrLengthMismatch))
	}
	times := make([]float64, len(nodes))
	for a, n := range nodes {
		if n < 0 || n >= grid.Len {
			return nil, eimErrorf(tag, fmt.Errorf("node %d=%d: %w", a, n, ErrOutsideGrid))
		}
		times[a] = grid.At(n)
	}

	return &Interpolant{
		Grid:      grid,
		Nodes:     append([]int(nil), nodes...),
		NodeTimes: times,
		B:         op.Clone(),
		Lebesgue:  lebesgue(op),
	}, nil
}

// Size returns the number of nodes.
func (in *Interpolant) Size() int { return len(in.Nodes) }

// Interpolate returns B·v for node values v (len = Size()).
func (in *Interpolant) Interpolate(v []complex128) ([]complex128, error) {
	if len(v) != len(in.Nodes) {
		return nil, eimErrorf("Interpolate", fmt.Errorf("%d values for %d nodes: %w", len(v), len(in.Nodes), ErrLengthMismatch))
	}

	return matrix.MulVec(in.B, v)
}

// NodeValues samples h at the interpolation nodes.
func (in *Interpolant) NodeValues(h []complex128) ([]complex128, error) {
	if len(h) != in.Grid.Len {
		return nil, eimErrorf("NodeValues", fmt.Errorf("%d samples, grid has %d: %w", len(h), in.Grid.Len, ErrLengthMismatch))
	}
	out := make([]complex128, len(in.Nodes))
	for a, n := range in.Nodes {
		out[a] = h[n]
	}

	return out, nil
}

// Reconstruct returns B·h(nodes), exact for every h in the basis span.
func (in *Interpolant) Reconstruct(h []complex128) ([]complex128, error) {
	v, err := in.NodeValues(h)
	if err != nil {
		return nil, err
	}

	return in.Interpolate(v)
}

// vandermonde returns V[a][b] = basis[b][nodes[a]] (square when
// len(basis) == len(nodes)).
func vandermonde(basis [][]complex128, nodes []int) (*matrix.CDense, error) {
	v, err := matrix.NewCDense(len(nodes), len(basis))
	if err != nil {
		return nil, err
	}
	for a, n := range nodes {
		for bi, e := range basis {
			if err = v.Set(a, bi, e[n]); err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}

func solve(v *matrix.CDense, rhs []complex128, tol float64, step int) ([]complex128, error) {
	lu, err := matrix.Factorize(v, tol)
	if err != nil {
		return nil, singular(err, step, tol)
	}
	c, err := lu.Solve(rhs)
	if err != nil {
		return nil, singular(err, step, tol)
	}

	return c, nil
}

// singular maps matrix.ErrSingular to *SingularInterpolantError, keeping the
// offending pivot magnitude.
func singular(err error, step int, tol float64) error {
	var se *matrix.SingularError
	if errors.As(err, &se) {
		return &SingularInterpolantError{Step: step, Pivot: se.Pivot, Tol: tol}
	}
	if errors.Is(err, matrix.ErrSingular) {
		return &SingularInterpolantError{Step: step, Pivot: 0, Tol: tol}
	}

	return eimErrorf("Build", err)
}

func maxAbs(x []complex128) float64 {
	var m float64
	for _, z := range x {
		m = math.Max(m, cmplx.Abs(z))
	}

	return m
}

// lebesgue returns max_t Σ_j |B[t][j]|.
func lebesgue(b *matrix.CDense) float64 {
	var best float64
	for t := 0; t < b.Rows(); t++ {
		var s float64
		for _, z := range b.RawRowView(t) {
			s += cmplx.Abs(z)
		}
		best = math.Max(best, s)
	}

	return best
}
