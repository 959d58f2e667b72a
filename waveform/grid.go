// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"math"
)

// gridTol is the relative tolerance used when comparing grid starts and steps.
const gridTol = 1e-9

// Grid is a uniform time grid t_i = Start + i·Step, i = 0..Len-1.
type Grid struct {
	Start float64 // time of the first sample
	Step  float64 // sample spacing (> 0)
	Len   int     // number of samples (> 0)
}

// NewGrid validates and returns a Grid.
func NewGrid(start, step float64, n int) (Grid, error) {
	g := Grid{Start: start, Step: step, Len: n}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}

	return g, nil
}

// Validate checks Step > 0, Len > 0 and a finite Start.
func (g Grid) Validate() error {
	if !(g.Step > 0) || math.IsInf(g.Step, 0) || g.Len <= 0 || math.IsNaN(g.Start) || math.IsInf(g.Start, 0) {
		return waveformErrorf("Grid.Validate", fmt.Errorf("start=%g step=%g len=%d: %w", g.Start, g.Step, g.Len, ErrBadGrid))
	}

	return nil
}

// At returns t_i. No bounds check; i may lie outside [0, Len).
func (g Grid) At(i int) float64 { return g.Start + float64(i)*g.Step }

// End returns the time of the last sample.
func (g Grid) End() float64 { return g.At(g.Len - 1) }

// Times materialises all grid times.
// Complexity: O(Len).
func (g Grid) Times() []float64 {
	out := make([]float64, g.Len)
	for i := range out {
		out[i] = g.At(i)
	}

	return out
}

// Index returns the nearest sample index to t (may be outside [0, Len)).
func (g Grid) Index(t float64) int {
	return int(math.Round((t - g.Start) / g.Step))
}

// Equal reports whether two grids describe the same samples within a
// relative tolerance on Start and Step.
func (g Grid) Equal(o Grid) bool {
	if g.Len != o.Len {
		return false
	}

	return SameStep(g.Step, o.Step) && math.Abs(g.Start-o.Start) <= gridTol*g.Step
}

// SameStep reports whether two sample spacings agree within the grid tolerance.
func SameStep(a, b float64) bool {
	return math.Abs(a-b) <= gridTol*math.Max(math.Abs(a), math.Abs(b))
}

// Slice returns the sub-grid [from, to).
func (g Grid) Slice(from, to int) Grid {
	return Grid{Start: g.At(from), Step: g.Step, Len: to - from}
}
