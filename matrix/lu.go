// SPDX-License-Identifier: MIT
// Package matrix: LU factorisation with partial pivoting, solve and inverse.
//
// Blueprint:
//
//	Stage 1 (Validate): ensure m is square and non-nil.
//	Stage 2 (Decompose): P·A = L·U via Doolittle with row pivoting (largest |a|).
//	Stage 3 (Solve): forward substitution L·y = P·b, backward substitution U·x = y.
//
// Determinism:
//   - Pivot choice picks the first row holding the maximal modulus (lowest index on ties).
//
// Complexity: factorisation O(n³), each solve O(n²).

package matrix

import (
	"fmt"
	"math/cmplx"
)

// LU holds a packed factorisation P·A = L·U of a square complex matrix.
// L has a unit diagonal and is stored strictly below the diagonal of lu;
// U occupies the diagonal and above.
type LU struct {
	n   int          // dimension
	lu  []complex128 // packed L\U, row-major
	piv []int        // piv[i] = original row now at position i
}

// Factorize computes the pivoted LU factorisation of m.
// A pivot whose modulus is <= tol·max|a_ij| yields ErrSingular (tol<0 selects
// DefaultPivotTolerance). The input is not mutated.
// Complexity: O(n³) time, O(n²) memory.
func Factorize(m *CDense, tol float64) (*LU, error) {
	// Stage 1: Validate input shape
	if m == nil {
		return nil, matrixErrorf(opLU, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opLU, fmt.Errorf("non-square %dx%d: %w", m.r, m.c, ErrNonSquare))
	}
	if tol < 0 {
		tol = DefaultPivotTolerance
	}
	n := m.r

	// Stage 2: Prepare working copy and scale reference
	f := &LU{n: n, lu: make([]complex128, n*n), piv: make([]int, n)}
	copy(f.lu, m.data)
	var scale float64
	for _, v := range f.lu {
		if a := cmplx.Abs(v); a > scale {
			scale = a
		}
	}
	for i := 0; i < n; i++ {
		f.piv[i] = i
	}
	if scale == 0 {
		return nil, matrixErrorf(opLU, &SingularError{Step: 0, Pivot: 0})
	}

	// Stage 3: Eliminate column by column
	var (
		i, j, k int
		p       int     // pivot row
		best    float64 // best pivot modulus
		a       float64
		pivot   complex128
		factor  complex128
	)
	for k = 0; k < n; k++ {
		// 3.1: choose pivot row (first maximal modulus)
		p, best = k, cmplx.Abs(f.lu[k*n+k])
		for i = k + 1; i < n; i++ {
			if a = cmplx.Abs(f.lu[i*n+k]); a > best {
				p, best = i, a
			}
		}
		if best <= tol*scale {
			return nil, matrixErrorf(opLU, &SingularError{Step: k, Pivot: best})
		}
		// 3.2: swap rows k and p
		if p != k {
			for j = 0; j < n; j++ {
				f.lu[k*n+j], f.lu[p*n+j] = f.lu[p*n+j], f.lu[k*n+j]
			}
			f.piv[k], f.piv[p] = f.piv[p], f.piv[k]
		}
		// 3.3: eliminate below the pivot
		pivot = f.lu[k*n+k]
		for i = k + 1; i < n; i++ {
			factor = f.lu[i*n+k] / pivot
			f.lu[i*n+k] = factor
			if factor == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				f.lu[i*n+j] -= factor * f.lu[k*n+j]
			}
		}
	}

	return f, nil
}

// Dim returns the dimension of the factorised matrix.
func (f *LU) Dim() int { return f.n }

// Solve returns x with A·x = b.
// Complexity: O(n²).
func (f *LU) Solve(b []complex128) ([]complex128, error) {
	if len(b) != f.n {
		return nil, matrixErrorf(opSolve, ErrDimensionMismatch)
	}
	n := f.n
	x := make([]complex128, n)
	var (
		i, k int
		sum  complex128
	)
	// Forward substitution: L·y = P·b (unit diagonal)
	for i = 0; i < n; i++ {
		sum = b[f.piv[i]]
		for k = 0; k < i; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum
	}
	// Backward substitution: U·x = y
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum / f.lu[i*n+i]
	}

	return x, nil
}

// Inverse materialises A⁻¹ by solving against each identity column.
// Complexity: O(n³).
func (f *LU) Inverse() (*CDense, error) {
	n := f.n
	inv, err := NewCDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	e := make([]complex128, n)
	var col, i int
	for col = 0; col < n; col++ {
		for i = 0; i < n; i++ {
			e[i] = 0
		}
		e[col] = 1
		x, err := f.Solve(e)
		if err != nil {
			return nil, matrixErrorf(opInverse, err)
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// Solve is a convenience wrapper: factorise m with the default tolerance and solve m·x = b.
func Solve(m *CDense, b []complex128) ([]complex128, error) {
	f, err := Factorize(m, DefaultPivotTolerance)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return f.Solve(b)
}

// Inverse returns m⁻¹ using the default pivot tolerance.
func Inverse(m *CDense) (*CDense, error) {
	f, err := Factorize(m, DefaultPivotTolerance)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	return f.Inverse()
}
