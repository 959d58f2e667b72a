// SPDX-License-Identifier: MIT
// Package matrix: products and complex vector kernels.
//
// Inner products are conjugate-linear in the first argument:
// Dot(a, b) = Σ conj(a_i)·b_i, so Dot(a, a) = ‖a‖².

package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Mul returns a×b.
// Complexity: O(r*n*c) with an i→k→j loop order (row-major friendly).
func Mul(a, b *CDense) (*CDense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opMul, fmt.Errorf("%dx%d × %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch))
	}
	res, err := NewCDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, k, j int
		aik     complex128
		rowA    []complex128
		rowB    []complex128
		rowR    []complex128
	)
	for i = 0; i < a.r; i++ {
		rowA = a.data[i*a.c : (i+1)*a.c]
		rowR = res.data[i*res.c : (i+1)*res.c]
		for k = 0; k < a.c; k++ {
			aik = rowA[k]
			if aik == 0 {
				continue
			}
			rowB = b.data[k*b.c : (k+1)*b.c]
			for j = 0; j < b.c; j++ {
				rowR[j] += aik * rowB[j]
			}
		}
	}

	return res, nil
}

// MulVec returns y = m·x.
// Complexity: O(r*c).
func MulVec(m *CDense, x []complex128) ([]complex128, error) {
	if m == nil {
		return nil, matrixErrorf(opMulVec, ErrNilMatrix)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opMulVec, ErrDimensionMismatch)
	}
	y := make([]complex128, m.r)
	var (
		i, j int
		sum  complex128
	)
	for i = 0; i < m.r; i++ {
		sum = 0
		for j = 0; j < m.c; j++ {
			sum += m.data[i*m.c+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// Dot returns Σ conj(a_i)·b_i. Vectors must have equal length (caller contract;
// the shorter length is used otherwise).
func Dot(a, b []complex128) complex128 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum complex128
	for i := 0; i < n; i++ {
		sum += cmplx.Conj(a[i]) * b[i]
	}

	return sum
}

// Norm returns the Euclidean norm ‖a‖ with scaling to avoid overflow.
func Norm(a []complex128) float64 {
	var scale, ssq float64 = 0, 1
	var v, r float64
	for _, z := range a {
		for _, v = range [2]float64{real(z), imag(z)} {
			if v == 0 {
				continue
			}
			v = math.Abs(v)
			if scale < v {
				r = scale / v
				ssq = 1 + ssq*r*r
				scale = v
			} else {
				r = v / scale
				ssq += r * r
			}
		}
	}

	return scale * math.Sqrt(ssq)
}

// Axpy performs y += alpha·x in place.
func Axpy(alpha complex128, x, y []complex128) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}

// ScaleVec performs x *= alpha in place.
func ScaleVec(alpha complex128, x []complex128) {
	for i := range x {
		x[i] *= alpha
	}
}

// ArgMaxAbs returns the first index holding the largest modulus, skipping
// indices for which skip(i) reports true (skip may be nil). Returns -1 when no
// index qualifies.
func ArgMaxAbs(x []complex128, skip func(int) bool) (int, float64) {
	best, bestIdx := -1.0, -1
	var a float64
	for i, z := range x {
		if skip != nil && skip(i) {
			continue
		}
		if a = cmplx.Abs(z); a > best {
			best, bestIdx = a, i
		}
	}

	return bestIdx, best
}
