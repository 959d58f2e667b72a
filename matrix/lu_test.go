// Package matrix_test contains unit tests for the pivoted LU kernels.
package matrix_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/matrix"
)

// mustFromRows builds a CDense from row slices or fails the test.
func mustFromRows(t *testing.T, rows [][]complex128) *matrix.CDense {
	t.Helper()
	m, err := matrix.NewCDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			require.NoError(t, m.Set(i, j, v))
		}
	}

	return m
}

func TestSolve_KnownSystem(t *testing.T) {
	t.Parallel()

	// Zero leading entry forces a row swap.
	a := mustFromRows(t, [][]complex128{
		{0, 2, 1i},
		{1, 1, 0},
		{2 + 1i, 0, 3},
	})
	want := []complex128{1, -2i, 3 + 1i}
	b, err := matrix.MulVec(a, want)
	require.NoError(t, err)

	got, err := matrix.Solve(a, b)
	require.NoError(t, err)
	for i := range want {
		assert.InDelta(t, 0, cmplx.Abs(got[i]-want[i]), 1e-12, "x[%d]", i)
	}
}

func TestFactorize_Singular(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]complex128{
		{1, 2},
		{2, 4},
	})
	_, err := matrix.Factorize(a, -1)
	assert.ErrorIs(t, err, matrix.ErrSingular)
	var se *matrix.SingularError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Step)
	assert.Less(t, se.Pivot, 1e-12)

	zero, err := matrix.NewCDense(3, 3)
	require.NoError(t, err)
	_, err = matrix.Factorize(zero, -1)
	assert.ErrorIs(t, err, matrix.ErrSingular)
}

func TestFactorize_NonSquare(t *testing.T) {
	t.Parallel()

	a, err := matrix.NewCDense(2, 3)
	require.NoError(t, err)
	_, err = matrix.Factorize(a, -1)
	assert.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = matrix.Factorize(nil, -1)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestInverse_TimesOriginalIsIdentity(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]complex128{
		{4, 1i, 0, 1},
		{-1i, 3, 2, 0},
		{0, 2, 5, 1 + 1i},
		{1, 0, 1 - 1i, 2},
	})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)

	prod, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	var i, j int
	for i = 0; i < 4; i++ {
		for j = 0; j < 4; j++ {
			v, err := prod.At(i, j)
			require.NoError(t, err)
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(v-want), 1e-12, "[%d,%d]", i, j)
		}
	}
}

func TestLU_SolveLengthMismatch(t *testing.T) {
	t.Parallel()

	I, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	f, err := matrix.Factorize(I, -1)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Dim())

	_, err = f.Solve([]complex128{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
