package matrix_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/matrix"
)

func TestCDense_BoundsAndPolicy(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewCDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	m, err := matrix.NewCDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, complex(math.NaN(), 0)), matrix.ErrNaNInf)
	assert.ErrorIs(t, m.Set(0, 0, complex(0, math.Inf(1))), matrix.ErrNaNInf)

	require.NoError(t, m.Set(1, 0, 2+3i))
	c := m.Clone()
	require.NoError(t, m.Set(1, 0, 0))
	v, err := c.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2+3i, v, "clone must be independent")
}

func TestFromColumns(t *testing.T) {
	t.Parallel()

	m, err := matrix.FromColumns([][]complex128{{1, 2, 3}, {4i, 5i, 6i}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())

	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []complex128{2, 5i}, row)

	col, err := m.Col(1)
	require.NoError(t, err)
	assert.Equal(t, []complex128{4i, 5i, 6i}, col)

	_, err = matrix.FromColumns([][]complex128{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.FromColumns(nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestMul_DimensionMismatch(t *testing.T) {
	t.Parallel()

	a, _ := matrix.NewCDense(2, 3)
	b, _ := matrix.NewCDense(2, 3)
	_, err := matrix.Mul(a, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.MulVec(a, []complex128{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestDotIsConjugateLinear(t *testing.T) {
	t.Parallel()

	a := []complex128{1i, 2}
	b := []complex128{1, 1i}
	// conj(i)*1 + 2*i = -i + 2i = i
	assert.Equal(t, complex(0, 1), matrix.Dot(a, b))
	assert.InDelta(t, 5.0, real(matrix.Dot(a, a)), 1e-15)
	assert.InDelta(t, math.Sqrt(5), matrix.Norm(a), 1e-15)
	assert.Equal(t, 0.0, matrix.Norm(nil))
}

func TestNorm_NoOverflow(t *testing.T) {
	t.Parallel()

	big := []complex128{complex(1e300, 1e300), complex(1e300, 0)}
	assert.InDelta(t, math.Sqrt(3), matrix.Norm(big)/1e300, 1e-12)
}

func TestAxpyScaleArgMax(t *testing.T) {
	t.Parallel()

	y := []complex128{1, 1, 1}
	matrix.Axpy(2i, []complex128{1, 0, -1}, y)
	assert.Equal(t, []complex128{1 + 2i, 1, 1 - 2i}, y)

	matrix.ScaleVec(-1, y)
	assert.Equal(t, []complex128{-1 - 2i, -1, -1 + 2i}, y)

	idx, best := matrix.ArgMaxAbs(y, nil)
	assert.Equal(t, 0, idx, "ties resolve to the lowest index")
	assert.InDelta(t, cmplx.Abs(y[0]), best, 1e-15)

	idx, _ = matrix.ArgMaxAbs(y, func(i int) bool { return i == 0 })
	assert.Equal(t, 2, idx)

	idx, _ = matrix.ArgMaxAbs(y, func(int) bool { return true })
	assert.Equal(t, -1, idx)
}
