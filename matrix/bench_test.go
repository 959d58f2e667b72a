// Package matrix_test provides benchmarks for the complex kernels,
// using deterministic random fill.
package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/gwsur/matrix"
)

// benchSizes cover typical basis sizes.
var benchSizes = []int{16, 64, 128}

// sinks to defeat dead-code elimination
var (
	sinkM *matrix.CDense
	sinkV []complex128
)

func randDense(b *testing.B, rows, cols int, seed int64) *matrix.CDense {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewCDense(rows, cols)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := complex(rng.NormFloat64(), rng.NormFloat64())
			if i == j {
				v += complex(float64(rows), 0) // keep it well conditioned
			}
			if err := m.Set(i, j, v); err != nil {
				b.Fatal(err)
			}
		}
	}

	return m
}

func BenchmarkInverse(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			a := randDense(b, n, n, 1337)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				inv, err := matrix.Inverse(a)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = inv
			}
		})
	}
}

func BenchmarkMulVec(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("L=2000,n=%d", n), func(b *testing.B) {
			a := randDense(b, 2000, n, 4242)
			x := make([]complex128, n)
			for i := range x {
				x[i] = complex(float64(i), 1)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				v, err := matrix.MulVec(a, x)
				if err != nil {
					b.Fatal(err)
				}
				sinkV = v
			}
		})
	}
}
