package greedy_test

import (
	"testing"

	"github.com/katalvlaran/gwsur/greedy"
)

func BenchmarkBuild_201(b *testing.B) {
	ts := alignedSet(b, 201)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := greedy.Build(ts, 1e-8); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuild_201_SingleWorker(b *testing.B) {
	ts := alignedSet(b, 201)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := greedy.Build(ts, 1e-8, greedy.WithWorkers(1)); err != nil {
			b.Fatal(err)
		}
	}
}
