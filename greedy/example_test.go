package greedy_test

import (
	"fmt"

	"github.com/katalvlaran/gwsur/align"
	"github.com/katalvlaran/gwsur/builder"
	"github.com/katalvlaran/gwsur/greedy"
)

// ExampleBuild compresses 51 synthetic waveforms into a reduced basis.
func ExampleBuild() {
	raw, _ := builder.BuildTrainingSet(1, 2, 51, 1)
	ts, _ := align.Align(raw, align.DefaultOptions())

	b, err := greedy.Build(ts, 1e-6, greedy.WithMaxBasis(40))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("seed:", b.Indices[0])
	fmt.Println("compressed:", b.Size() < ts.Len())
	fmt.Println("converged:", b.Residuals[b.Size()-1] < 1e-6)
	// Output:
	// seed: 0
	// compressed: true
	// converged: true
}
