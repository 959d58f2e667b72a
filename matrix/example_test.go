package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/gwsur/matrix"
)

// ExampleSolve solves a 2×2 complex system that needs a row swap.
func ExampleSolve() {
	a, _ := matrix.FromColumns([][]complex128{
		{0, 1}, // column 0
		{2, 1}, // column 1
	})
	x, err := matrix.Solve(a, []complex128{4, 3})
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Printf("x = %.1f, %.1f\n", real(x[0]), real(x[1]))
	// Output:
	// x = 1.0, 2.0
}
