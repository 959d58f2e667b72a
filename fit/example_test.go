package fit_test

import (
	"fmt"

	"github.com/katalvlaran/gwsur/fit"
)

// ExamplePolyfit fits a line in the mapped parameter.
func ExamplePolyfit() {
	x := []float64{-1, 0, 1}
	y := []float64{1, 3, 5}
	p, err := fit.Polyfit(x, y, 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.1f + %.1f·x\n", p.Coeffs[0], p.Coeffs[1])
	// Output:
	// 3.0 + 2.0·x
}
