package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-neuro/dsp/window"
)

func ExampleGenerate() {
	coeffs, _ := window.Generate(window.TypeHann, 5)
	fmt.Printf("%.2f %.2f %.2f %.2f %.2f\n", coeffs[0], coeffs[1], coeffs[2], coeffs[3], coeffs[4])
	// Output:
	// 0.00 0.50 1.00 0.50 0.00
}

func ExampleApply() {
	samples := []float64{1, 1, 1}
	coeffs := []float64{0.5, 1, 0.5}
	out, _ := window.Apply(samples, coeffs)
	fmt.Println(out)
	// Output:
	// [0.5 1 0.5]
}
