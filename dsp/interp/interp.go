// Package interp provides interpolation and resampling helpers.
package interp

import "fmt"

// Lerp linearly interpolates between a and b at fraction t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// ResampleLinear resamples src to exactly n points using linear
// interpolation. The first and last samples of src map to the first and
// last output points.
func ResampleLinear(src []float64, n int) ([]float64, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("interp: empty input")
	}
	if n <= 0 {
		return nil, fmt.Errorf("interp: output length must be > 0: %d", n)
	}

	out := make([]float64, n)
	if len(src) == 1 || n == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out, nil
	}

	step := float64(len(src)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		out[i] = Lerp(src[idx], src[idx+1], pos-float64(idx))
	}
	return out, nil
}
