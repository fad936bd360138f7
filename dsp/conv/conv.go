// Package conv provides convolution and correlation routines.
//
// For one-shot use:
//
//	result, err := conv.Convolve(signal, kernel)  // auto-selects direct vs FFT
//	result, err := conv.Correlate(a, b)           // cross-correlation
//	acf, err := conv.AutoCorrelateNormalized(x)   // periodicity analysis
//
// Direct convolution is O(N*M) and wins for short kernels; FFT-based
// convolution wins beyond roughly 64 kernel samples.
package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution and correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// directThreshold is the kernel length above which FFT convolution wins.
const directThreshold = 64

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated
// destination. dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	// Vectorized path scales the kernel by each input sample and
	// accumulates it at the output offset.
	const simdThreshold = 4
	if len(b) >= simdThreshold {
		temp := make([]float64, len(b))
		for i, s := range a {
			vecmath.ScaleBlock(temp, b, s)
			vecmath.AddBlockInPlace(dst[i:i+len(b)], temp)
		}
		return
	}

	for i := range a {
		for j := range b {
			dst[i+j] += a[i] * b[j]
		}
	}
}

// Convolve performs linear convolution, selecting direct or FFT based on
// kernel length.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	if len(b) < directThreshold {
		return Direct(a, b)
	}
	return ConvolveFFT(a, b)
}

// ConvolveFFT performs linear convolution via the frequency domain.
func ConvolveFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	outputLen := len(a) + len(b) - 1
	fftSize := nextPowerOf2(outputLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)

	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= bFreq[i]
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	result := make([]float64, outputLen)
	for i := range result {
		result[i] = real(resultTime[i])
	}
	return result, nil
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
