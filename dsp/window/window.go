// Package window provides window functions for spectral estimation.
//
// The set is intentionally small: it covers the windows used by the
// PSD and autocorrelation estimators in this module. Coefficients are
// generated on demand; Apply multiplies a sample block by a coefficient
// block using SIMD-accelerated vector kernels.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// String returns the canonical window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("window.Type(%d)", int(t))
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns the coefficients of the given window type.
func Generate(t Type, size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, size)
	if size == 1 {
		out[0] = 1
		return out, nil
	}

	// Symmetric windows divide by size-1, periodic by size.
	denom := float64(size - 1)
	if cfg.periodic {
		denom = float64(size)
	}

	switch t {
	case TypeRectangular:
		for i := range out {
			out[i] = 1
		}
	case TypeHann:
		for i := range out {
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case TypeHamming:
		for i := range out {
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case TypeBlackman:
		for i := range out {
			x := 2 * math.Pi * float64(i) / denom
			out[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}
	default:
		return nil, errUnknownType(t)
	}

	return out, nil
}

// Apply multiplies samples by coeffs element-wise into a new slice.
func Apply(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}
	if len(samples) == 0 {
		return nil, errEmptyCoeffs
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)
	return out, nil
}

// ApplyInPlace multiplies samples by coeffs element-wise in place.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	if len(samples) == 0 {
		return errEmptyCoeffs
	}

	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// CoherentGain returns the mean of the coefficients. A window's coherent
// gain is the factor by which it attenuates a coherent (DC) signal.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	return vecmath.Sum(coeffs) / float64(len(coeffs))
}

// PowerGain returns the mean of the squared coefficients, used to scale
// power spectra so that window choice does not bias power estimates.
func PowerGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c * c
	}
	return sum / float64(len(coeffs))
}
