// Package feature extracts fixed-length numeric descriptors from the
// independent components of a recording.
//
// Each component yields 100 power-spectral-density features (1..100 Hz,
// dB scale, notch-corrected and per-component normalized) and, when
// requested, 100 autocorrelation features (lags up to one second,
// resampled). The full feature block is damped by a constant factor of
// 0.99 so no value saturates a downstream classifier.
package feature

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-neuro/neuro/ica"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// NumPSDBins is the number of spectral feature bins per component.
	NumPSDBins = 100
	// NumAutocorrBins is the number of autocorrelation feature bins per
	// component.
	NumAutocorrBins = 100

	// dampingFactor bounds every output value away from +/-1.
	dampingFactor = 0.99
)

// Option configures feature extraction.
type Option func(*config)

type config struct {
	autocorr bool
}

// WithAutocorrelation appends autocorrelation features to the spectral
// block, doubling the output width.
func WithAutocorrelation() Option {
	return func(c *config) {
		c.autocorr = true
	}
}

// Result holds the extracted feature matrix and how it was produced.
type Result struct {
	// Features is components x NumPSDBins, or
	// components x (NumPSDBins + NumAutocorrBins) when autocorrelation
	// was requested.
	Features *mat.Dense
	// Estimator reports which autocorrelation estimator ran;
	// EstimatorNone when autocorrelation was not requested.
	Estimator Estimator
}

// Extract computes the feature matrix for every component of rec.
//
// The recording must carry a valid real-valued decomposition; failures
// satisfy errors.As with *ica.InputError. The input recording is never
// modified: a non-average reference is re-referenced on a derived copy
// before activations are computed.
func Extract(rec *ica.Recording, opts ...Option) (*Result, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	work := rec
	if rec.Reference != ica.RefAverage {
		ref, err := ica.AverageReference(rec)
		if err != nil {
			return nil, err
		}
		work = ref
	}

	act, err := work.Decomp.ComponentActivations(work)
	if err != nil {
		return nil, err
	}

	psd, err := componentPSD(act, work.SampleRate, work.Points, work.Trials)
	if err != nil {
		return nil, fmt.Errorf("feature: psd: %w", err)
	}

	correctLineNoise(psd)
	normalizeRows(psd)

	width := NumPSDBins
	est := EstimatorNone

	var acf [][]float64
	if cfg.autocorr {
		est = ChooseEstimator(work.Trials, work.Duration())
		acf, err = autocorrFeatures(est, act, work.SampleRate, work.Points, work.Trials)
		if err != nil {
			return nil, fmt.Errorf("feature: autocorrelation: %w", err)
		}
		width += NumAutocorrBins
	}

	out := mat.NewDense(len(act), width, nil)
	for i := range act {
		out.SetRow(i, assembleRow(psd[i], acf, i, width))
	}

	// Damp everything in one pass over the backing array.
	raw := out.RawMatrix()
	vecmath.ScaleBlockInPlace(raw.Data, dampingFactor)

	return &Result{Features: out, Estimator: est}, nil
}

func assembleRow(psd []float64, acf [][]float64, i, width int) []float64 {
	row := make([]float64, width)
	copy(row, psd)
	if acf != nil {
		copy(row[NumPSDBins:], acf[i])
	}
	return row
}

// normalizeRows divides each row by its maximum absolute value so every
// row is bounded in [-1, 1]. All-zero rows are left untouched.
func normalizeRows(rows [][]float64) {
	for _, row := range rows {
		maxAbs := vecmath.MaxAbs(row)
		if maxAbs == 0 {
			continue
		}
		vecmath.ScaleBlockInPlace(row, 1/maxAbs)
	}
}
