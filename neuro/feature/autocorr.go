package feature

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-neuro/dsp/conv"
	"github.com/cwbudde/algo-neuro/dsp/interp"
)

// Estimator identifies an autocorrelation estimation strategy. The set is
// closed: the estimator is picked by [ChooseEstimator] from the recording
// shape, never by runtime type inspection.
type Estimator int

const (
	// EstimatorNone means autocorrelation features were not computed.
	EstimatorNone Estimator = iota
	// EstimatorDirect computes lag products over the whole single trial.
	// Used for single-trial recordings of at most five seconds.
	EstimatorDirect
	// EstimatorWelch averages autocorrelations over three-second
	// segments. Used for single-trial recordings longer than five
	// seconds.
	EstimatorWelch
	// EstimatorMultiTrial averages per-trial autocorrelations. Used
	// whenever the recording has more than one trial.
	EstimatorMultiTrial
)

// String returns the canonical estimator name.
func (e Estimator) String() string {
	switch e {
	case EstimatorNone:
		return "none"
	case EstimatorDirect:
		return "direct"
	case EstimatorWelch:
		return "welch"
	case EstimatorMultiTrial:
		return "multi-trial"
	default:
		return fmt.Sprintf("feature.Estimator(%d)", int(e))
	}
}

// welchSegmentSeconds is the segment length of the Welch estimator.
const welchSegmentSeconds = 3

// directCutoffSeconds separates the direct from the Welch estimator for
// single-trial recordings.
const directCutoffSeconds = 5.0

// ChooseEstimator selects the autocorrelation strategy from the trial
// count and the trial duration in seconds.
func ChooseEstimator(trials int, duration float64) Estimator {
	if trials > 1 {
		return EstimatorMultiTrial
	}
	if duration > directCutoffSeconds {
		return EstimatorWelch
	}
	return EstimatorDirect
}

// autocorrFeatures computes NumAutocorrBins features per component: the
// normalized autocorrelation over lags up to one second, resampled to a
// fixed width. Trials shorter than one second zero-pad the missing lags.
func autocorrFeatures(est Estimator, act [][]float64, sampleRate float64, points, trials int) ([][]float64, error) {
	maxLag := int(math.Round(sampleRate))
	if maxLag < 1 {
		return nil, fmt.Errorf("sample rate too low: %g", sampleRate)
	}

	out := make([][]float64, len(act))
	for ci, comp := range act {
		var (
			acc []float64
			err error
		)
		switch est {
		case EstimatorDirect:
			acc, err = accumulatedLags(comp[:points], points)
		case EstimatorWelch:
			acc, err = welchLags(comp[:points], sampleRate)
		case EstimatorMultiTrial:
			acc, err = multiTrialLags(comp, points, trials)
		default:
			return nil, fmt.Errorf("unsupported estimator: %s", est)
		}
		if err != nil {
			return nil, err
		}

		row, err := lagFeatures(acc, maxLag)
		if err != nil {
			return nil, err
		}
		out[ci] = row
	}
	return out, nil
}

// accumulatedLags returns the non-negative-lag autocorrelation of x,
// truncated or padded to n lags (lag 0 included).
func accumulatedLags(x []float64, n int) ([]float64, error) {
	full, err := conv.AutoCorrelate(x)
	if err != nil {
		return nil, err
	}
	// Zero lag sits at index len(x)-1 of the full correlation.
	nonNeg := full[len(x)-1:]

	acc := make([]float64, n)
	copy(acc, nonNeg)
	return acc, nil
}

// welchLags averages segment autocorrelations over three-second windows
// with 50% overlap. Summing unnormalized lags and normalizing once at the
// end weighs every segment equally.
func welchLags(x []float64, sampleRate float64) ([]float64, error) {
	segLen := int(math.Round(sampleRate)) * welchSegmentSeconds
	if segLen > len(x) {
		segLen = len(x)
	}
	if segLen < 2 {
		return nil, fmt.Errorf("trial too short for welch autocorrelation: %d points", len(x))
	}

	hop := segLen / 2
	acc := make([]float64, segLen)

	for start := 0; start+segLen <= len(x); start += hop {
		seg, err := accumulatedLags(x[start:start+segLen], segLen)
		if err != nil {
			return nil, err
		}
		for i, v := range seg {
			acc[i] += v
		}
	}
	return acc, nil
}

// multiTrialLags sums per-trial autocorrelations across all trials.
func multiTrialLags(comp []float64, points, trials int) ([]float64, error) {
	acc := make([]float64, points)
	for t := 0; t < trials; t++ {
		trial, err := accumulatedLags(comp[t*points:(t+1)*points], points)
		if err != nil {
			return nil, err
		}
		for i, v := range trial {
			acc[i] += v
		}
	}
	return acc, nil
}

// lagFeatures normalizes an accumulated lag curve by its zero lag, pads
// or truncates to maxLag lags, drops lag zero, and resamples to
// NumAutocorrBins points.
func lagFeatures(acc []float64, maxLag int) ([]float64, error) {
	curve := make([]float64, maxLag+1)
	copy(curve, acc)

	if z := curve[0]; z != 0 {
		for i := range curve {
			curve[i] /= z
		}
	}

	return interp.ResampleLinear(curve[1:], NumAutocorrBins)
}
