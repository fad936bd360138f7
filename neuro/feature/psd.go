package feature

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-neuro/dsp/core"
	"github.com/cwbudde/algo-neuro/dsp/spectrum"
	"github.com/cwbudde/algo-neuro/dsp/window"
)

// Line-noise handling constants, inherited from the EEG artifact-labeling
// lineage of this extractor. Their validity for arbitrary sampling rates
// has not been re-derived.
const (
	// LineFreqLow and LineFreqHigh are the mains frequencies (Hz) checked
	// for notch-filter artifacts.
	LineFreqLow  = 50
	LineFreqHigh = 60
	// NotchThresholdDB is the margin by which both neighboring bins must
	// exceed the line bin before the line bin is treated as notched.
	NotchThresholdDB = 5.0
)

// dbFloor mirrors the -300 dB floor used elsewhere in the module for
// zero-power bins.
const dbFloor = -300

// componentPSD computes per-component Welch power spectra on a dB scale.
//
// Segments are one second long (Hann windowed, 50% overlap), drawn from
// each trial separately. The output always has NumPSDBins columns: bins
// cover 1..100 Hz; recordings whose Nyquist frequency is below 100 Hz are
// padded by repeating the highest valid bin.
func componentPSD(act [][]float64, sampleRate float64, points, trials int) ([][]float64, error) {
	segLen := int(math.Round(sampleRate))
	if segLen > points {
		segLen = points
	}
	if segLen < 2 {
		return nil, fmt.Errorf("recording too short for spectral estimation: %d points", points)
	}

	nfft := nextPowerOf2(segLen)
	df := sampleRate / float64(nfft)

	nfreqs := NumPSDBins
	if nyq := int(sampleRate / 2); nyq < nfreqs {
		nfreqs = nyq
	}
	if nfreqs < 1 {
		return nil, fmt.Errorf("sample rate too low for spectral estimation: %g", sampleRate)
	}

	coeffs, err := window.Generate(window.TypeHann, segLen, window.WithPeriodic())
	if err != nil {
		return nil, err
	}
	winGain := window.PowerGain(coeffs)

	plan, err := algofft.NewPlan64(nfft)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}

	hop := segLen / 2
	if hop < 1 {
		hop = 1
	}

	segTime := make([]complex128, nfft)
	segFreq := make([]complex128, nfft)
	power := make([]float64, nfft/2+1)

	out := make([][]float64, len(act))
	for ci, comp := range act {
		core.Zero(power)
		segments := 0

		for t := 0; t < trials; t++ {
			trial := comp[t*points : (t+1)*points]
			for start := 0; start == 0 || start+segLen <= len(trial); start += hop {
				end := start + segLen
				if end > len(trial) {
					end = len(trial)
				}
				for i := range segTime {
					segTime[i] = 0
				}
				for i, v := range trial[start:end] {
					segTime[i] = complex(v*coeffs[i], 0)
				}
				if err := plan.Forward(segFreq, segTime); err != nil {
					return nil, fmt.Errorf("forward FFT: %w", err)
				}
				spectrum.PowerInto(power, segFreq)
				segments++
				if end == len(trial) {
					break
				}
			}
		}

		// Average across segments and undo the window's power gain so
		// window choice does not bias the estimate.
		scale := 1 / (float64(segments) * winGain * float64(segLen))

		row := make([]float64, NumPSDBins)
		for f := 1; f <= nfreqs; f++ {
			idx := int(math.Round(float64(f) / df))
			if idx >= len(power) {
				idx = len(power) - 1
			}
			p := power[idx] * scale
			if p <= 1e-30 {
				row[f-1] = dbFloor
			} else {
				row[f-1] = core.LinearPowerToDB(p)
			}
		}
		// Pad short spectra by repeating the highest valid bin.
		for f := nfreqs; f < NumPSDBins; f++ {
			row[f] = row[nfreqs-1]
		}

		out[ci] = row
	}

	return out, nil
}

// correctLineNoise repairs notch-filter artifacts in place. For each line
// frequency, components whose neighboring bins both exceed the line bin by
// more than NotchThresholdDB get the line bin replaced with the mean of
// its neighbors.
func correctLineNoise(psd [][]float64) {
	for _, f := range [...]int{LineFreqLow, LineFreqHigh} {
		idx := f - 1 // bins start at 1 Hz
		for _, row := range psd {
			if idx < 1 || idx+1 >= len(row) {
				continue
			}
			lo, mid, hi := row[idx-1], row[idx], row[idx+1]
			if lo-mid > NotchThresholdDB && hi-mid > NotchThresholdDB {
				row[idx] = (lo + hi) / 2
			}
		}
	}
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
