// Package ica models multichannel recordings carrying an independent
// component decomposition.
//
// A Recording holds per-channel sample data (trials flattened in time-major
// order) together with its sampling rate and reference scheme. A
// Decomposition is the linear unmixing of a channel subset into component
// activations. Both types are treated as immutable by the rest of the
// module: operations that would mutate a recording (re-referencing,
// activation computation) return derived values instead.
package ica

import "fmt"

// Reference identifies the recording reference scheme.
type Reference int

const (
	// RefCommon is a common (single electrode) reference.
	RefCommon Reference = iota
	// RefAverage is the average reference across channels.
	RefAverage
)

// String returns the canonical reference name.
func (r Reference) String() string {
	switch r {
	case RefCommon:
		return "common"
	case RefAverage:
		return "average"
	default:
		return fmt.Sprintf("ica.Reference(%d)", int(r))
	}
}

// Recording is one multichannel recording session.
//
// Data is channels x (points*trials): Data[ch][trial*Points+i] is sample i
// of the given trial on channel ch.
type Recording struct {
	SampleRate float64
	Points     int // time points per trial
	Trials     int
	Reference  Reference
	Data       [][]float64
	Decomp     *Decomposition
}

// Channels returns the channel count.
func (r *Recording) Channels() int {
	return len(r.Data)
}

// Duration returns the length of one trial in seconds.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(r.Points) / r.SampleRate
}

// Validate checks the extractor preconditions: the recording must carry a
// decomposition, and data dimensions must be consistent. All failures are
// of type [InputError].
func (r *Recording) Validate() error {
	if r.Decomp == nil {
		return ErrMissingDecomposition
	}
	if r.SampleRate <= 0 {
		return &InputError{reason: fmt.Sprintf("sample rate must be > 0: %g", r.SampleRate)}
	}
	if r.Points <= 0 || r.Trials <= 0 {
		return &InputError{reason: fmt.Sprintf("points and trials must be > 0: %d, %d", r.Points, r.Trials)}
	}

	cols := r.Points * r.Trials
	for _, row := range r.Data {
		if len(row) != cols {
			return ErrRaggedMatrix
		}
	}

	return r.Decomp.validateAgainst(r)
}

// Activations returns the component activation matrix of the recording's
// decomposition, components x (points*trials). See
// [Decomposition.ComponentActivations] for the derivation rules.
func (r *Recording) Activations() ([][]float64, error) {
	if r.Decomp == nil {
		return nil, ErrMissingDecomposition
	}
	return r.Decomp.ComponentActivations(r)
}

// TrialActivation returns the samples of one trial of one component.
func (r *Recording) TrialActivation(component, trial int) ([]float64, error) {
	if trial < 0 || trial >= r.Trials {
		return nil, &InputError{reason: fmt.Sprintf("trial %d out of range", trial)}
	}
	act, err := r.Activations()
	if err != nil {
		return nil, err
	}
	if component < 0 || component >= len(act) {
		return nil, &InputError{reason: fmt.Sprintf("component %d out of range", component)}
	}
	return act[component][trial*r.Points : (trial+1)*r.Points], nil
}

// AverageReference returns a copy of rec re-referenced to the average of
// the channels included in the decomposition. Channels outside the
// decomposition (e.g. EOG channels excluded from the unmixing) neither
// contribute to nor receive the subtracted mean.
//
// If rec is already average-referenced, the same pointer is returned.
func AverageReference(rec *Recording) (*Recording, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.Reference == RefAverage {
		return rec, nil
	}

	included := rec.Decomp.Channels
	if len(included) == 0 {
		included = make([]int, len(rec.Data))
		for i := range included {
			included[i] = i
		}
	}

	cols := rec.Points * rec.Trials
	mean := make([]float64, cols)
	for _, ch := range included {
		for i, v := range rec.Data[ch] {
			mean[i] += v
		}
	}
	scale := 1 / float64(len(included))
	for i := range mean {
		mean[i] *= scale
	}

	out := &Recording{
		SampleRate: rec.SampleRate,
		Points:     rec.Points,
		Trials:     rec.Trials,
		Reference:  RefAverage,
		Data:       make([][]float64, len(rec.Data)),
		Decomp:     rec.Decomp,
	}

	inDecomp := make(map[int]bool, len(included))
	for _, ch := range included {
		inDecomp[ch] = true
	}

	for ch, row := range rec.Data {
		dst := make([]float64, cols)
		if inDecomp[ch] {
			for i, v := range row {
				dst[i] = v - mean[i]
			}
		} else {
			copy(dst, row)
		}
		out.Data[ch] = dst
	}

	return out, nil
}
