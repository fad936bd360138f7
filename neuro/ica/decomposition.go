package ica

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Decomposition is a linear unmixing of a channel subset into component
// activations.
//
// Either Weights (components x len(Channels)) or Activations
// (components x (points*trials)) must be set. When both are present,
// Activations takes precedence and must match the weights layout.
type Decomposition struct {
	// Weights is the unmixing matrix applied to the channels listed in
	// Channels.
	Weights [][]float64
	// Channels lists the recording channels included in the unmixing. An
	// empty slice means all channels (only valid together with
	// precomputed Activations or matching Weights width).
	Channels []int
	// Activations is the precomputed component activation matrix. Left
	// nil, activations are derived from Weights on demand.
	Activations [][]float64
}

// NewDecomposition builds a weights-based decomposition. channels lists
// the recording channels the weight columns refer to.
func NewDecomposition(weights [][]float64, channels []int) (*Decomposition, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyDecomposition
	}
	width := len(weights[0])
	if width == 0 {
		return nil, ErrEmptyDecomposition
	}
	for _, row := range weights {
		if len(row) != width {
			return nil, ErrRaggedMatrix
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InputError{reason: "decomposition weights must be finite"}
			}
		}
	}
	if len(channels) != width {
		return nil, &InputError{reason: fmt.Sprintf("weights width %d does not match %d channels", width, len(channels))}
	}
	return &Decomposition{Weights: weights, Channels: channels}, nil
}

// NewDecompositionFromActivations builds a decomposition from precomputed
// component activations (components x (points*trials)).
func NewDecompositionFromActivations(act [][]float64) (*Decomposition, error) {
	if len(act) == 0 || len(act[0]) == 0 {
		return nil, ErrEmptyDecomposition
	}
	width := len(act[0])
	for _, row := range act {
		if len(row) != width {
			return nil, ErrRaggedMatrix
		}
	}
	return &Decomposition{Activations: act}, nil
}

// DecompositionFromComplex builds a decomposition from a complex-valued
// activation matrix. Any nonzero imaginary part fails with
// [ErrComplexDecomposition]: downstream feature extraction is defined for
// real-valued activations only.
func DecompositionFromComplex(act [][]complex128) (*Decomposition, error) {
	if len(act) == 0 || len(act[0]) == 0 {
		return nil, ErrEmptyDecomposition
	}
	width := len(act[0])
	real2D := make([][]float64, len(act))
	for i, row := range act {
		if len(row) != width {
			return nil, ErrRaggedMatrix
		}
		dst := make([]float64, width)
		for j, c := range row {
			if imag(c) != 0 {
				return nil, ErrComplexDecomposition
			}
			dst[j] = real(c)
		}
		real2D[i] = dst
	}
	return &Decomposition{Activations: real2D}, nil
}

// NumComponents returns the component count.
func (d *Decomposition) NumComponents() int {
	if len(d.Activations) > 0 {
		return len(d.Activations)
	}
	return len(d.Weights)
}

// validateAgainst checks shape consistency with the owning recording.
func (d *Decomposition) validateAgainst(rec *Recording) error {
	cols := rec.Points * rec.Trials

	if len(d.Activations) > 0 {
		for _, row := range d.Activations {
			if len(row) != cols {
				return ErrShapeMismatch
			}
		}
		return nil
	}

	if len(d.Weights) == 0 {
		return ErrEmptyDecomposition
	}
	for _, ch := range d.Channels {
		if ch < 0 || ch >= len(rec.Data) {
			return &InputError{reason: fmt.Sprintf("decomposition channel %d out of range", ch)}
		}
	}
	return nil
}

// ComponentActivations derives the component activation matrix for rec.
// Precomputed activations are returned as a deep copy so callers can
// modify the result freely; weights-based decompositions compute
// act = Weights x Data[Channels].
func (d *Decomposition) ComponentActivations(rec *Recording) ([][]float64, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	cols := rec.Points * rec.Trials

	if len(d.Activations) > 0 {
		out := make([][]float64, len(d.Activations))
		for i, row := range d.Activations {
			dst := make([]float64, len(row))
			copy(dst, row)
			out[i] = dst
		}
		return out, nil
	}

	tmp := make([]float64, cols)
	out := make([][]float64, len(d.Weights))
	for i, wrow := range d.Weights {
		acc := make([]float64, cols)
		for j, ch := range d.Channels {
			vecmath.ScaleBlock(tmp, rec.Data[ch], wrow[j])
			vecmath.AddBlockInPlace(acc, tmp)
		}
		out[i] = acc
	}
	return out, nil
}
