package ica

// InputError reports a recording or decomposition that violates the
// extractor's preconditions. All validation failures in this package are
// of this type, so callers can match with errors.As or compare against
// the exported sentinel values with errors.Is.
type InputError struct {
	reason string
}

func (e *InputError) Error() string {
	return "ica: invalid input: " + e.reason
}

// Sentinel validation failures.
var (
	ErrMissingDecomposition = &InputError{reason: "recording has no decomposition"}
	ErrComplexDecomposition = &InputError{reason: "decomposition must be real-valued"}
	ErrEmptyDecomposition   = &InputError{reason: "decomposition must not be empty"}
	ErrRaggedMatrix         = &InputError{reason: "matrix rows must have equal length"}
	ErrShapeMismatch        = &InputError{reason: "decomposition shape does not match recording"}
)
