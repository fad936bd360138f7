package core

// EnsureLen returns a slice of length n, reusing buf's capacity when it
// suffices. Contents are unspecified; callers that need a clean slate
// follow up with [Zero].
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero clears buf in place.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
