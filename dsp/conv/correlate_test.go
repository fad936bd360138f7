package conv

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-neuro/internal/testutil"
)

func TestCorrelateKnown(t *testing.T) {
	// corr([1,2,3], [1,1]) at lags -1..2: [1, 3, 5, 3]
	out, err := Correlate([]float64{1, 2, 3}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out, []float64{1, 3, 5, 3}, 1e-12)
}

func TestCorrelateFFTMatches(t *testing.T) {
	a := testutil.DeterministicNoise(11, 1, 150)
	b := testutil.DeterministicNoise(12, 1, 90)

	want, err := Correlate(a, b)
	if err != nil {
		t.Fatal(err)
	}
	got, err := CorrelateFFT(a, b)
	if err != nil {
		t.Fatal(err)
	}

	diff, err := testutil.MaxAbsDiff(want, got)
	if err != nil {
		t.Fatal(err)
	}
	if diff > 1e-9 {
		t.Fatalf("time and FFT correlation differ by %v", diff)
	}
}

func TestCorrelateFindsShift(t *testing.T) {
	template := testutil.DeterministicSine(5, 100, 1, 40)
	sig := make([]float64, 160)
	const offset = 37
	copy(sig[offset:], template)

	corr, err := Correlate(sig, template)
	if err != nil {
		t.Fatal(err)
	}
	idx, _ := FindPeak(corr)
	if lag := LagFromIndex(idx, len(template)); lag != offset {
		t.Fatalf("recovered lag %d, want %d", lag, offset)
	}
}

func TestAutoCorrelateZeroLag(t *testing.T) {
	sig := testutil.DeterministicNoise(21, 1, 64)

	acf, err := AutoCorrelate(sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(acf) != 2*len(sig)-1 {
		t.Fatalf("length %d, want %d", len(acf), 2*len(sig)-1)
	}

	// Zero lag equals the signal energy and is the maximum.
	energy := 0.0
	for _, v := range sig {
		energy += v * v
	}
	zeroLag := acf[len(sig)-1]
	if math.Abs(zeroLag-energy) > 1e-9 {
		t.Fatalf("zero lag %v, want energy %v", zeroLag, energy)
	}
	for i, v := range acf {
		if v > zeroLag+1e-9 {
			t.Fatalf("lag index %d exceeds zero lag", i)
		}
	}
}

func TestAutoCorrelateNormalized(t *testing.T) {
	sig := testutil.DeterministicSine(10, 200, 1, 100)

	acf, err := AutoCorrelateNormalized(sig)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(acf[len(sig)-1]-1) > 1e-12 {
		t.Fatalf("normalized zero lag should be 1: %v", acf[len(sig)-1])
	}
	for i, v := range acf {
		if v > 1+1e-9 {
			t.Fatalf("lag index %d exceeds 1: %v", i, v)
		}
	}
}

func TestAutoCorrelateNormalizedZeroSignal(t *testing.T) {
	acf, err := AutoCorrelateNormalized(make([]float64, 16))
	if err != nil {
		t.Fatal(err)
	}
	// Zero signal stays zero rather than dividing by zero.
	for i, v := range acf {
		if v != 0 {
			t.Fatalf("index %d: got %v, want 0", i, v)
		}
	}
}

func TestFindPeakEmpty(t *testing.T) {
	idx, val := FindPeak(nil)
	if idx != -1 || !math.IsInf(val, -1) {
		t.Fatalf("got %d, %v", idx, val)
	}
}
