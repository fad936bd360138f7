package window

import (
	"math"
	"testing"
)

func TestGenerateLengths(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		for _, size := range []int{1, 2, 15, 64, 257} {
			coeffs, err := Generate(typ, size)
			if err != nil {
				t.Fatalf("%s size %d: %v", typ, size, err)
			}
			if len(coeffs) != size {
				t.Fatalf("%s size %d: got %d coefficients", typ, size, len(coeffs))
			}
		}
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	if _, err := Generate(TypeHann, 0); err == nil {
		t.Fatal("expected error for size 0")
	}
	if _, err := Generate(TypeHann, -3); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestGenerateUnknownType(t *testing.T) {
	if _, err := Generate(Type(99), 8); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestHannSymmetric(t *testing.T) {
	coeffs, err := Generate(TypeHann, 65)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(coeffs[0]) > 1e-15 || math.Abs(coeffs[64]) > 1e-15 {
		t.Fatalf("symmetric hann endpoints should be 0: %v %v", coeffs[0], coeffs[64])
	}
	if math.Abs(coeffs[32]-1) > 1e-15 {
		t.Fatalf("symmetric hann center should be 1: %v", coeffs[32])
	}
	for i := 0; i < 32; i++ {
		if math.Abs(coeffs[i]-coeffs[64-i]) > 1e-12 {
			t.Fatalf("hann not symmetric at %d", i)
		}
	}
}

func TestHannPeriodic(t *testing.T) {
	coeffs, err := Generate(TypeHann, 64, WithPeriodic())
	if err != nil {
		t.Fatal(err)
	}
	// Periodic hann of size N equals symmetric hann of size N+1 minus
	// its last value.
	sym, err := Generate(TypeHann, 65)
	if err != nil {
		t.Fatal(err)
	}
	for i := range coeffs {
		if math.Abs(coeffs[i]-sym[i]) > 1e-12 {
			t.Fatalf("periodic hann mismatch at %d: %v vs %v", i, coeffs[i], sym[i])
		}
	}
}

func TestApply(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{1, 0.5, 0.25, 0}

	out, err := Apply(samples, coeffs)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 1, 0.75, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
	// Input untouched.
	if samples[1] != 2 {
		t.Fatal("Apply must not modify its input")
	}
}

func TestApplyInPlace(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{2, 2, 2, 2}
	if err := ApplyInPlace(samples, coeffs); err != nil {
		t.Fatal(err)
	}
	want := []float64{2, 4, 6, 8}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, samples[i], want[i])
		}
	}
}

func TestApplyLengthMismatch(t *testing.T) {
	if _, err := Apply([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := ApplyInPlace([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestCoherentGain(t *testing.T) {
	rect, _ := Generate(TypeRectangular, 32)
	if g := CoherentGain(rect); math.Abs(g-1) > 1e-15 {
		t.Fatalf("rectangular coherent gain should be 1: %v", g)
	}

	hann, _ := Generate(TypeHann, 1024, WithPeriodic())
	if g := CoherentGain(hann); math.Abs(g-0.5) > 1e-12 {
		t.Fatalf("periodic hann coherent gain should be 0.5: %v", g)
	}
}

func TestPowerGain(t *testing.T) {
	rect, _ := Generate(TypeRectangular, 32)
	if g := PowerGain(rect); math.Abs(g-1) > 1e-15 {
		t.Fatalf("rectangular power gain should be 1: %v", g)
	}

	// Periodic hann power gain is 3/8.
	hann, _ := Generate(TypeHann, 1024, WithPeriodic())
	if g := PowerGain(hann); math.Abs(g-0.375) > 1e-12 {
		t.Fatalf("periodic hann power gain should be 0.375: %v", g)
	}
}
