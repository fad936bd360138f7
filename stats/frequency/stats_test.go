package frequency

import (
	"math"
	"testing"
)

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, 48000)
	if s.BinCount != 0 {
		t.Fatalf("%+v", s)
	}
}

func TestCalculateSingleBin(t *testing.T) {
	s := Calculate([]float64{2}, 48000)
	if s.BinCount != 1 || s.DC != 2 || s.Energy != 4 {
		t.Fatalf("%+v", s)
	}
}

func TestCalculateBasics(t *testing.T) {
	mag := []float64{0, 1, 4, 1, 0}
	s := Calculate(mag, 8) // bins at 0, 1, 2, 3, 4 Hz

	if s.BinCount != 5 {
		t.Fatalf("bin count %d", s.BinCount)
	}
	if s.Max != 4 || s.MaxBin != 2 {
		t.Fatalf("max %v at %d", s.Max, s.MaxBin)
	}
	if s.Sum != 6 {
		t.Fatalf("sum %v", s.Sum)
	}
	if math.Abs(s.Energy-18) > 1e-12 {
		t.Fatalf("energy %v", s.Energy)
	}
	// Symmetric spectrum around 2 Hz.
	if math.Abs(s.Centroid-2) > 1e-12 {
		t.Fatalf("centroid %v", s.Centroid)
	}
}

func TestCentroidSinglePeak(t *testing.T) {
	mag := make([]float64, 9) // bins 0..8 span 0..4 Hz at 8 Hz rate
	mag[4] = 1
	if c := Centroid(mag, 8); math.Abs(c-2) > 1e-12 {
		t.Fatalf("centroid %v, want 2", c)
	}
}

func TestSpreadZeroForSinglePeak(t *testing.T) {
	mag := make([]float64, 9)
	mag[4] = 1
	s := Calculate(mag, 8)
	if math.Abs(s.Spread) > 1e-12 {
		t.Fatalf("spread %v, want 0", s.Spread)
	}
}

func TestFlatness(t *testing.T) {
	// Flat spectrum (excluding DC) has flatness 1.
	mag := []float64{0, 2, 2, 2, 2}
	if f := Flatness(mag); math.Abs(f-1) > 1e-12 {
		t.Fatalf("flatness %v, want 1", f)
	}

	// A zero bin collapses the geometric mean.
	mag = []float64{0, 2, 0, 2, 2}
	if f := Flatness(mag); f != 0 {
		t.Fatalf("flatness %v, want 0", f)
	}
}

func TestRolloff(t *testing.T) {
	// All energy in one bin: rolloff lands on that bin.
	mag := make([]float64, 9)
	mag[6] = 1
	if r := Rolloff(mag, 16, 0.85); math.Abs(r-6) > 1e-12 {
		t.Fatalf("rolloff %v, want 6", r)
	}
}

func TestCalculateFromComplex(t *testing.T) {
	bins := []complex128{1, 0 + 1i, -2}
	s := CalculateFromComplex(bins, 4)
	if s.Max != 2 || s.MaxBin != 2 {
		t.Fatalf("%+v", s)
	}
}
