package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-neuro/dsp/core"
)

func TestSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(100))
	out, err := g.Sine(25, 1, 8)
	if err != nil {
		t.Fatal(err)
	}
	// 25 Hz at 100 Hz sample rate: 0, 1, 0, -1, ...
	want := []float64{0, 1, 0, -1, 0, 1, 0, -1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestSineInvalid(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(100, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(9))
	g2 := NewGeneratorWithOptions(nil, WithSeed(9))

	a, err := g1.WhiteNoise(0.5, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g2.WhiteNoise(0.5, 64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at %d", i)
		}
		if a[i] < -0.5 || a[i] > 0.5 {
			t.Fatalf("out of range at %d: %v", i, a[i])
		}
	}
}

func TestGaussianNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(4))
	g2 := NewGeneratorWithOptions(nil, WithSeed(4))

	a, _ := g1.GaussianNoise(1, 32)
	b, _ := g2.GaussianNoise(1, 32)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at %d", i)
		}
	}
}

func TestMorletPeakAtCenter(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(256))
	out, err := g.Morlet(10, 7, 1, 257)
	if err != nil {
		t.Fatal(err)
	}

	// Odd length: the Gaussian envelope peaks exactly at the center
	// sample, where the cosine is also at its maximum.
	center := 128
	if math.Abs(out[center]-1) > 1e-12 {
		t.Fatalf("center value %v, want 1", out[center])
	}
	for i, v := range out {
		if math.Abs(v) > 1+1e-12 {
			t.Fatalf("index %d exceeds amplitude: %v", i, v)
		}
	}

	// Symmetric envelope and carrier around the center.
	for i := 1; i < 64; i++ {
		if math.Abs(out[center-i]-out[center+i]) > 1e-9 {
			t.Fatalf("not symmetric at offset %d", i)
		}
	}
}

func TestMorletDecays(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(256))
	out, err := g.Morlet(10, 7, 1, 513)
	if err != nil {
		t.Fatal(err)
	}
	// The envelope is negligible far from the center.
	if math.Abs(out[0]) > 1e-6 || math.Abs(out[512]) > 1e-6 {
		t.Fatalf("edges should decay: %v %v", out[0], out[512])
	}
}

func TestMorletInvalid(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(256))
	if _, err := g.Morlet(0, 7, 1, 64); err == nil {
		t.Fatal("expected error for zero frequency")
	}
	if _, err := g.Morlet(200, 7, 1, 64); err == nil {
		t.Fatal("expected error above nyquist")
	}
	if _, err := g.Morlet(10, 0, 1, 64); err == nil {
		t.Fatal("expected error for zero cycles")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{1, -4, 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.25, -1, 0.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestNormalizeZeroSignal(t *testing.T) {
	out, err := Normalize(make([]float64, 4), 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range out {
		if v != 0 {
			t.Fatal("zero signal must stay zero")
		}
	}
}
