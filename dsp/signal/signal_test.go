package signal

import (
	"math"
	"testing"
)

func TestDetrendMean(t *testing.T) {
	out := DetrendMean([]float64{1, 2, 3})
	want := []float64{-1, 0, 1}

	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("detrend[%d] = %f, want %f", i, out[i], want[i])
		}
	}

	if DetrendMean(nil) != nil {
		t.Fatalf("expected nil output for nil input")
	}
}

func TestCumTrapzConstant(t *testing.T) {
	// Integrating a constant 1 at dt=0.5 yields a ramp 0, 0.5, 1.0, ...
	out, err := CumTrapz([]float64{1, 1, 1, 1}, 0.5)
	if err != nil {
		t.Fatalf("CumTrapz error: %v", err)
	}

	want := []float64{0, 0.5, 1.0, 1.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("cumtrapz[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestCumTrapzSineMatchesAnalytic(t *testing.T) {
	const (
		sampleRate = 10000.0
		freq       = 25.0
	)

	g, err := NewGenerator(sampleRate)
	if err != nil {
		t.Fatalf("NewGenerator error: %v", err)
	}

	in, err := g.Sine(freq, 1.0, 10000)
	if err != nil {
		t.Fatalf("Sine error: %v", err)
	}

	out, err := CumTrapz(in, 1/sampleRate)
	if err != nil {
		t.Fatalf("CumTrapz error: %v", err)
	}

	// Integral of sin(wt) is (1-cos(wt))/w.
	w := 2 * math.Pi * freq
	for i := 0; i < len(out); i += 500 {
		want := (1 - math.Cos(w*float64(i)/sampleRate)) / w
		if math.Abs(out[i]-want) > 1e-6 {
			t.Fatalf("integral[%d] = %e, want %e", i, out[i], want)
		}
	}
}

func TestCumTrapzErrors(t *testing.T) {
	if _, err := CumTrapz([]float64{1}, 0.1); err == nil {
		t.Fatalf("expected error for single sample")
	}

	if _, err := CumTrapz([]float64{1, 2}, 0); err == nil {
		t.Fatalf("expected error for zero time step")
	}
}

func TestScale(t *testing.T) {
	out := Scale([]float64{1, -2, 3}, 2)
	want := []float64{2, -4, 6}

	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("scale[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	g1, _ := NewGenerator(48000, WithSeed(7))
	g2, _ := NewGenerator(48000, WithSeed(7))

	n1, _ := g1.WhiteNoise(1.0, 64)
	n2, _ := g2.WhiteNoise(1.0, 64)

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise not deterministic at %d: %f != %f", i, n1[i], n2[i])
		}
	}
}

func TestGeneratorValidation(t *testing.T) {
	if _, err := NewGenerator(0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}

	g, _ := NewGenerator(48000)
	if _, err := g.Sine(100, 1, 0); err == nil {
		t.Fatalf("expected error for zero samples")
	}

	if _, err := g.WhiteNoise(-1, 10); err == nil {
		t.Fatalf("expected error for negative amplitude")
	}
}
