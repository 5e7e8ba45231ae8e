package filter

import (
	"math"
	"testing"
)

func sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

func TestHighpassRBJInvalidParams(t *testing.T) {
	if c := HighpassRBJ(100, defaultQ, 0); c != (Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid sample rate")
	}

	if c := HighpassRBJ(6000, defaultQ, 10000); c != (Coefficients{}) {
		t.Fatalf("expected zero coefficients above Nyquist")
	}
}

func TestLowpassRBJInvalidParams(t *testing.T) {
	if c := LowpassRBJ(100, defaultQ, 0); c != (Coefficients{}) {
		t.Fatalf("expected zero coefficients for invalid sample rate")
	}

	if c := LowpassRBJ(6000, defaultQ, 10000); c != (Coefficients{}) {
		t.Fatalf("expected zero coefficients above Nyquist")
	}
}

func TestLowpassRBJResponse(t *testing.T) {
	s := NewSection(LowpassRBJ(100, defaultQ, 10000))

	// DC must pass with unit gain.
	var y float64
	for i := 0; i < 50000; i++ {
		y = s.ProcessSample(1.0)
	}

	if math.Abs(y-1.0) > 1e-6 {
		t.Fatalf("lowpass DC gain = %f, want ~1", y)
	}

	// A tone a decade above the cutoff drops by roughly 40 dB.
	s.Reset()

	buf := sine(1000, 10000, 1.0, 20000)
	s.ProcessBlock(buf)

	tail := buf[10000:]

	sum := 0.0
	for _, v := range tail {
		sum += v * v
	}

	if amp := math.Sqrt(sum/float64(len(tail))) * math.Sqrt2; amp > 0.05 {
		t.Fatalf("stopband amplitude = %f, want < 0.05", amp)
	}
}

func TestButterworthHPSectionCount(t *testing.T) {
	cases := []struct {
		order, want int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}

	for _, c := range cases {
		if got := len(ButterworthHP(4, c.order, 10000)); got != c.want {
			t.Errorf("order %d: %d sections, want %d", c.order, got, c.want)
		}
	}

	if ButterworthHP(4, 0, 10000) != nil {
		t.Fatalf("expected nil cascade for order 0")
	}
}

func TestSectionRejectsDC(t *testing.T) {
	sections := ButterworthHP(4, 2, 10000)
	s := NewSection(sections[0])

	// Feed a long DC signal; the steady-state output must decay to ~0.
	var y float64
	for i := 0; i < 50000; i++ {
		y = s.ProcessSample(1.0)
	}

	if math.Abs(y) > 1e-6 {
		t.Fatalf("highpass DC output = %e, want ~0", y)
	}
}

func TestSectionPassesHighFrequency(t *testing.T) {
	sections := ButterworthHP(4, 2, 10000)
	in := sine(1000, 10000, 1.0, 20000)

	buf := append([]float64(nil), in...)
	for _, c := range sections {
		NewSection(c).ProcessBlock(buf)
	}

	// Measure RMS over the settled tail; at 10 samples per cycle the
	// sampled peak falls between samples, but the RMS does not.
	tail := buf[10000:]

	sum := 0.0
	for _, v := range tail {
		sum += v * v
	}

	amp := math.Sqrt(sum/float64(len(tail))) * math.Sqrt2
	if math.Abs(amp-1.0) > 0.01 {
		t.Fatalf("passband amplitude = %f, want ~1.0", amp)
	}
}

func TestFiltFiltZeroPhase(t *testing.T) {
	const (
		sampleRate = 10000.0
		freq       = 100.0
	)

	sections := ButterworthHP(4, 2, sampleRate)
	in := sine(freq, sampleRate, 1.0, 8192)

	out, err := FiltFilt(sections, in)
	if err != nil {
		t.Fatalf("FiltFilt error: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("length changed: %d != %d", len(out), len(in))
	}

	// Well above cutoff, a zero-phase filter must preserve the waveform:
	// same zero crossings, no lag. Compare mid-signal samples directly.
	for i := 2000; i < 6000; i++ {
		if math.Abs(out[i]-in[i]) > 0.01 {
			t.Fatalf("sample %d: out=%f in=%f, zero-phase output should track input", i, out[i], in[i])
		}
	}
}

func TestFiltFiltRemovesDrift(t *testing.T) {
	const sampleRate = 10000.0

	sections := ButterworthHP(4, 2, sampleRate)

	// Sine plus linear drift, the shape produced by integrating a biased
	// acceleration record.
	in := sine(50, sampleRate, 1.0, 20000)
	for i := range in {
		in[i] += 0.001 * float64(i)
	}

	out, err := FiltFilt(sections, in)
	if err != nil {
		t.Fatalf("FiltFilt error: %v", err)
	}

	// Mean of the filtered mid-section must be near zero despite the ramp.
	sum := 0.0
	for _, v := range out[5000:15000] {
		sum += v
	}

	if mean := sum / 10000; math.Abs(mean) > 0.05 {
		t.Fatalf("residual mean after highpass = %f, want ~0", mean)
	}
}

func TestFiltFiltErrors(t *testing.T) {
	if _, err := FiltFilt(nil, []float64{1, 2, 3}); err == nil {
		t.Fatalf("expected error for empty cascade")
	}

	sections := ButterworthHP(4, 2, 10000)
	if _, err := FiltFilt(sections, []float64{1}); err == nil {
		t.Fatalf("expected error for single-sample input")
	}
}

func TestSectionReset(t *testing.T) {
	s := NewSection(HighpassRBJ(100, defaultQ, 10000))

	first := s.ProcessSample(1.0)
	s.ProcessSample(0.5)
	s.Reset()

	if again := s.ProcessSample(1.0); again != first {
		t.Fatalf("reset section output %f, want %f", again, first)
	}
}
