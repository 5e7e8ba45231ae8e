package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cezzan12/fault-detection/dsp/condition"
	"github.com/cezzan12/fault-detection/dsp/core"
	"github.com/cezzan12/fault-detection/internal/testutil"
)

func TestVelocityValidation(t *testing.T) {
	raw := testutil.Sine(25, 10000, 0.01, 200)

	if _, err := EstimateVelocity(raw, Config{SampleRate: 0}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for zero sample rate")
	}

	short := testutil.Sine(25, 10000, 0.01, 50)
	if _, err := EstimateVelocity(short, Config{SampleRate: 10000}); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for 50 samples")
	}
}

func TestVelocityZeroInput(t *testing.T) {
	raw := make([]float64, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: 10000})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	for _, p := range res.Spectrum {
		if math.Abs(p.Amplitude) > 1e-9 {
			t.Fatalf("bin at %f Hz = %e, want ~0", p.FrequencyHz, p.Amplitude)
		}
	}
}

func TestVelocitySinePeak(t *testing.T) {
	const (
		sampleRate = 10000.0
		freq       = 25.0
		accelG     = 0.01
	)

	raw := testutil.Sine(freq, sampleRate, accelG, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: sampleRate})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	// Locate the dominant bin.
	best := 0
	for i, p := range res.Spectrum {
		if p.Amplitude > res.Spectrum[best].Amplitude {
			best = i
		}
	}

	got := res.Spectrum[best].FrequencyHz
	if math.Abs(got-freq) > freq*0.05 {
		t.Fatalf("dominant bin at %f Hz, want within 5%% of %f Hz", got, freq)
	}

	if res.Spectrum[best].Amplitude <= 0 {
		t.Fatalf("dominant bin amplitude must be positive")
	}
}

func TestVelocitySinePeakAmplitude(t *testing.T) {
	const (
		sampleRate = 10000.0
		freq       = 25.0
		accelG     = 0.05
	)

	// 20000 samples is the standard block size and is not a power of two,
	// so this exercises the zero-padded transform path.
	raw := testutil.Sine(freq, sampleRate, accelG, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: sampleRate})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	best := maxBin(res.Spectrum)

	if got := res.Spectrum[best].FrequencyHz; math.Abs(got-freq) > 0.5 {
		t.Fatalf("dominant bin at %f Hz, want within 0.5 Hz of %f", got, freq)
	}

	// Integrating a*sin(wt) gives velocity amplitude a/w.
	want := accelG * condition.StandardGravityMms2 / (2 * math.Pi * freq)
	got := res.Spectrum[best].Amplitude

	if math.Abs(got-want) > want*0.05 {
		t.Fatalf("peak amplitude = %f mm/s, want within 5%% of %f", got, want)
	}
}

func TestVelocitySpectrumOrderingAndDC(t *testing.T) {
	raw := testutil.Sine(50, 10000, 0.01, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: 10000})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	if res.Spectrum[0].FrequencyHz != 0 || res.Spectrum[0].Amplitude != 0 {
		t.Fatalf("DC bin = %+v, want zeroed", res.Spectrum[0])
	}

	for i := 1; i < len(res.Spectrum); i++ {
		if res.Spectrum[i].FrequencyHz <= res.Spectrum[i-1].FrequencyHz {
			t.Fatalf("frequencies not ascending at %d", i)
		}
	}
}

func TestVelocityFMaxTruncation(t *testing.T) {
	raw := testutil.Sine(25, 10000, 0.01, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: 10000, FMax: 1500})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	if got := res.Spectrum.MaxFrequency(); got >= 1500 {
		t.Fatalf("max frequency %f, want < 1500", got)
	}
}

func TestVelocityBlockCountAndOverlap(t *testing.T) {
	cases := []struct {
		samples     int
		wantOverlap float64
		wantBlocks  int
	}{
		// 60% overlap band: starts at 0, 8000, 16000, 24000; last block
		// ends at 44000 <= 45000.
		{45000, 60, 4},
		// 80% overlap: starts 0, 4000, 8000, 12000; end 32000 <= 80000.
		{80000, 80, 4},
		// Short record: single clamped block.
		{10000, 80, 1},
	}

	for _, c := range cases {
		raw := testutil.Sine(25, 10000, 0.01, c.samples)

		res, err := EstimateVelocity(raw, Config{SampleRate: 10000})
		if err != nil {
			t.Fatalf("samples=%d: %v", c.samples, err)
		}

		if res.OverlapPct != c.wantOverlap {
			t.Errorf("samples=%d: overlap %f, want %f", c.samples, res.OverlapPct, c.wantOverlap)
		}

		if res.BlockCount != c.wantBlocks {
			t.Errorf("samples=%d: blocks %d, want %d", c.samples, res.BlockCount, c.wantBlocks)
		}
	}
}

func TestVelocityIdempotent(t *testing.T) {
	raw := testutil.Mix(
		testutil.Sine(25, 10000, 0.01, 20000),
		testutil.Noise(42, 0.001, 20000),
	)
	cfg := Config{SampleRate: 10000, FMax: 1500}

	a, err := EstimateVelocity(raw, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	b, err := EstimateVelocity(raw, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(a.Spectrum) != len(b.Spectrum) {
		t.Fatalf("spectrum length differs between runs")
	}

	for i := range a.Spectrum {
		if a.Spectrum[i] != b.Spectrum[i] {
			t.Fatalf("bin %d differs between runs: %+v != %+v", i, a.Spectrum[i], b.Spectrum[i])
		}
	}
}

func TestVelocityCalibration(t *testing.T) {
	raw := testutil.Sine(25, 10000, 0.01, 20000)

	base, err := EstimateVelocity(raw, Config{SampleRate: 10000})
	if err != nil {
		t.Fatalf("base run: %v", err)
	}

	scaled, err := EstimateVelocity(raw, Config{SampleRate: 10000, Calibration: 2})
	if err != nil {
		t.Fatalf("calibrated run: %v", err)
	}

	bi, si := maxBin(base.Spectrum), maxBin(scaled.Spectrum)
	if bi != si {
		t.Fatalf("calibration moved the dominant bin: %d != %d", bi, si)
	}

	ratio := scaled.Spectrum[si].Amplitude / base.Spectrum[bi].Amplitude
	if math.Abs(ratio-2) > 1e-6 {
		t.Fatalf("calibration ratio = %f, want 2", ratio)
	}
}

func TestVelocityTimeseries(t *testing.T) {
	raw := testutil.Sine(25, 10000, 0.01, 20000)

	res, err := EstimateVelocity(raw, Config{SampleRate: 10000})
	if err != nil {
		t.Fatalf("EstimateVelocity error: %v", err)
	}

	if len(res.Timeseries) != len(raw) {
		t.Fatalf("timeseries length %d, want %d", len(res.Timeseries), len(raw))
	}

	if res.Timeseries[0].TimeSec != 0 {
		t.Fatalf("timeseries must start at t=0")
	}

	dt := res.Timeseries[1].TimeSec - res.Timeseries[0].TimeSec
	if math.Abs(dt-1.0/10000) > 1e-12 {
		t.Fatalf("timeseries step = %e, want 1e-4", dt)
	}
}

func TestAccelerationSpectrum(t *testing.T) {
	raw := testutil.Sine(500, 10000, 0.5, 16384)

	res, err := EstimateAcceleration(raw, Config{SampleRate: 10000})
	if err != nil {
		t.Fatalf("EstimateAcceleration error: %v", err)
	}

	best := maxBin(res.Spectrum)
	got := res.Spectrum[best].FrequencyHz

	if math.Abs(got-500) > 500*0.05 {
		t.Fatalf("dominant bin at %f Hz, want ~500", got)
	}

	// Leading 10% of the record is trimmed from the display series.
	if len(res.Timeseries) != len(raw)-len(raw)/10 {
		t.Fatalf("timeseries length %d, want %d", len(res.Timeseries), len(raw)-len(raw)/10)
	}
}

func TestAccelerationValidation(t *testing.T) {
	if _, err := EstimateAcceleration(make([]float64, 50), Config{SampleRate: 10000}); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData")
	}

	if _, err := EstimateAcceleration(make([]float64, 200), Config{SampleRate: 0}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter")
	}
}

func TestSpectrumHelpers(t *testing.T) {
	s := Spectrum{{FrequencyHz: 0, Amplitude: 0}, {FrequencyHz: 10, Amplitude: 3}, {FrequencyHz: 20, Amplitude: 1}}

	if s.MaxFrequency() != 20 {
		t.Fatalf("MaxFrequency = %f, want 20", s.MaxFrequency())
	}

	if s.MaxAmplitude() != 3 {
		t.Fatalf("MaxAmplitude = %f, want 3", s.MaxAmplitude())
	}

	var empty Spectrum
	if empty.MaxFrequency() != 0 || empty.MaxAmplitude() != 0 {
		t.Fatalf("empty spectrum helpers must return 0")
	}
}

func maxBin(s Spectrum) int {
	best := 0
	for i, p := range s {
		if p.Amplitude > s[best].Amplitude {
			best = i
		}
	}

	return best
}
