package frequency

import (
	"math"
	"testing"

	"github.com/cezzan12/fault-detection/dsp/spectrum"
)

func spec(points ...[2]float64) spectrum.Spectrum {
	out := make(spectrum.Spectrum, len(points))
	for i, p := range points {
		out[i] = spectrum.Point{FrequencyHz: p[0], Amplitude: p[1]}
	}

	return out
}

func TestCalculate(t *testing.T) {
	s := Calculate(spec([2]float64{0, 0}, [2]float64{10, 3}, [2]float64{20, 4}))

	if s.BinCount != 3 {
		t.Fatalf("BinCount = %d, want 3", s.BinCount)
	}

	if s.Max != 4 || s.MaxBin != 2 {
		t.Fatalf("Max/MaxBin = %f/%d, want 4/2", s.Max, s.MaxBin)
	}

	if s.Sum != 7 {
		t.Fatalf("Sum = %f, want 7", s.Sum)
	}

	if s.Energy != 25 {
		t.Fatalf("Energy = %f, want 25", s.Energy)
	}

	if want := math.Sqrt(25.0 / 3); math.Abs(s.RMS-want) > 1e-12 {
		t.Fatalf("RMS = %f, want %f", s.RMS, want)
	}
}

func TestCalculateEmpty(t *testing.T) {
	if s := Calculate(nil); s != (Stats{}) {
		t.Fatalf("empty spectrum stats = %+v, want zero", s)
	}
}

func TestBandRSS(t *testing.T) {
	s := spec([2]float64{5, 10}, [2]float64{15, 3}, [2]float64{25, 4}, [2]float64{2000, 9})

	// In-band bins: 15 Hz and 25 Hz -> sqrt(9+16) = 5.
	if got := BandRSS(s, 10, 1000); math.Abs(got-5) > 1e-12 {
		t.Fatalf("BandRSS = %f, want 5", got)
	}
}

func TestBandRSSFallsBackToFullSpectrum(t *testing.T) {
	s := spec([2]float64{5, 3}, [2]float64{8, 4})

	// Band above all bins: whole spectrum used -> sqrt(9+16) = 5.
	if got := BandRSS(s, 100, 1000); math.Abs(got-5) > 1e-12 {
		t.Fatalf("fallback BandRSS = %f, want 5", got)
	}
}
