// Package frequency computes statistics over magnitude spectra.
package frequency

import (
	"math"

	"github.com/cezzan12/fault-detection/dsp/spectrum"
)

// Stats holds summary statistics of a magnitude spectrum.
type Stats struct {
	BinCount int
	Max      float64
	MaxBin   int
	Sum      float64
	Energy   float64 // sum of squared amplitudes
	RMS      float64 // sqrt(Energy / BinCount)
}

// Calculate computes summary statistics over a spectrum.
func Calculate(spec spectrum.Spectrum) Stats {
	n := len(spec)
	if n == 0 {
		return Stats{}
	}

	s := Stats{BinCount: n, Max: spec[0].Amplitude}

	for i, p := range spec {
		s.Sum += p.Amplitude
		s.Energy += p.Amplitude * p.Amplitude

		if p.Amplitude > s.Max {
			s.Max = p.Amplitude
			s.MaxBin = i
		}
	}

	s.RMS = math.Sqrt(s.Energy / float64(n))

	return s
}

// BandRSS returns the root-sum-square of amplitudes whose frequency lies in
// [loHz, hiHz]. When no bin falls inside the band, the whole spectrum is
// used instead, so a narrow or out-of-range band never reads as zero energy.
func BandRSS(spec spectrum.Spectrum, loHz, hiHz float64) float64 {
	sum := 0.0
	matched := false

	for _, p := range spec {
		if p.FrequencyHz < loHz || p.FrequencyHz > hiHz {
			continue
		}

		sum += p.Amplitude * p.Amplitude
		matched = true
	}

	if !matched {
		for _, p := range spec {
			sum += p.Amplitude * p.Amplitude
		}
	}

	return math.Sqrt(sum)
}
