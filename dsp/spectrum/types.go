package spectrum

// Point is a single spectral bin: frequency in Hz and amplitude in mm/s for
// velocity spectra (unit depends on the estimator that produced it).
type Point struct {
	FrequencyHz float64 `json:"frequencyHz"`
	Amplitude   float64 `json:"amplitudeMms"`
}

// Spectrum is an ordered sequence of points sorted by ascending frequency,
// one per FFT bin.
type Spectrum []Point

// MaxFrequency returns the highest frequency in the spectrum, or 0 when empty.
func (s Spectrum) MaxFrequency() float64 {
	if len(s) == 0 {
		return 0
	}

	return s[len(s)-1].FrequencyHz
}

// MaxAmplitude returns the largest amplitude in the spectrum, or 0 when empty.
func (s Spectrum) MaxAmplitude() float64 {
	max := 0.0
	for _, p := range s {
		if p.Amplitude > max {
			max = p.Amplitude
		}
	}

	return max
}

// TimePoint is a single conditioned time-series sample.
type TimePoint struct {
	TimeSec float64 `json:"timeSec"`
	Value   float64 `json:"value"`
}

// Result holds an estimated spectrum together with the conditioned
// time series it was derived from. The time series is kept for display
// purposes only; downstream analysis reads the spectrum.
type Result struct {
	Spectrum   Spectrum    `json:"spectrum"`
	Timeseries []TimePoint `json:"timeseries"`
	BlockCount int         `json:"blockCount"`
	BlockSize  int         `json:"blockSize"`
	OverlapPct float64     `json:"overlapPct"`
}
