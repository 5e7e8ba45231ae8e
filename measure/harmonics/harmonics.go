// Package harmonics locates running-speed harmonics and fixed
// electrical-frequency peaks in a velocity spectrum.
package harmonics

import (
	"sort"

	"github.com/cezzan12/fault-detection/dsp/spectrum"
)

const (
	defaultTolerance         = 0.05
	defaultMaxOrder          = 10
	defaultSignificanceRatio = 0.1

	// ReferenceAmplitudeFallback substitutes the 1x amplitude when no 1x peak
	// is found, keeping significance ratios well defined.
	ReferenceAmplitudeFallback = 0.1
)

// FixedFrequencyTargets are the supply-frequency multiples checked for
// electrical contamination, independent of running speed.
var FixedFrequencyTargets = []float64{25, 50, 75, 100, 125}

// Peak is a detected spectral peak near a target frequency.
type Peak struct {
	TargetHz   float64 `json:"targetFrequencyHz"`
	DetectedHz float64 `json:"detectedFrequencyHz"`
	Amplitude  float64 `json:"amplitudeMms"`
}

// Harmonic is a detected peak at an integer multiple of the running
// frequency.
type Harmonic struct {
	Order       int     `json:"order"`
	TargetHz    float64 `json:"targetFrequencyHz"`
	DetectedHz  float64 `json:"detectedFrequencyHz"`
	Amplitude   float64 `json:"amplitudeMms"`
	Significant bool    `json:"significant"`
}

// Config holds harmonic detection parameters.
type Config struct {
	// RunningFreqHz is the shaft rotation frequency (RPM/60). Required.
	RunningFreqHz float64
	// Tolerance is the half-width of the search band as a fraction of the
	// target frequency. Default 0.05.
	Tolerance float64
	// MaxOrder is the highest harmonic order searched. Default 10.
	MaxOrder int
	// SignificanceRatio marks a harmonic significant when its amplitude
	// reaches this fraction of the 1x reference. Default 0.1.
	SignificanceRatio float64
}

// Analyzer performs harmonic and fixed-frequency peak detection. It holds no
// state across calls.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer, applying defaults for unset fields.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: normalizeConfig(cfg)}
}

// FindPeakInBand returns the highest-amplitude spectrum point whose
// frequency lies within centerHz*(1±tolerance). The second return value is
// false when the band contains no bins or centerHz is not positive.
func (a *Analyzer) FindPeakInBand(spec spectrum.Spectrum, centerHz float64) (Peak, bool) {
	return findPeak(spec, centerHz, a.cfg.Tolerance)
}

// Detect locates harmonics of the running frequency from order 1 upward,
// stopping early once the target frequency leaves the spectrum range.
func (a *Analyzer) Detect(spec spectrum.Spectrum) []Harmonic {
	running := a.cfg.RunningFreqHz
	if running <= 0 || len(spec) == 0 {
		return nil
	}

	reference := ReferenceAmplitudeFallback
	if peak, ok := findPeak(spec, running, a.cfg.Tolerance); ok {
		reference = peak.Amplitude
	}

	maxFreq := spec.MaxFrequency()
	out := make([]Harmonic, 0, a.cfg.MaxOrder)

	for n := 1; n <= a.cfg.MaxOrder; n++ {
		target := running * float64(n)
		if target > maxFreq {
			break
		}

		peak, ok := findPeak(spec, target, a.cfg.Tolerance)
		if !ok {
			continue
		}

		out = append(out, Harmonic{
			Order:       n,
			TargetHz:    target,
			DetectedHz:  peak.DetectedHz,
			Amplitude:   peak.Amplitude,
			Significant: peak.Amplitude >= reference*a.cfg.SignificanceRatio,
		})
	}

	return out
}

// FixedFrequencies locates peaks at the static electrical-frequency targets,
// skipping targets beyond the spectrum range.
func (a *Analyzer) FixedFrequencies(spec spectrum.Spectrum) []Peak {
	maxFreq := spec.MaxFrequency()

	out := make([]Peak, 0, len(FixedFrequencyTargets))
	for _, target := range FixedFrequencyTargets {
		if target > maxFreq {
			continue
		}

		if peak, ok := findPeak(spec, target, a.cfg.Tolerance); ok {
			out = append(out, peak)
		}
	}

	return out
}

// AmplitudeAtOrder returns the amplitude of the harmonic with the given
// order, or 0 when absent.
func AmplitudeAtOrder(harmonics []Harmonic, order int) float64 {
	for _, h := range harmonics {
		if h.Order == order {
			return h.Amplitude
		}
	}

	return 0
}

// MaxAmplitude returns the largest amplitude across the harmonic list.
func MaxAmplitude(harmonics []Harmonic) float64 {
	max := 0.0
	for _, h := range harmonics {
		if h.Amplitude > max {
			max = h.Amplitude
		}
	}

	return max
}

func findPeak(spec spectrum.Spectrum, centerHz, tolerance float64) (Peak, bool) {
	if centerHz <= 0 || len(spec) == 0 {
		return Peak{}, false
	}

	lower := centerHz * (1 - tolerance)
	upper := centerHz * (1 + tolerance)

	// Spectrum is sorted ascending by frequency.
	start := sort.Search(len(spec), func(i int) bool { return spec[i].FrequencyHz >= lower })
	if start == len(spec) || spec[start].FrequencyHz > upper {
		return Peak{}, false
	}

	best := start
	for i := start + 1; i < len(spec) && spec[i].FrequencyHz <= upper; i++ {
		if spec[i].Amplitude > spec[best].Amplitude {
			best = i
		}
	}

	return Peak{
		TargetHz:   centerHz,
		DetectedHz: spec[best].FrequencyHz,
		Amplitude:  spec[best].Amplitude,
	}, true
}

func normalizeConfig(cfg Config) Config {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}

	if cfg.MaxOrder <= 0 {
		cfg.MaxOrder = defaultMaxOrder
	}

	if cfg.SignificanceRatio <= 0 {
		cfg.SignificanceRatio = defaultSignificanceRatio
	}

	return cfg
}
