// Package analysis runs the full vibration pipeline for single axes and
// whole bearings: spectrum estimation, harmonic detection, ISO severity
// classification and fault diagnosis.
package analysis

import (
	"fmt"

	"github.com/cezzan12/fault-detection/diag"
	"github.com/cezzan12/fault-detection/dsp/core"
	"github.com/cezzan12/fault-detection/dsp/spectrum"
	"github.com/cezzan12/fault-detection/measure/harmonics"
	"github.com/cezzan12/fault-detection/measure/severity"
)

// Axis names a sensor mounting direction.
type Axis string

const (
	AxisHorizontal Axis = "H"
	AxisVertical   Axis = "V"
	AxisAxial      Axis = "A"
)

// axisOrder fixes iteration and tie-break order across axes.
var axisOrder = []Axis{AxisHorizontal, AxisVertical, AxisAxial}

const defaultFMax = 1500.0

// Input is one axis worth of raw acquisition data and machine parameters.
type Input struct {
	// Samples are raw acceleration samples in g.
	Samples []float64
	// SampleRate is the acquisition rate in Hz. Required.
	SampleRate float64
	// RPM is the shaft speed. Required.
	RPM float64
	// MachineClass selects the ISO 10816-3 threshold group; unrecognized
	// values fall back to class II.
	MachineClass severity.Class
	// CutoffHz is the conditioning highpass cutoff, default 4 Hz.
	CutoffHz float64
	// FMax bounds the reported spectrum, default 1500 Hz.
	FMax float64
	// Calibration scales final amplitudes, default 1.
	Calibration float64
	// FloorNoiseThresholdPct and FloorNoiseAttenuation tune the noise
	// floor suppression; zero selects the defaults.
	FloorNoiseThresholdPct float64
	FloorNoiseAttenuation  float64
	// Resolution is the optional FFT resolution multiplier.
	Resolution float64
}

// AxisResult is the complete analysis of one axis.
type AxisResult struct {
	Axis                Axis                 `json:"axis"`
	RunningFreqHz       float64              `json:"runningFrequencyHz"`
	Spectrum            spectrum.Spectrum    `json:"spectrum"`
	Timeseries          []spectrum.TimePoint `json:"timeseries,omitempty"`
	PeakAt1x            *harmonics.Peak      `json:"peakAt1x,omitempty"`
	Harmonics           []harmonics.Harmonic `json:"harmonics"`
	FixedFrequencyPeaks []harmonics.Peak     `json:"fixedFrequencyPeaks"`
	Severity            severity.Result      `json:"severity"`
	Diagnosis           diag.Result          `json:"diagnosis"`
}

// AnalyzeAxis runs the full pipeline on one axis. It validates RPM and
// sample rate before any FFT work and returns core.ErrInvalidParameter or
// core.ErrInsufficientData wrapped with the offending value.
func AnalyzeAxis(axis Axis, in Input) (AxisResult, error) {
	if in.RPM <= 0 {
		return AxisResult{}, fmt.Errorf("analysis: rpm %v: %w", in.RPM, core.ErrInvalidParameter)
	}

	if in.SampleRate <= 0 {
		return AxisResult{}, fmt.Errorf("analysis: sample rate %v: %w", in.SampleRate, core.ErrInvalidParameter)
	}

	runningFreq := in.RPM / 60.0

	fmax := in.FMax
	if fmax <= 0 {
		fmax = defaultFMax
	}

	est := spectrum.NewEstimator(spectrum.Config{
		SampleRate:             in.SampleRate,
		CutoffHz:               in.CutoffHz,
		FMax:                   fmax,
		FloorNoiseThresholdPct: in.FloorNoiseThresholdPct,
		FloorNoiseAttenuation:  in.FloorNoiseAttenuation,
		Calibration:            in.Calibration,
		Resolution:             in.Resolution,
	})

	res, err := est.Velocity(in.Samples)
	if err != nil {
		return AxisResult{}, fmt.Errorf("analysis: axis %s: %w", axis, err)
	}

	analyzer := harmonics.NewAnalyzer(harmonics.Config{RunningFreqHz: runningFreq})

	detected := analyzer.Detect(res.Spectrum)
	fixed := analyzer.FixedFrequencies(res.Spectrum)

	var peakAt1x *harmonics.Peak
	var amp1x float64
	if p, ok := analyzer.FindPeakInBand(res.Spectrum, runningFreq); ok {
		peakAt1x = &p
		amp1x = p.Amplitude
	}

	var subAmp float64
	if p, ok := analyzer.FindPeakInBand(res.Spectrum, 0.5*runningFreq); ok {
		subAmp = p.Amplitude
	}

	rms := severity.OverallRMS(res.Spectrum, amp1x)
	sev := severity.Classify(rms, in.MachineClass)

	diagnosis := diag.Diagnose(diag.Input{
		RPM:                  in.RPM,
		RunningFreqHz:        runningFreq,
		Harmonics:            detected,
		FixedFrequencyPeaks:  fixed,
		SubharmonicAmplitude: subAmp,
		SeverityZone:         sev.Zone,
		VelocityRMS:          sev.RMS,
	})

	out := AxisResult{
		Axis:                axis,
		RunningFreqHz:       runningFreq,
		Spectrum:            res.Spectrum,
		Timeseries:          res.Timeseries,
		PeakAt1x:            peakAt1x,
		Harmonics:           detected,
		FixedFrequencyPeaks: fixed,
		Severity:            sev,
		Diagnosis:           diagnosis,
	}

	sanitizeResult(&out)

	return out, nil
}

// sanitizeResult forces every float in the result to a finite JSON-safe
// value.
func sanitizeResult(r *AxisResult) {
	r.RunningFreqHz = core.SanitizeFloat(r.RunningFreqHz)

	for i := range r.Spectrum {
		r.Spectrum[i].FrequencyHz = core.SanitizeFloat(r.Spectrum[i].FrequencyHz)
		r.Spectrum[i].Amplitude = core.SanitizeFloat(r.Spectrum[i].Amplitude)
	}

	for i := range r.Timeseries {
		r.Timeseries[i].TimeSec = core.SanitizeFloat(r.Timeseries[i].TimeSec)
		r.Timeseries[i].Value = core.SanitizeFloat(r.Timeseries[i].Value)
	}

	if r.PeakAt1x != nil {
		sanitizePeak(r.PeakAt1x)
	}

	for i := range r.Harmonics {
		h := &r.Harmonics[i]
		h.TargetHz = core.SanitizeFloat(h.TargetHz)
		h.DetectedHz = core.SanitizeFloat(h.DetectedHz)
		h.Amplitude = core.SanitizeFloat(h.Amplitude)
	}

	for i := range r.FixedFrequencyPeaks {
		sanitizePeak(&r.FixedFrequencyPeaks[i])
	}

	r.Severity.RMS = core.SanitizeFloat(r.Severity.RMS)
}

func sanitizePeak(p *harmonics.Peak) {
	p.TargetHz = core.SanitizeFloat(p.TargetHz)
	p.DetectedHz = core.SanitizeFloat(p.DetectedHz)
	p.Amplitude = core.SanitizeFloat(p.Amplitude)
}
