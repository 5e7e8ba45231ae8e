package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cezzan12/fault-detection/dsp/condition"
	"github.com/cezzan12/fault-detection/dsp/core"
	"github.com/cezzan12/fault-detection/dsp/filter"
	"github.com/cezzan12/fault-detection/dsp/signal"
	"github.com/cezzan12/fault-detection/dsp/window"
)

const (
	// MinAnalysisSamples is the shortest record the estimators accept.
	MinAnalysisSamples = 100

	baseBlockSize = 20000
	targetBlocks  = 4

	defaultFloorNoiseThresholdPct = 0.05
	defaultFloorNoiseAttenuation  = 1.1

	// Sub-cutoff suppression factors for residual filter roll-off.
	subCutoffGain     = 0.2
	deepSubCutoffGain = 0.05
)

// Config holds spectral estimation parameters.
type Config struct {
	// SampleRate of the raw record in Hz. Required.
	SampleRate float64
	// CutoffHz is the highpass cutoff for drift removal. Default 4 Hz.
	CutoffHz float64
	// FMax truncates the output spectrum to bins strictly below this
	// frequency. Zero keeps the full range up to Nyquist.
	FMax float64
	// FloorNoiseThresholdPct marks bins below this fraction of the spectrum
	// maximum as floor noise. Default 0.05.
	FloorNoiseThresholdPct float64
	// FloorNoiseAttenuation divides floor-noise bins. Default 1.1.
	FloorNoiseAttenuation float64
	// Calibration multiplies all output amplitudes. Default 1.
	Calibration float64
	// Resolution > 1 enlarges the block size by Resolution/2 for finer
	// frequency spacing at the cost of averaging count.
	Resolution float64
}

// Estimator computes block-averaged spectra from raw acceleration records.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an estimator, applying defaults for unset fields.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: normalizeConfig(cfg)}
}

// EstimateVelocity is a one-shot velocity spectrum estimation.
func EstimateVelocity(raw []float64, cfg Config) (Result, error) {
	return NewEstimator(cfg).Velocity(raw)
}

// EstimateAcceleration is a one-shot acceleration spectrum estimation.
func EstimateAcceleration(raw []float64, cfg Config) (Result, error) {
	return NewEstimator(cfg).Acceleration(raw)
}

// Velocity converts a raw acceleration record (g) into an averaged
// single-sided velocity spectrum (mm/s) plus the conditioned time series.
func (e *Estimator) Velocity(raw []float64) (Result, error) {
	cfg := e.cfg

	if cfg.SampleRate <= 0 {
		return Result{}, fmt.Errorf("%w: sample rate must be > 0: %f", core.ErrInvalidParameter, cfg.SampleRate)
	}

	if len(raw) < MinAnalysisSamples {
		return Result{}, fmt.Errorf("%w: velocity spectrum requires at least %d samples: %d",
			core.ErrInsufficientData, MinAnalysisSamples, len(raw))
	}

	n := len(raw)
	overlapPct := overlapForLength(n)
	blockSize := blockSizeFor(cfg.Resolution, n)

	// Unit conversion and DC removal happen once over the whole record;
	// integration and filtering are per block.
	accel := signal.DetrendMean(signal.Scale(raw, condition.StandardGravityMms2))

	dt := 1 / cfg.SampleRate

	sections := filter.ButterworthHP(cfg.CutoffHz, 2, cfg.SampleRate)
	if len(sections) == 0 {
		return Result{}, fmt.Errorf("%w: highpass design failed for cutoff %f Hz at %f Hz",
			core.ErrInvalidParameter, cfg.CutoffHz, cfg.SampleRate)
	}

	// The FFT backend is only exact for power-of-two lengths; blocks are
	// zero-padded up to the plan size.
	fftSize := nextPowerOf2(blockSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum fft plan: %w", err)
	}

	hop := (1 - overlapPct/100) * float64(blockSize)

	var (
		sum        []float64
		blockCount int
	)

	for i := 0; i < targetBlocks; i++ {
		start := int(float64(i) * hop)
		end := start + blockSize

		if end > n {
			break
		}

		mag, err := velocityBlockSpectrum(accel[start:end], dt, sections, plan, fftSize)
		if err != nil {
			return Result{}, err
		}

		if sum == nil {
			sum = mag
		} else {
			for k, v := range mag {
				sum[k] += v
			}
		}

		blockCount++
	}

	if blockCount == 0 {
		// Short data fallback: a single non-overlapped block covering the
		// whole record.
		fftSize = nextPowerOf2(n)

		plan, err = algofft.NewPlan64(fftSize)
		if err != nil {
			return Result{}, fmt.Errorf("spectrum fft plan: %w", err)
		}

		mag, err := velocityBlockSpectrum(accel, dt, sections, plan, fftSize)
		if err != nil {
			return Result{}, err
		}

		sum = mag
		blockCount = 1
		blockSize = n
	}

	for k := range sum {
		sum[k] /= float64(blockCount)
	}

	attenuateFloorNoise(sum, cfg.FloorNoiseThresholdPct, cfg.FloorNoiseAttenuation)

	spec := assembleSpectrum(sum, cfg.SampleRate)
	suppressSubCutoff(spec, cfg.CutoffHz)

	for i := range spec {
		spec[i].Amplitude = core.Round8(spec[i].Amplitude) * cfg.Calibration
	}

	spec = truncateToFMax(spec, cfg.FMax)

	timeseries, err := conditionedTimeseries(raw, cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Spectrum:   spec,
		Timeseries: timeseries,
		BlockCount: blockCount,
		BlockSize:  blockSize,
		OverlapPct: overlapPct,
	}, nil
}

// Acceleration computes a single-block acceleration spectrum with a fixed
// 10 Hz order-4 highpass, used for high-frequency defect inspection where
// integration to velocity would mask the signature.
func (e *Estimator) Acceleration(raw []float64) (Result, error) {
	cfg := e.cfg

	if cfg.SampleRate <= 0 {
		return Result{}, fmt.Errorf("%w: sample rate must be > 0: %f", core.ErrInvalidParameter, cfg.SampleRate)
	}

	if len(raw) < MinAnalysisSamples {
		return Result{}, fmt.Errorf("%w: acceleration spectrum requires at least %d samples: %d",
			core.ErrInsufficientData, MinAnalysisSamples, len(raw))
	}

	const (
		accelCutoffHz   = 10.0
		accelOrder      = 4
		accelRMSScale   = 0.707
		accelCorrection = 2.1
	)

	n := len(raw)

	sections := filter.ButterworthHP(accelCutoffHz, accelOrder, cfg.SampleRate)
	if len(sections) == 0 {
		return Result{}, fmt.Errorf("%w: highpass design failed for cutoff %f Hz at %f Hz",
			core.ErrInvalidParameter, accelCutoffHz, cfg.SampleRate)
	}

	filtered, err := filter.FiltFilt(sections, raw)
	if err != nil {
		return Result{}, err
	}

	window.Apply(window.TypeHann, filtered)

	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum fft plan: %w", err)
	}

	mag, err := singleSidedMagnitude(filtered, plan, fftSize)
	if err != nil {
		return Result{}, err
	}

	for k := range mag {
		mag[k] *= accelRMSScale * accelCorrection
	}

	spec := truncateToFMax(assembleSpectrum(mag, cfg.SampleRate), cfg.FMax)

	// The leading tenth of the record carries filter transients; trim it
	// from the display series.
	trimmed := raw[n/10:]
	dt := 1 / cfg.SampleRate

	timeseries := make([]TimePoint, len(trimmed))
	for i, v := range trimmed {
		timeseries[i] = TimePoint{TimeSec: float64(i) * dt, Value: v}
	}

	return Result{
		Spectrum:   spec,
		Timeseries: timeseries,
		BlockCount: 1,
		BlockSize:  n,
		OverlapPct: 0,
	}, nil
}

// velocityBlockSpectrum integrates one acceleration block to velocity,
// removes drift, windows it, and returns a compensated single-sided
// magnitude spectrum.
func velocityBlockSpectrum(block []float64, dt float64, sections []filter.Coefficients, plan *algofft.Plan[complex128], fftSize int) ([]float64, error) {
	velocity, err := signal.CumTrapz(block, dt)
	if err != nil {
		return nil, err
	}

	velocity, err = filter.FiltFilt(sections, velocity)
	if err != nil {
		return nil, err
	}

	window.Apply(window.TypeHann, velocity)

	mag, err := singleSidedMagnitude(velocity, plan, fftSize)
	if err != nil {
		return nil, err
	}

	// Doubling compensates the Hann coherent gain of 0.5.
	for k := range mag {
		mag[k] *= 2
	}

	return mag, nil
}

// singleSidedMagnitude zero-pads data to fftSize, transforms it, and returns
// |X[k]| * 2/len(data) for the lower half of the FFT with the DC bin zeroed.
// fftSize must be at least len(data).
func singleSidedMagnitude(data []float64, plan *algofft.Plan[complex128], fftSize int) ([]float64, error) {
	in := make([]complex128, fftSize)
	for i, v := range data {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum fft forward: %w", err)
	}

	half := fftSize / 2
	re := make([]float64, half)
	im := make([]float64, half)

	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	scale := 2.0 / float64(len(data))
	for i := range mag {
		mag[i] *= scale
	}

	mag[0] = 0

	return mag, nil
}

// assembleSpectrum attaches frequency coordinates spanning 0..Nyquist to a
// magnitude slice.
func assembleSpectrum(mag []float64, sampleRate float64) Spectrum {
	spec := make(Spectrum, len(mag))
	if len(mag) == 0 {
		return spec
	}

	step := 0.0
	if len(mag) > 1 {
		step = sampleRate / 2 / float64(len(mag)-1)
	}

	for k := range mag {
		spec[k] = Point{FrequencyHz: float64(k) * step, Amplitude: mag[k]}
	}

	return spec
}

// attenuateFloorNoise divides bins below thresholdPct of the maximum by the
// attenuation factor.
func attenuateFloorNoise(mag []float64, thresholdPct, attenuation float64) {
	if len(mag) == 0 {
		return
	}

	max := 0.0
	for _, v := range mag {
		if v > max {
			max = v
		}
	}

	if max == 0 {
		return
	}

	threshold := max * thresholdPct
	for i, v := range mag {
		if v < threshold {
			mag[i] = v / attenuation
		}
	}
}

// suppressSubCutoff scales down bins below the highpass cutoff, removing
// residual roll-off artifacts: everything below the cutoff is scaled by 0.2,
// and bins below 0.75x the cutoff by a further 0.05.
func suppressSubCutoff(spec Spectrum, cutoffHz float64) {
	for i := range spec {
		if spec[i].FrequencyHz > cutoffHz {
			break
		}

		spec[i].Amplitude *= subCutoffGain
	}

	deep := cutoffHz * 0.75
	for i := range spec {
		if spec[i].FrequencyHz > deep {
			break
		}

		spec[i].Amplitude *= deepSubCutoffGain
	}
}

func truncateToFMax(spec Spectrum, fmax float64) Spectrum {
	if fmax <= 0 {
		return spec
	}

	for i, p := range spec {
		if p.FrequencyHz >= fmax {
			return spec[:i]
		}
	}

	return spec
}

// conditionedTimeseries produces the display velocity series for the whole
// record.
func conditionedTimeseries(raw []float64, cfg Config) ([]TimePoint, error) {
	velocity, err := condition.Process(raw, condition.Config{
		SampleRate: cfg.SampleRate,
		CutoffHz:   cfg.CutoffHz,
		Order:      2,
	})
	if err != nil {
		return nil, err
	}

	dt := 1 / cfg.SampleRate

	out := make([]TimePoint, len(velocity))
	for i, v := range velocity {
		out[i] = TimePoint{TimeSec: float64(i) * dt, Value: core.Round8(v)}
	}

	return out, nil
}

func overlapForLength(n int) float64 {
	if n > 40000 && n < 50000 {
		return 60
	}

	return 80
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

func blockSizeFor(resolution float64, n int) int {
	blockSize := baseBlockSize
	if resolution > 1 {
		blockSize = int(baseBlockSize * resolution / 2)
	}

	if blockSize > n {
		blockSize = n
	}

	return blockSize
}

func normalizeConfig(cfg Config) Config {
	if cfg.CutoffHz <= 0 {
		cfg.CutoffHz = 4
	}

	if cfg.FloorNoiseThresholdPct <= 0 {
		cfg.FloorNoiseThresholdPct = defaultFloorNoiseThresholdPct
	}

	if cfg.FloorNoiseAttenuation <= 0 {
		cfg.FloorNoiseAttenuation = defaultFloorNoiseAttenuation
	}

	if cfg.Calibration == 0 {
		cfg.Calibration = 1
	}

	if cfg.Resolution <= 0 {
		cfg.Resolution = 1
	}

	return cfg
}
