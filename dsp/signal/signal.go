// Package signal provides basic time-domain operations on sample records:
// detrending, numerical integration, scaling, and deterministic test-signal
// generation.
package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// DetrendMean subtracts the arithmetic mean and returns a new slice.
func DetrendMean(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}

	mean := sum / float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}

	return out
}

// CumTrapz integrates y over a uniform time step dt using the cumulative
// trapezoidal rule with initial value 0, returning a new slice of the same
// length.
func CumTrapz(y []float64, dt float64) ([]float64, error) {
	if len(y) < 2 {
		return nil, fmt.Errorf("cumtrapz requires at least 2 samples: %d", len(y))
	}

	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("cumtrapz time step must be > 0: %f", dt)
	}

	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + (y[i-1]+y[i])/2*dt
	}

	return out, nil
}

// Scale multiplies every sample by factor and returns a new slice.
func Scale(data []float64, factor float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * factor
	}

	return out
}

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for the given sample rate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("generator sample rate must be > 0: %f", sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}
