// Package condition converts raw accelerometer records into velocity records
// suitable for spectral severity analysis.
//
// The conditioning chain is: unit conversion (g to mm/s²), DC offset removal,
// cumulative trapezoidal integration to velocity, and zero-phase Butterworth
// highpass filtering to remove integration drift.
package condition

import (
	"fmt"

	"github.com/cezzan12/fault-detection/dsp/core"
	"github.com/cezzan12/fault-detection/dsp/filter"
	"github.com/cezzan12/fault-detection/dsp/signal"
)

// StandardGravityMms2 converts acceleration in g to mm/s².
const StandardGravityMms2 = 9807.0

const (
	defaultCutoffHz = 4.0
	defaultOrder    = 2
)

// Config holds conditioning parameters.
type Config struct {
	// SampleRate of the raw record in Hz. Required.
	SampleRate float64
	// CutoffHz is the highpass cutoff removing integration drift. Default 4 Hz.
	CutoffHz float64
	// Order of the Butterworth highpass. Default 2.
	Order int
}

// Conditioner converts acceleration records (g) to velocity records (mm/s).
type Conditioner struct {
	cfg Config
}

// NewConditioner creates a conditioner, applying defaults for unset fields.
func NewConditioner(cfg Config) (*Conditioner, error) {
	cfg = normalizeConfig(cfg)

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %f", core.ErrInvalidParameter, cfg.SampleRate)
	}

	return &Conditioner{cfg: cfg}, nil
}

// Process runs the full conditioning chain over a raw acceleration record in
// g and returns the velocity record in mm/s. The output has the same length
// as the input; the input is not modified.
func Process(raw []float64, cfg Config) ([]float64, error) {
	c, err := NewConditioner(cfg)
	if err != nil {
		return nil, err
	}

	return c.Process(raw)
}

// Process converts one raw acceleration record to velocity.
func (c *Conditioner) Process(raw []float64) ([]float64, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: conditioning requires at least 2 samples: %d", core.ErrInsufficientData, len(raw))
	}

	accel := signal.Scale(raw, StandardGravityMms2)
	accel = signal.DetrendMean(accel)

	velocity, err := signal.CumTrapz(accel, 1/c.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	sections := filter.ButterworthHP(c.cfg.CutoffHz, c.cfg.Order, c.cfg.SampleRate)
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: highpass design failed for cutoff %f Hz at %f Hz",
			core.ErrInvalidParameter, c.cfg.CutoffHz, c.cfg.SampleRate)
	}

	return filter.FiltFilt(sections, velocity)
}

// Config returns the effective configuration after defaulting.
func (c *Conditioner) Config() Config {
	return c.cfg
}

func normalizeConfig(cfg Config) Config {
	if cfg.CutoffHz <= 0 {
		cfg.CutoffHz = defaultCutoffHz
	}

	if cfg.Order <= 0 {
		cfg.Order = defaultOrder
	}

	return cfg
}
