// Package config loads analysis defaults from the environment. Every key is
// read with the VIBDIAG_ prefix, e.g. VIBDIAG_SAMPLE_RATE.
package config

import "github.com/spf13/viper"

// Load registers defaults and enables environment overrides. An optional
// config file path may be supplied; a missing file is not an error when the
// path is empty.
func Load(file string) error {
	viper.SetDefault("SAMPLE_RATE", 10000.0)
	viper.SetDefault("RPM", 1500.0)
	viper.SetDefault("MACHINE_CLASS", "II")
	viper.SetDefault("CUTOFF_HZ", 4.0)
	viper.SetDefault("FMAX", 1500.0)
	viper.SetDefault("CALIBRATION", 1.0)
	viper.SetDefault("FLOOR_NOISE_THRESHOLD_PCT", 0.0)
	viper.SetDefault("FLOOR_NOISE_ATTENUATION", 0.0)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetEnvPrefix("VIBDIAG")
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	return nil
}

func SampleRate() float64             { return viper.GetFloat64("SAMPLE_RATE") }
func RPM() float64                    { return viper.GetFloat64("RPM") }
func MachineClass() string            { return viper.GetString("MACHINE_CLASS") }
func CutoffHz() float64               { return viper.GetFloat64("CUTOFF_HZ") }
func FMax() float64                   { return viper.GetFloat64("FMAX") }
func Calibration() float64            { return viper.GetFloat64("CALIBRATION") }
func FloorNoiseThresholdPct() float64 { return viper.GetFloat64("FLOOR_NOISE_THRESHOLD_PCT") }
func FloorNoiseAttenuation() float64  { return viper.GetFloat64("FLOOR_NOISE_ATTENUATION") }
func LogLevel() string                { return viper.GetString("LOG_LEVEL") }
