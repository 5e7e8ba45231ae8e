// Package spectrum estimates single-sided velocity and acceleration spectra
// from raw accelerometer records.
//
// The velocity estimator follows the block-averaged approach used for
// bearing condition monitoring: the record is split into overlapping blocks,
// each block is integrated to velocity, highpass filtered, Hann windowed and
// transformed, and the per-block magnitude spectra are averaged. Floor-noise
// attenuation and sub-cutoff suppression clean up leakage and filter
// roll-off artifacts without distorting real peaks.
package spectrum
