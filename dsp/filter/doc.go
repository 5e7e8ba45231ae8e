// Package filter provides biquad IIR sections, Butterworth highpass design,
// and zero-phase (forward-backward) filtering for offline signal records.
//
// Highpass filtering removes the low-frequency drift introduced by numerical
// integration of acceleration records; zero-phase application keeps detected
// spectral peaks at their true frequencies.
package filter
