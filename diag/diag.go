// Package diag scores a closed catalogue of machine fault signatures
// against the harmonic pattern of a vibration spectrum.
//
// The rules derive from the "Common Defects in all Machine Components"
// condition-monitoring reference. Scoring compares harmonic amplitudes
// relative to each other rather than against absolute thresholds, so it
// works at any signal scale.
package diag

import (
	"fmt"
	"strings"

	"github.com/cezzan12/fault-detection/measure/harmonics"
	"github.com/cezzan12/fault-detection/measure/severity"
)

// Fault identifies a catalogue entry.
type Fault int

const (
	// FaultUnavailable marks a diagnosis that could not be made for lack
	// of input data. It is a result value, not an error.
	FaultUnavailable Fault = iota
	// FaultNormal is the verdict when no signature scores above the
	// detection threshold.
	FaultNormal
	// FaultUnbalance is a dominant 1x with low harmonic content.
	FaultUnbalance
	// FaultMisalignment is prominent 1x, 2x, 3x peaks.
	FaultMisalignment
	// FaultCouplingDefects is a major 3x or 4x with multiple harmonics.
	FaultCouplingDefects
	// FaultBearingLooseness is a 0.5x subharmonic with multiple harmonics.
	FaultBearingLooseness
	// FaultBearingFitment is a 2x that dominates the 1x.
	FaultBearingFitment
	// FaultHighVibration is an elevated overall level with no specific
	// harmonic pattern.
	FaultHighVibration
	// FaultMechanicalLooseness is reported by the quick screen only.
	FaultMechanicalLooseness
	// FaultElectricalIssues is reported by the quick screen only.
	FaultElectricalIssues
)

// String returns the catalogue name of the fault.
func (f Fault) String() string {
	switch f {
	case FaultUnavailable:
		return "Diagnosis unavailable"
	case FaultNormal:
		return "Normal"
	case FaultUnbalance:
		return "Unbalance"
	case FaultMisalignment:
		return "Misalignment"
	case FaultCouplingDefects:
		return "Coupling Defects"
	case FaultBearingLooseness:
		return "Bearing Looseness"
	case FaultBearingFitment:
		return "Bearing Fitment"
	case FaultHighVibration:
		return "High Vibration"
	case FaultMechanicalLooseness:
		return "Mechanical Looseness"
	case FaultElectricalIssues:
		return "Electrical Issues"
	default:
		return fmt.Sprintf("Fault(%d)", int(f))
	}
}

// MarshalText encodes the fault as its catalogue name.
func (f Fault) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Description returns the signature summary for the fault.
func (f Fault) Description() string {
	if t, ok := faultTraits[f]; ok {
		return t.description
	}

	return ""
}

// Recommendation returns the maintenance action for the fault.
func (f Fault) Recommendation() string {
	if t, ok := faultTraits[f]; ok {
		return t.recommendation
	}

	return faultTraits[FaultNormal].recommendation
}

type traits struct {
	description    string
	recommendation string
}

var faultTraits = map[Fault]traits{
	FaultUnbalance: {
		description:    "Dominant 1X with low harmonic content",
		recommendation: "Schedule balancing service for the rotating component",
	},
	FaultMisalignment: {
		description:    "High vibration in Horizontal and Axial; Prominent peaks at 1X, 2X, 3X",
		recommendation: "Check the coupling and achieve precision alignment between motor and pump/Fan/Gearbox/Compressor",
	},
	FaultCouplingDefects: {
		description:    "High vibration in both drive and driven; Major 3X, 4X or Multiple harmonics of 1X",
		recommendation: "Check the coupling for cracks, wear, or looseness and achieve precision alignment",
	},
	FaultBearingLooseness: {
		description:    "0.5X present; Multiple harmonics of 1X order",
		recommendation: "Check the pump bearing clearances and the interference fit of the bearings with housings",
	},
	FaultBearingFitment: {
		description:    "2X dominant; Major amplitude in 2X order of running speed",
		recommendation: "Check the pump bearing clearances and the interference fit of the bearings with housings",
	},
	FaultHighVibration: {
		description:    "Overall vibration level exceeds acceptable limits",
		recommendation: "Immediate inspection required - check all mechanical components",
	},
	FaultNormal: {
		description:    "No significant fault indicators detected",
		recommendation: "Continue regular monitoring",
	},
}

// catalogueOrder fixes both the scoring order and the tie-break: when two
// faults reach the same top score, the one listed first wins.
var catalogueOrder = []Fault{
	FaultUnbalance,
	FaultMisalignment,
	FaultCouplingDefects,
	FaultBearingLooseness,
	FaultBearingFitment,
	FaultHighVibration,
}

// Confidence grades how well the evidence supports the verdict.
type Confidence int

const (
	ConfidenceLow Confidence = iota + 1
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the confidence grade name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "Low"
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceHigh:
		return "High"
	default:
		return fmt.Sprintf("Confidence(%d)", int(c))
	}
}

// MarshalText encodes the confidence as its grade name.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// detectionThreshold is the minimum score for a fault to count as detected.
const detectionThreshold = 4

// highVibRMSThreshold is the velocity RMS in mm/s above which the overall
// level alone scores as high vibration.
const highVibRMSThreshold = 2.8

// Input carries the spectral features a diagnosis is scored from.
type Input struct {
	// RPM is the shaft speed. A missing or non-positive value makes the
	// diagnosis unavailable.
	RPM float64
	// RunningFreqHz is the shaft rotation frequency; derived from RPM
	// when zero.
	RunningFreqHz float64
	// Harmonics are the detected running-speed harmonics.
	Harmonics []harmonics.Harmonic
	// FixedFrequencyPeaks are detected electrical-frequency peaks.
	FixedFrequencyPeaks []harmonics.Peak
	// SubharmonicAmplitude is the amplitude found at 0.5x running speed,
	// zero when absent.
	SubharmonicAmplitude float64
	// SeverityZone is the ISO zone of the same reading, zero when unknown.
	SeverityZone severity.Zone
	// VelocityRMS is the overall velocity RMS in mm/s, zero when unknown.
	VelocityRMS float64
}

// FaultScore is the score one catalogue entry reached during diagnosis.
type FaultScore struct {
	Fault    Fault `json:"fault"`
	Score    int   `json:"score"`
	Detected bool  `json:"detected"`
}

// Result is a completed diagnosis.
type Result struct {
	Fault          Fault        `json:"fault"`
	Confidence     Confidence   `json:"confidence"`
	Description    string       `json:"description,omitempty"`
	Evidence       []string     `json:"evidence"`
	Recommendation string       `json:"recommendation"`
	HarmonicCount  int          `json:"harmonicCount"`
	Scores         []FaultScore `json:"allFaults,omitempty"`
}

// Unavailable reports whether the diagnosis could not be made.
func (r Result) Unavailable() bool {
	return r.Fault == FaultUnavailable
}

// Diagnose scores the fault catalogue against the input features and
// returns the best-evidenced verdict. Missing RPM or an empty harmonic list
// yields an unavailable result rather than an error.
func Diagnose(in Input) Result {
	var missing []string
	if in.RPM <= 0 {
		missing = append(missing, "RPM")
	}

	if len(in.Harmonics) == 0 {
		missing = append(missing, "FFT peak data")
	}

	if len(missing) > 0 {
		return Result{
			Fault:          FaultUnavailable,
			Confidence:     ConfidenceLow,
			Evidence:       []string{fmt.Sprintf("Required data missing: %s", strings.Join(missing, ", "))},
			Recommendation: "Ensure all required data is available for diagnosis",
		}
	}

	f := extractFeatures(in)

	scores := make(map[Fault]int, len(catalogueOrder))
	evidence := make(map[Fault][]string, len(catalogueOrder))
	for _, fault := range catalogueOrder {
		scores[fault], evidence[fault] = scoreFault(fault, f)
	}

	best, ok := selectDetected(scores)
	if !ok {
		// No signature matched but the level alone may still indicate a
		// problem.
		if scores[FaultHighVibration] >= 3 {
			best = FaultHighVibration
		} else if zoneElevated(in.SeverityZone) {
			return Result{
				Fault:       FaultHighVibration,
				Confidence:  ConfidenceMedium,
				Description: FaultHighVibration.Description(),
				Evidence: []string{
					fmt.Sprintf("Overall vibration level elevated (Zone %s)", in.SeverityZone),
					"No specific fault pattern identified",
				},
				Recommendation: "Detailed inspection recommended to identify root cause",
				HarmonicCount:  f.harmonicCount,
				Scores:         scoreboard(scores),
			}
		} else {
			return Result{
				Fault:          FaultNormal,
				Confidence:     ConfidenceHigh,
				Description:    FaultNormal.Description(),
				Evidence:       []string{"No significant fault indicators detected from available data"},
				Recommendation: FaultNormal.Recommendation(),
				HarmonicCount:  f.harmonicCount,
				Scores:         scoreboard(scores),
			}
		}
	}

	bestScore := scores[best]

	confidence := ConfidenceLow
	switch {
	case bestScore >= 6:
		confidence = ConfidenceHigh
	case bestScore >= detectionThreshold:
		confidence = ConfidenceMedium
	}

	if zoneElevated(in.SeverityZone) && confidence == ConfidenceMedium {
		confidence = ConfidenceHigh
	}

	ev := evidence[best]
	if zoneElevated(in.SeverityZone) && in.VelocityRMS > 0 {
		ev = append(ev, fmt.Sprintf("Zone %s vibration level (%.2f mm/s RMS)", in.SeverityZone, in.VelocityRMS))
	}

	if len(ev) == 0 {
		ev = []string{"Fault pattern detected"}
	}

	return Result{
		Fault:          best,
		Confidence:     confidence,
		Description:    best.Description(),
		Evidence:       ev,
		Recommendation: best.Recommendation(),
		HarmonicCount:  f.harmonicCount,
		Scores:         scoreboard(scores),
	}
}

// features are the amplitude ratios the rules operate on.
type features struct {
	amp05x        float64
	amp1x         float64
	amp2x         float64
	amp3x         float64
	amp4x         float64
	maxAmp        float64
	harmonicCount int
	zone          severity.Zone
	velocityRMS   float64
}

func extractFeatures(in Input) features {
	f := features{
		amp05x:      in.SubharmonicAmplitude,
		amp1x:       harmonics.AmplitudeAtOrder(in.Harmonics, 1),
		amp2x:       harmonics.AmplitudeAtOrder(in.Harmonics, 2),
		amp3x:       harmonics.AmplitudeAtOrder(in.Harmonics, 3),
		amp4x:       harmonics.AmplitudeAtOrder(in.Harmonics, 4),
		maxAmp:      harmonics.MaxAmplitude(in.Harmonics),
		zone:        in.SeverityZone,
		velocityRMS: in.VelocityRMS,
	}

	// Harmonics count as significant above 10% of the strongest one.
	threshold := 0.01
	if f.maxAmp > 0 {
		threshold = f.maxAmp * 0.1
	}

	for _, h := range in.Harmonics {
		if h.Amplitude > threshold {
			f.harmonicCount++
		}
	}

	return f
}

func scoreFault(fault Fault, f features) (int, []string) {
	switch fault {
	case FaultUnbalance:
		return scoreUnbalance(f)
	case FaultMisalignment:
		return scoreMisalignment(f)
	case FaultCouplingDefects:
		return scoreCouplingDefects(f)
	case FaultBearingLooseness:
		return scoreBearingLooseness(f)
	case FaultBearingFitment:
		return scoreBearingFitment(f)
	case FaultHighVibration:
		return scoreHighVibration(f)
	default:
		return 0, nil
	}
}

func scoreUnbalance(f features) (int, []string) {
	score := 0
	var ev []string

	if f.amp1x >= f.maxAmp*0.7 {
		score += 3
		ev = append(ev, fmt.Sprintf("Dominant 1x running frequency peak (%.3f mm/s)", f.amp1x))
	}

	if f.amp1x > 0 && f.amp2x < f.amp1x*0.35 && f.amp3x < f.amp1x*0.25 {
		score += 2
		ev = append(ev, "Low harmonic content")
	}

	return score, ev
}

func scoreMisalignment(f features) (int, []string) {
	score := 0
	var ev []string

	if f.amp1x > 0 && f.amp2x > f.amp1x*0.30 {
		score += 3
		ev = append(ev, fmt.Sprintf("Significant 2x harmonic (%.3f mm/s, %.0f%% of 1x)", f.amp2x, f.amp2x/f.amp1x*100))
	}

	if f.amp1x > 0 && f.amp3x > f.amp1x*0.15 {
		score += 2
		ev = append(ev, fmt.Sprintf("Elevated 3x harmonic (%.3f mm/s)", f.amp3x))
	}

	return score, ev
}

func scoreCouplingDefects(f features) (int, []string) {
	score := 0
	var ev []string

	if f.amp1x > 0 && f.amp3x > f.amp1x*0.50 {
		score += 3
		ev = append(ev, fmt.Sprintf("Strong 3x harmonic (%.3f mm/s)", f.amp3x))
	}

	if f.amp1x > 0 && f.amp4x > f.amp1x*0.40 {
		score += 3
		ev = append(ev, fmt.Sprintf("Strong 4x harmonic (%.3f mm/s)", f.amp4x))
	}

	if f.harmonicCount >= 4 {
		score += 2
		ev = append(ev, fmt.Sprintf("Multiple harmonics detected (%d)", f.harmonicCount))
	}

	return score, ev
}

func scoreBearingLooseness(f features) (int, []string) {
	score := 0
	var ev []string

	if f.amp05x > f.maxAmp*0.1 {
		score += 4
		ev = append(ev, fmt.Sprintf("0.5x subharmonic detected (%.3f mm/s)", f.amp05x))
	}

	if f.harmonicCount >= 4 {
		score += 2
		ev = append(ev, fmt.Sprintf("Multiple harmonics of 1x order (%d)", f.harmonicCount))
	}

	return score, ev
}

func scoreBearingFitment(f features) (int, []string) {
	score := 0
	var ev []string

	if f.amp2x > f.amp1x*0.90 {
		score += 4
		ev = append(ev, fmt.Sprintf("2x dominant (%.3f mm/s vs 1x: %.3f mm/s)", f.amp2x, f.amp1x))
	}

	if f.amp2x >= f.maxAmp*0.9 {
		score += 2
		ev = append(ev, "2x is the dominant peak")
	}

	return score, ev
}

func scoreHighVibration(f features) (int, []string) {
	if zoneElevated(f.zone) || f.velocityRMS > highVibRMSThreshold {
		if f.velocityRMS > 0 {
			return 3, []string{fmt.Sprintf("High overall vibration level (%.2f mm/s RMS)", f.velocityRMS)}
		}

		return 3, []string{fmt.Sprintf("Vibration in %s zone (elevated)", f.zone)}
	}

	return 0, nil
}

func zoneElevated(z severity.Zone) bool {
	return z == severity.ZoneC || z == severity.ZoneD
}

// selectDetected picks the highest-scoring detected fault, breaking ties by
// catalogue order.
func selectDetected(scores map[Fault]int) (Fault, bool) {
	best := FaultNormal
	bestScore := 0
	found := false

	for _, fault := range catalogueOrder {
		s := scores[fault]
		if s < detectionThreshold {
			continue
		}

		if !found || s > bestScore {
			best = fault
			bestScore = s
			found = true
		}
	}

	return best, found
}

func scoreboard(scores map[Fault]int) []FaultScore {
	out := make([]FaultScore, 0, len(catalogueOrder))
	for _, fault := range catalogueOrder {
		out = append(out, FaultScore{
			Fault:    fault,
			Score:    scores[fault],
			Detected: scores[fault] >= detectionThreshold,
		})
	}

	return out
}
