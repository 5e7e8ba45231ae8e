package diag

import (
	"fmt"

	"github.com/cezzan12/fault-detection/measure/harmonics"
)

// quickCatalogue fixes the scoring and tie-break order of the screen.
var quickCatalogue = []Fault{
	FaultUnbalance,
	FaultMisalignment,
	FaultMechanicalLooseness,
	FaultElectricalIssues,
	FaultNormal,
}

var quickRecommendations = map[Fault]string{
	FaultNormal:              "Continue regular monitoring",
	FaultUnbalance:           "Schedule balancing service",
	FaultMisalignment:        "Check and correct alignment",
	FaultMechanicalLooseness: "Inspect mounting and fasteners",
	FaultElectricalIssues:    "Check electrical connections",
}

// ScreenInput carries the features the quick screen operates on.
type ScreenInput struct {
	Harmonics           []harmonics.Harmonic
	FixedFrequencyPeaks []harmonics.Peak
	// Amplitude1xAxial and Amplitude1xHorizontal compare the 1x level
	// between axes; both are used only when AxisAmplitudesKnown is set.
	Amplitude1xAxial      float64
	Amplitude1xHorizontal float64
	AxisAmplitudesKnown   bool
}

// ScreenResult is the quick screen verdict with a coarse action grade.
type ScreenResult struct {
	Fault          Fault      `json:"faultType"`
	Confidence     Confidence `json:"confidence"`
	HarmonicCount  int        `json:"harmonicCount"`
	Evidence       []string   `json:"evidence"`
	Recommendation string     `json:"recommendation"`
	Action         string     `json:"action"`
}

// QuickScreen is a coarse single-pass fault screen over a smaller catalogue.
// Unlike Diagnose it accumulates all evidence into one list and always
// returns a named fault, falling back to Normal.
func QuickScreen(in ScreenInput) ScreenResult {
	var evidence []string

	scores := map[Fault]int{}

	significant := 0
	higherHarmonics := 0
	for _, h := range in.Harmonics {
		if !h.Significant {
			continue
		}

		significant++
		if h.Order >= 3 {
			higherHarmonics++
		}
	}

	amp1x := harmonics.AmplitudeAtOrder(in.Harmonics, 1)
	amp2x := harmonics.AmplitudeAtOrder(in.Harmonics, 2)

	if amp1x > 0 && significant <= 2 {
		scores[FaultUnbalance] += 3
		evidence = append(evidence, "Dominant 1x running frequency peak")

		if amp2x < amp1x*0.3 {
			scores[FaultUnbalance] += 2
			evidence = append(evidence, "Low harmonic content")
		}
	}

	if amp2x > amp1x*0.5 {
		scores[FaultMisalignment] += 3
		evidence = append(evidence, "Elevated 2x harmonic relative to 1x")
	}

	if in.AxisAmplitudesKnown && in.Amplitude1xAxial > in.Amplitude1xHorizontal*0.5 {
		scores[FaultMisalignment] += 2
		evidence = append(evidence, "Elevated axial vibration")
	}

	if significant >= 4 {
		scores[FaultMechanicalLooseness] += 3
		evidence = append(evidence, fmt.Sprintf("Multiple harmonics detected (%dx)", significant))
	}

	if higherHarmonics >= 3 {
		scores[FaultMechanicalLooseness] += 2
		evidence = append(evidence, "Significant higher harmonic content (3x and above)")
	}

	if len(in.FixedFrequencyPeaks) >= 2 {
		scores[FaultElectricalIssues] += 2
		evidence = append(evidence, fmt.Sprintf("Peaks at electrical frequencies (%d detected)", len(in.FixedFrequencyPeaks)))
	}

	if significant <= 1 && amp1x < 1.0 {
		scores[FaultNormal] += 3
		evidence = append(evidence, "Low overall vibration levels")
	}

	best := quickCatalogue[0]
	for _, fault := range quickCatalogue {
		if scores[fault] > scores[best] {
			best = fault
		}
	}

	confidence := ConfidenceLow
	switch {
	case scores[best] >= 5:
		confidence = ConfidenceHigh
	case scores[best] >= 3:
		confidence = ConfidenceMedium
	}

	action := "Monitor"
	if best != FaultNormal {
		switch confidence {
		case ConfidenceHigh:
			action = "Immediate Inspection Required"
		case ConfidenceMedium:
			action = "Schedule Inspection"
		}
	}

	if len(evidence) == 0 {
		evidence = []string{"No specific fault indicators detected"}
	}

	return ScreenResult{
		Fault:          best,
		Confidence:     confidence,
		HarmonicCount:  significant,
		Evidence:       evidence,
		Recommendation: quickRecommendations[best],
		Action:         action,
	}
}
