package analysis

import (
	"sync"

	"github.com/cezzan12/fault-detection/diag"
	"github.com/cezzan12/fault-detection/measure/severity"
)

// maxMergedEvidence caps the overall evidence list.
const maxMergedEvidence = 5

// BearingInput supplies raw data per axis. Nil axes are reported as
// unavailable rather than failing the whole bearing.
type BearingInput struct {
	Horizontal *Input
	Vertical   *Input
	Axial      *Input
}

func (b BearingInput) axis(a Axis) *Input {
	switch a {
	case AxisHorizontal:
		return b.Horizontal
	case AxisVertical:
		return b.Vertical
	case AxisAxial:
		return b.Axial
	default:
		return nil
	}
}

// AxisOutcome is the per-axis slot of a bearing analysis. An unavailable
// axis carries a human-readable reason and no analysis.
type AxisOutcome struct {
	Axis      Axis        `json:"axis"`
	Available bool        `json:"available"`
	Reason    string      `json:"reason,omitempty"`
	Analysis  *AxisResult `json:"analysis,omitempty"`
}

// BearingResult folds up to three axis analyses into one verdict.
type BearingResult struct {
	Axes             []AxisOutcome   `json:"axes"`
	OverallSeverity  severity.Result `json:"overallSeverity"`
	OverallDiagnosis diag.Result     `json:"overallDiagnosis"`
	// AxesAnalyzed counts the axes that produced a usable analysis.
	AxesAnalyzed int `json:"axesAnalyzed"`
}

// AnalyzeBearing runs the axis pipelines concurrently and aggregates their
// results. A failing axis is recorded as unavailable and never blocks or
// degrades its siblings.
func AnalyzeBearing(in BearingInput) BearingResult {
	outcomes := make([]AxisOutcome, len(axisOrder))

	var wg sync.WaitGroup
	for i, axis := range axisOrder {
		outcomes[i] = AxisOutcome{Axis: axis}

		axisIn := in.axis(axis)
		if axisIn == nil {
			outcomes[i].Reason = "no data supplied"
			continue
		}

		wg.Add(1)
		go func(slot *AxisOutcome, axis Axis, axisIn Input) {
			defer wg.Done()

			res, err := AnalyzeAxis(axis, axisIn)
			if err != nil {
				slot.Reason = err.Error()
				return
			}

			slot.Available = true
			slot.Analysis = &res
		}(&outcomes[i], axis, *axisIn)
	}
	wg.Wait()

	return aggregate(outcomes)
}

func aggregate(outcomes []AxisOutcome) BearingResult {
	out := BearingResult{Axes: outcomes}

	var worst *severity.Result
	var best *diag.Result

	for i := range outcomes {
		o := &outcomes[i]
		if !o.Available {
			continue
		}

		out.AxesAnalyzed++

		if worst == nil || o.Analysis.Severity.Zone.Worse(worst.Zone) {
			worst = &o.Analysis.Severity
		}

		d := &o.Analysis.Diagnosis
		if best == nil || d.Confidence > best.Confidence {
			best = d
		}
	}

	if out.AxesAnalyzed == 0 {
		out.OverallDiagnosis = diag.Result{
			Fault:          diag.FaultUnavailable,
			Confidence:     diag.ConfidenceLow,
			Evidence:       []string{"No axis produced a usable analysis"},
			Recommendation: "Ensure all required data is available for diagnosis",
		}

		return out
	}

	out.OverallSeverity = *worst

	overall := *best
	overall.Evidence = mergeEvidence(best, outcomes)

	for i := range outcomes {
		o := &outcomes[i]
		if o.Available && o.Analysis.Diagnosis.HarmonicCount > overall.HarmonicCount {
			overall.HarmonicCount = o.Analysis.Diagnosis.HarmonicCount
		}
	}

	out.OverallDiagnosis = overall

	return out
}

// mergeEvidence combines the evidence of every axis that agrees with the
// winning fault, winner first, deduplicated and capped.
func mergeEvidence(best *diag.Result, outcomes []AxisOutcome) []string {
	seen := map[string]bool{}
	var merged []string

	add := func(list []string) {
		for _, e := range list {
			if seen[e] || len(merged) >= maxMergedEvidence {
				continue
			}

			seen[e] = true
			merged = append(merged, e)
		}
	}

	add(best.Evidence)

	for i := range outcomes {
		o := &outcomes[i]
		if !o.Available {
			continue
		}

		if d := &o.Analysis.Diagnosis; d != best && d.Fault == best.Fault {
			add(d.Evidence)
		}
	}

	return merged
}
