// Package severity classifies machine vibration against the ISO 10816-3
// velocity severity zones.
package severity

import (
	"fmt"
	"math"

	"github.com/cezzan12/fault-detection/dsp/spectrum"
	"github.com/cezzan12/fault-detection/stats/frequency"
)

// Class is an ISO 10816-3 machine group.
type Class int

const (
	// ClassI covers small machines up to 15 kW.
	ClassI Class = iota + 1
	// ClassII covers medium machines 15 to 75 kW without special foundations.
	ClassII
	// ClassIII covers large machines on rigid foundations.
	ClassIII
	// ClassIV covers large machines on soft foundations.
	ClassIV
)

// DefaultClass is assumed when the machine group is unknown.
const DefaultClass = ClassII

// ParseClass maps a roman-numeral group name to its Class, falling back to
// DefaultClass for unrecognized input.
func ParseClass(s string) Class {
	switch s {
	case "I":
		return ClassI
	case "II":
		return ClassII
	case "III":
		return ClassIII
	case "IV":
		return ClassIV
	default:
		return DefaultClass
	}
}

// String returns the roman-numeral group name.
func (c Class) String() string {
	switch c {
	case ClassI:
		return "I"
	case ClassII:
		return "II"
	case ClassIII:
		return "III"
	case ClassIV:
		return "IV"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// MarshalText encodes the class as its roman-numeral name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Zone is an ISO 10816-3 evaluation zone, ordered from best to worst.
type Zone int

const (
	// ZoneA is newly commissioned machine vibration.
	ZoneA Zone = iota + 1
	// ZoneB is acceptable for unrestricted long-term operation.
	ZoneB
	// ZoneC is unsatisfactory for long-term continuous operation.
	ZoneC
	// ZoneD is severe enough to cause damage.
	ZoneD
)

// String returns the single-letter zone name.
func (z Zone) String() string {
	switch z {
	case ZoneA:
		return "A"
	case ZoneB:
		return "B"
	case ZoneC:
		return "C"
	case ZoneD:
		return "D"
	default:
		return fmt.Sprintf("Zone(%d)", int(z))
	}
}

// MarshalText encodes the zone as its single-letter name.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// Label returns the conventional condition description for the zone.
func (z Zone) Label() string {
	switch z {
	case ZoneA:
		return "Normal"
	case ZoneB:
		return "Satisfactory"
	case ZoneC:
		return "Alert"
	case ZoneD:
		return "Unacceptable"
	default:
		return "Unknown"
	}
}

// Worse reports whether z is a more severe zone than other.
func (z Zone) Worse(other Zone) bool {
	return z > other
}

// Thresholds are the upper zone boundaries in mm/s RMS. A reading at or
// below AUpper is zone A, at or below BUpper zone B, and so on. DUpper is an
// open-ended sentinel.
type Thresholds struct {
	AUpper float64 `json:"aUpper"`
	BUpper float64 `json:"bUpper"`
	CUpper float64 `json:"cUpper"`
	DUpper float64 `json:"dUpper"`
}

// thresholdsByClass holds the ISO 10816-3 zone boundaries per machine group.
var thresholdsByClass = map[Class]Thresholds{
	ClassI:   {0.71, 1.8, 4.5, 99999},
	ClassII:  {1.12, 2.8, 7.1, 99999},
	ClassIII: {1.8, 4.5, 11.2, 99999},
	ClassIV:  {2.8, 7.1, 18.0, 99999},
}

// ThresholdsFor returns the zone boundaries for the class, falling back to
// DefaultClass for unknown groups.
func ThresholdsFor(class Class) Thresholds {
	if t, ok := thresholdsByClass[class]; ok {
		return t
	}

	return thresholdsByClass[DefaultClass]
}

// Result is a severity verdict for one RMS reading.
type Result struct {
	Class      Class      `json:"machineClass"`
	Zone       Zone       `json:"zone"`
	Label      string     `json:"label"`
	RMS        float64    `json:"velocityRmsMms"`
	Thresholds Thresholds `json:"thresholds"`
}

// Classify maps a velocity RMS reading in mm/s to its severity zone for the
// given machine class. Unknown classes use DefaultClass. The reported RMS is
// rounded to three decimals.
func Classify(rmsMms float64, class Class) Result {
	if _, ok := thresholdsByClass[class]; !ok {
		class = DefaultClass
	}

	t := thresholdsByClass[class]

	zone := ZoneD
	switch {
	case rmsMms <= t.AUpper:
		zone = ZoneA
	case rmsMms <= t.BUpper:
		zone = ZoneB
	case rmsMms <= t.CUpper:
		zone = ZoneC
	}

	return Result{
		Class:      class,
		Zone:       zone,
		Label:      zone.Label(),
		RMS:        math.Round(rmsMms*1000) / 1000,
		Thresholds: t,
	}
}

// OverallRMS estimates the velocity severity of a spectrum as the larger of
// the 10-1000 Hz band root-sum-square and the running-speed amplitude. The
// band term captures broadband energy while the 1x term keeps a single
// dominant peak from being diluted.
func OverallRMS(spec spectrum.Spectrum, amplitude1x float64) float64 {
	band := frequency.BandRSS(spec, 10, 1000)
	if amplitude1x > band {
		return amplitude1x
	}

	return band
}
