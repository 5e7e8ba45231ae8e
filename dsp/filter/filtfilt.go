package filter

import "fmt"

// FiltFilt applies the given biquad cascade forward and backward over data,
// producing a zero-phase filtered copy. The input is not modified.
//
// Both ends are extended with an odd reflection of the signal before
// filtering to suppress edge transients, mirroring the conventional
// forward-backward filtering approach for offline records.
func FiltFilt(sections []Coefficients, data []float64) ([]float64, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("filtfilt requires at least one section")
	}

	if len(data) < 2 {
		return nil, fmt.Errorf("filtfilt requires at least 2 samples: %d", len(data))
	}

	padLen := 3 * (2*len(sections) + 1)
	if padLen > len(data)-1 {
		padLen = len(data) - 1
	}

	padded := padOddReflect(data, padLen)

	// Forward pass.
	runCascade(sections, padded)

	// Backward pass.
	reverse(padded)
	runCascade(sections, padded)
	reverse(padded)

	out := make([]float64, len(data))
	copy(out, padded[padLen:padLen+len(data)])

	return out, nil
}

// runCascade filters buf in-place through fresh zero-state sections.
func runCascade(sections []Coefficients, buf []float64) {
	for _, c := range sections {
		NewSection(c).ProcessBlock(buf)
	}
}

// padOddReflect extends data with padLen odd-reflected samples on both ends:
// pre[i] = 2*x[0] - x[padLen-i], post mirrored around the last sample.
func padOddReflect(data []float64, padLen int) []float64 {
	n := len(data)
	out := make([]float64, padLen+n+padLen)

	for i := 0; i < padLen; i++ {
		out[i] = 2*data[0] - data[padLen-i]
	}

	copy(out[padLen:], data)

	for i := 0; i < padLen; i++ {
		out[padLen+n+i] = 2*data[n-1] - data[n-2-i]
	}

	return out
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
