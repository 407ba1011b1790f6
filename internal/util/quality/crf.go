// Package quality maps the user-facing quality dial onto the encoder's
// constant rate factor.
package quality

import "strconv"

const (
	// CRFMin is the crf used at quality 0 (worst).
	CRFMin = 40
	// CRFMax is the crf used at quality 100 (best). Lower crf means better
	// quality for x264, hence CRFMax < CRFMin.
	CRFMax = 20
)

// CRF maps a quality percentage to a crf value.
// The arithmetic order is fixed so the rendered value is stable.
func CRF(percent int) float64 {
	return CRFMin + float64(CRFMax-CRFMin)*float64(percent)/100
}

// FormatCRF renders crf with the shortest exact decimal form, always keeping
// one fractional digit (25 -> "25.0", 33.4 -> "33.4").
func FormatCRF(crf float64) string {
	s := strconv.FormatFloat(crf, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}

// Clamp returns v constrained to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
