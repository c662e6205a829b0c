// internal/assessment/scoring/normalizer.go
package scoring

import (
	"fmt"
	"math"
)

// Precision is the fixed number of decimal places every score in the system
// is rounded to before display or comparison.
const Precision = 1

// epsilon absorbs float64 representation noise when comparing two already
// rounded values.
const epsilon = 1e-9

// Round rounds a score to one decimal place, halves away from zero.
// Rounding an already rounded value is a no-op.
func Round(score float64) float64 {
	return math.Round(score*10) / 10
}

// Format renders a score rounded to one decimal place, e.g. "3.5".
func Format(score float64) string {
	return fmt.Sprintf("%.1f", Round(score))
}

// IsAboveOrEqual reports whether score >= threshold after rounding BOTH
// operands. Decisions made here always match what the user sees on screen:
// a displayed 3.0 never fails a 3.0 threshold.
func IsAboveOrEqual(score, threshold float64) bool {
	return Round(score) >= Round(threshold)-epsilon
}

// IsBelowOrEqual reports whether score <= threshold after rounding both
// operands.
func IsBelowOrEqual(score, threshold float64) bool {
	return Round(score) <= Round(threshold)+epsilon
}
