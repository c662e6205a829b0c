// internal/assessment/scoring/normalizer_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Round Tests
// ==========================

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected float64
	}{
		{"already one decimal", 3.5, 3.5},
		{"rounds down", 3.44, 3.4},
		{"rounds up", 3.46, 3.5},
		{"half rounds away from zero", 3.45, 3.5},
		{"negative half rounds away from zero", -3.45, -3.5},
		{"zero", 0, 0},
		{"integer stays integer valued", 4, 4.0},
		{"repeating fraction", 10.0 / 3.0, 3.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Round(tt.score), 1e-12)
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	scores := []float64{1.0, 2.35, 3.45, 4.999, -2.55, 0.049}
	for _, s := range scores {
		once := Round(s)
		assert.Equal(t, once, Round(once), "rounding twice must equal rounding once for %v", s)
	}
}

// ==========================
// Format Tests
// ==========================

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{"one decimal kept", 3.5, "3.5"},
		{"integer gains decimal", 4, "4.0"},
		{"rounds before formatting", 2.97, "3.0"},
		{"negative", -1.25, "-1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.score))
		})
	}
}

// ==========================
// Comparator Tests
// ==========================

func TestIsAboveOrEqual(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		expected  bool
	}{
		{"clearly above", 4.2, 3.0, true},
		{"exactly equal", 3.0, 3.0, true},
		{"clearly below", 2.1, 3.0, false},
		{"rounds up to meet threshold", 2.96, 3.0, true},
		{"rounds down below threshold", 2.94, 3.0, false},
		{"threshold rounds too", 3.0, 3.04, true},
		{"float noise on equal values", 0.1 + 0.2, 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAboveOrEqual(tt.score, tt.threshold))
		})
	}
}

func TestIsBelowOrEqual(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		expected  bool
	}{
		{"clearly below", 2.0, 3.0, true},
		{"exactly equal", 3.0, 3.0, true},
		{"clearly above", 3.8, 3.0, false},
		{"rounds down to meet threshold", 3.04, 3.0, true},
		{"rounds up above threshold", 3.06, 3.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBelowOrEqual(tt.score, tt.threshold))
		})
	}
}

func TestComparators_AgreeWithDisplay(t *testing.T) {
	// Any score that formats as "3.0" must pass a 3.0 threshold and any score
	// that formats below must not.
	scores := []float64{2.95, 2.96, 2.99, 3.0, 3.01, 3.04}
	for _, s := range scores {
		displayedAtOrAbove := Format(s) >= "3.0"
		assert.Equal(t, displayedAtOrAbove, IsAboveOrEqual(s, 3.0),
			"decision must match displayed value for %v (shown %s)", s, Format(s))
	}
}
