// internal/assessment/scoring/classifier_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assessment-workers/internal/models"
)

// ==========================
// Classify Tests
// ==========================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		impact   float64
		effort   float64
		expected string
	}{
		{"high impact low effort is quick win", 5, 1, models.QuadrantQuickWin},
		{"high impact high effort is major project", 4.5, 4.5, models.QuadrantMajorProject},
		{"low impact low effort is fill in", 1, 1, models.QuadrantFillIn},
		{"low impact high effort is experimental", 1, 5, models.QuadrantExperimental},
		{"midpoint on both axes counts as high", 3, 3, models.QuadrantMajorProject},
		{"midpoint impact only", 3, 2, models.QuadrantQuickWin},
		{"midpoint effort only", 2, 3, models.QuadrantExperimental},
		{"just under midpoint rounds in", 2.96, 2.96, models.QuadrantMajorProject},
		{"just under midpoint rounds out", 2.94, 2.94, models.QuadrantFillIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.impact, tt.effort, DefaultMidpoint))
		})
	}
}

func TestClassify_CustomMidpoint(t *testing.T) {
	// With a raised midpoint the same pair flips to the low side.
	assert.Equal(t, models.QuadrantMajorProject, Classify(3.5, 3.5, DefaultMidpoint))
	assert.Equal(t, models.QuadrantFillIn, Classify(3.5, 3.5, 4.0))
}

func TestClassify_ClosedSet(t *testing.T) {
	valid := map[string]bool{
		models.QuadrantQuickWin:     true,
		models.QuadrantMajorProject: true,
		models.QuadrantFillIn:       true,
		models.QuadrantExperimental: true,
	}

	for impact := 1.0; impact <= 5.0; impact += 0.5 {
		for effort := 1.0; effort <= 5.0; effort += 0.5 {
			q := Classify(impact, effort, DefaultMidpoint)
			assert.True(t, valid[q], "unexpected quadrant %q for (%v, %v)", q, impact, effort)
		}
	}
}

// ==========================
// QuadrantLabel Tests
// ==========================

func TestQuadrantLabel(t *testing.T) {
	assert.Equal(t, "Quick Win", QuadrantLabel(models.QuadrantQuickWin))
	assert.Equal(t, "Major Project", QuadrantLabel(models.QuadrantMajorProject))
	assert.Equal(t, "Fill In", QuadrantLabel(models.QuadrantFillIn))
	assert.Equal(t, "Experimental", QuadrantLabel(models.QuadrantExperimental))
	assert.Equal(t, "something-else", QuadrantLabel("something-else"))
}
