// internal/assessment/scoring/classifier.go
package scoring

import "assessment-workers/internal/models"

// DefaultMidpoint splits the 1-5 axes for quadrant classification.
const DefaultMidpoint = 3.0

// Classify places an (impact, effort) pair into one of the four quadrants.
// Values sitting exactly on the midpoint count as high on that axis, so the
// midpoint itself classifies as a major project.
func Classify(impact, effort, midpoint float64) string {
	highImpact := IsAboveOrEqual(impact, midpoint)
	highEffort := IsAboveOrEqual(effort, midpoint)

	switch {
	case highImpact && !highEffort:
		return models.QuadrantQuickWin
	case highImpact && highEffort:
		return models.QuadrantMajorProject
	case !highImpact && highEffort:
		return models.QuadrantExperimental
	default:
		return models.QuadrantFillIn
	}
}

// QuadrantLabel returns the human-readable display string for a quadrant.
func QuadrantLabel(quadrant string) string {
	switch quadrant {
	case models.QuadrantQuickWin:
		return "Quick Win"
	case models.QuadrantMajorProject:
		return "Major Project"
	case models.QuadrantFillIn:
		return "Fill In"
	case models.QuadrantExperimental:
		return "Experimental"
	default:
		return quadrant
	}
}
