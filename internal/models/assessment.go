// internal/models/assessment.go
package models

// Pillar identifiers for the maturity dimensions scored by an assessment.
const (
	PillarStrategy   = "strategy"
	PillarData       = "data"
	PillarTechnology = "technology"
	PillarPeople     = "people"
	PillarGovernance = "governance"
)

// MaturityScores maps a pillar identifier to its score on the 1-5 scale.
// Produced by answer aggregation outside this core.
type MaturityScores map[string]float64

// Quadrant labels for the impact/effort classification. Closed set; the
// classifier never emits anything outside these four.
const (
	QuadrantQuickWin     = "quick-win"
	QuadrantMajorProject = "major-project"
	QuadrantFillIn       = "fill-in"
	QuadrantExperimental = "experimental"
)
