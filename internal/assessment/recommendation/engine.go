// internal/assessment/recommendation/engine.go
package recommendation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"assessment-workers/internal/assessment/scoring"
	"assessment-workers/internal/models"
)

// DefaultAcceptanceThreshold is the minimum fit score a catalog entry needs
// on the 1-5 scale to be recommended.
const DefaultAcceptanceThreshold = 3.0

// Engine matches maturity scores against the use-case catalog. It holds no
// mutable state; Generate is a pure function of its inputs.
type Engine struct {
	threshold float64
}

// NewEngine builds an engine with the given acceptance threshold. Thresholds
// at or below zero fall back to the default.
func NewEngine(acceptanceThreshold float64) Engine {
	if acceptanceThreshold <= 0 {
		acceptanceThreshold = DefaultAcceptanceThreshold
	}
	return Engine{threshold: acceptanceThreshold}
}

// Generate scores every active catalog entry against the assessment's pillar
// scores and returns the accepted entries ranked by fit. Empty scores or an
// empty catalog yield an empty result with count 0, never an error. Two runs
// over the same inputs produce the same ordering.
func (e Engine) Generate(assessmentID string, scores models.MaturityScores, catalog []models.UseCase) models.RecommendationResult {
	result := models.RecommendationResult{
		ID:                  uuid.NewString(),
		AssessmentID:        assessmentID,
		RecommendedUseCases: []models.RecommendedUseCase{},
		GeneratedAt:         time.Now().UTC(),
	}

	if len(scores) == 0 || len(catalog) == 0 {
		return result
	}

	for _, entry := range catalog {
		if !entry.Active {
			continue
		}
		fit := scoring.Round(FitScore(scores, entry.PillarRequirements))
		if !scoring.IsAboveOrEqual(fit, e.threshold) {
			continue
		}
		result.RecommendedUseCases = append(result.RecommendedUseCases, models.RecommendedUseCase{
			UseCaseID: entry.ID,
			Name:      entry.Name,
			FitScore:  fit,
		})
	}

	// Stable sort keeps catalog order for equal rounded fits.
	sort.SliceStable(result.RecommendedUseCases, func(i, j int) bool {
		return result.RecommendedUseCases[i].FitScore > result.RecommendedUseCases[j].FitScore
	})
	for i := range result.RecommendedUseCases {
		result.RecommendedUseCases[i].Rank = i + 1
	}

	result.Count = len(result.RecommendedUseCases)
	return result
}

// FitScore projects how well the pillar scores satisfy an entry's
// requirements onto the 1-5 scale. Each required pillar contributes the
// capped ratio of achieved score to requirement; the mean ratio maps linearly
// from [0,1] to [1,5]. Entries without requirements fit everyone.
func FitScore(scores models.MaturityScores, requirements map[string]float64) float64 {
	if len(requirements) == 0 {
		return 5.0
	}

	var sum float64
	var count int
	for pillar, required := range requirements {
		count++
		if required <= 0 {
			sum += 1
			continue
		}
		ratio := scores[pillar] / required
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		sum += ratio
	}

	return 1 + 4*sum/float64(count)
}
