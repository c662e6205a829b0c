// internal/workers/recommendation/generate-recommendations/models.go
package generaterecommendations

import (
	"time"

	"assessment-workers/internal/models"
)

type Input struct {
	AssessmentID string                `json:"assessmentId"`
	Scores       models.MaturityScores `json:"scores"`
	// Catalog overrides the stored catalog when supplied by the workflow.
	Catalog []models.UseCase `json:"catalog,omitempty"`
}

type Output struct {
	RecommendationID    string                      `json:"recommendationId"`
	AssessmentID        string                      `json:"assessmentId"`
	RecommendedUseCases []models.RecommendedUseCase `json:"recommendedUseCases"`
	Count               int                         `json:"count"`
	GeneratedAt         time.Time                   `json:"generatedAt"`
}
