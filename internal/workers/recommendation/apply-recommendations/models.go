// internal/workers/recommendation/apply-recommendations/models.go
package applyrecommendations

import (
	"time"

	"assessment-workers/internal/models"
)

type Input struct {
	RecommendationID    string                      `json:"recommendationId"`
	AssessmentID        string                      `json:"assessmentId"`
	RecommendedUseCases []models.RecommendedUseCase `json:"recommendedUseCases"`
	Count               int                         `json:"count"`
	GeneratedAt         time.Time                   `json:"generatedAt"`
}

type Output struct {
	Applied          bool   `json:"applied"`
	AssessmentID     string `json:"assessmentId"`
	RecommendationID string `json:"recommendationId"`
}
