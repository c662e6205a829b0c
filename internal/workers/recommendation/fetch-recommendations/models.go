// internal/workers/recommendation/fetch-recommendations/models.go
package fetchrecommendations

import "assessment-workers/internal/models"

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	AssessmentID        string                      `json:"assessmentId"`
	RecommendedUseCases []models.RecommendedUseCase `json:"recommendedUseCases"`
	Count               int                         `json:"count"`
}
