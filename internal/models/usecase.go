// internal/models/usecase.go
package models

import "time"

// UseCase is a catalog entry describing a candidate initiative. The catalog
// store owns these rows; the recommendation engine only reads them and writes
// back the association on the assessment.
type UseCase struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category,omitempty"`
	PillarRequirements map[string]float64 `json:"pillarRequirements"`
	Tags               []string           `json:"tags,omitempty"`
	Active             bool               `json:"active"`
	DashboardVisible   bool               `json:"dashboardVisible"`
	Position           int                `json:"position"`
}

// RecommendedUseCase is one catalog entry that survived matching, with its
// fit score and rank in the result ordering.
type RecommendedUseCase struct {
	UseCaseID string  `json:"useCaseId"`
	Name      string  `json:"name"`
	FitScore  float64 `json:"fitScore"`
	Rank      int     `json:"rank"`
}

// RecommendationResult is the outcome of a generate run. It stays in memory
// until applied; once applied it is the durable record for the assessment
// until cleared or regenerated.
type RecommendationResult struct {
	ID                  string               `json:"id"`
	AssessmentID        string               `json:"assessmentId"`
	RecommendedUseCases []RecommendedUseCase `json:"recommendedUseCases"`
	Count               int                  `json:"count"`
	GeneratedAt         time.Time            `json:"generatedAt"`
}

// RecommendationResponse is the read-side view of a persisted recommendation.
type RecommendationResponse struct {
	AssessmentID        string               `json:"assessmentId"`
	RecommendedUseCases []RecommendedUseCase `json:"recommendedUseCases"`
	Count               int                  `json:"count"`
}
