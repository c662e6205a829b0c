// internal/workers/recommendation/clear-recommendations/models.go
package clearrecommendations

type Input struct {
	AssessmentID string `json:"assessmentId"`
}

type Output struct {
	Cleared      bool   `json:"cleared"`
	AssessmentID string `json:"assessmentId"`
}
