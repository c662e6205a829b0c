// internal/workers/communication/report-send/models.go
package reportsend

import (
	"time"

	"assessment-workers/internal/models"
)

type Input struct {
	AssessmentID        string                      `json:"assessmentId"`
	RecipientEmail      string                      `json:"recipientEmail"`
	RecipientPhone      string                      `json:"recipientPhone,omitempty"`
	OrganizationName    string                      `json:"organizationName,omitempty"`
	Quadrant            string                      `json:"quadrant"`
	Impact              float64                     `json:"impact"`
	Effort              float64                     `json:"effort"`
	Scores              models.MaturityScores       `json:"scores"`
	RecommendedUseCases []models.RecommendedUseCase `json:"recommendedUseCases"`
}

type Output struct {
	Sent           bool      `json:"sent"`
	EmailMessageID string    `json:"emailMessageId,omitempty"`
	SMSMessageID   string    `json:"smsMessageId,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}
