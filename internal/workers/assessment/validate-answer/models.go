// internal/workers/assessment/validate-answer/models.go
package validateanswer

import (
	"encoding/json"

	"assessment-workers/internal/models"
)

type Input struct {
	AssessmentID string          `json:"assessmentId"`
	Question     models.Question `json:"question"`
	Answer       json.RawMessage `json:"answer"`
}

type Output struct {
	Valid        bool   `json:"valid"`
	QuestionID   string `json:"questionId"`
	QuestionType string `json:"questionType"`
	DataFormat   string `json:"dataFormat"`
}
