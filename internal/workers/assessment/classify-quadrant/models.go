// internal/workers/assessment/classify-quadrant/models.go
package classifyquadrant

type Input struct {
	AssessmentID string   `json:"assessmentId"`
	Impact       float64  `json:"impact"`
	Effort       float64  `json:"effort"`
	Midpoint     *float64 `json:"midpoint,omitempty"`
}

type Output struct {
	AssessmentID  string  `json:"assessmentId"`
	Quadrant      string  `json:"quadrant"`
	QuadrantLabel string  `json:"quadrantLabel"`
	Impact        string  `json:"impact"`
	Effort        string  `json:"effort"`
	Midpoint      float64 `json:"midpoint"`
}
