// internal/workers/assessment/track-section-progress/models.go
package tracksectionprogress

import (
	"assessment-workers/internal/assessment/navigation"
	"assessment-workers/internal/models"
)

type Input struct {
	AssessmentID string           `json:"assessmentId"`
	SectionID    string           `json:"sectionId"`
	State        navigation.State `json:"state"`
}

type Output struct {
	AssessmentID    string                            `json:"assessmentId"`
	Current         string                            `json:"current"`
	Completed       []string                          `json:"completed"`
	Reachable       []string                          `json:"reachable"`
	AllComplete     bool                              `json:"allComplete"`
	SectionComplete bool                              `json:"sectionComplete"`
	Progress        map[string]models.SectionProgress `json:"progress"`
}
