// internal/models/question.go
package models

import "encoding/json"

// Question is a single typed question inside a section. The Type field must
// resolve against the question-type registry before an answer is accepted.
type Question struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	Position   int      `json:"position"`
	Required   bool     `json:"required"`
	MinValue   *float64 `json:"minValue,omitempty"`
	MaxValue   *float64 `json:"maxValue,omitempty"`
	LeftLabel  string   `json:"leftLabel,omitempty"`
	RightLabel string   `json:"rightLabel,omitempty"`
	Options    []Option `json:"options,omitempty"`
}

// Option is one selectable choice for option-backed question types.
type Option struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Value    string  `json:"value"`
	Weight   float64 `json:"weight,omitempty"`
	Position int     `json:"position"`
}

// Answer carries the raw submitted value for a question. The payload shape is
// governed by the data format declared for the question's type.
type Answer struct {
	QuestionID string          `json:"questionId"`
	Value      json.RawMessage `json:"value"`
}

// Section is an ordered group of questions with its own progress tracking.
type Section struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Position         int        `json:"position"`
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
	Questions        []Question `json:"questions,omitempty"`
}

// SectionProgress counts answered questions against the section total.
// Empty string, empty array and null submissions count as unanswered.
type SectionProgress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Complete reports whether every question in the section has an answer.
func (p SectionProgress) Complete() bool {
	return p.Total > 0 && p.Answered >= p.Total
}
