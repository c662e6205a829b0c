// internal/assessment/questiontypes/registry_test.go
package questiontypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/models"
)

// ==========================
// Registry Lookup Tests
// ==========================

func TestLookup(t *testing.T) {
	meta, ok := Lookup(TypeScale)
	require.True(t, ok)
	assert.Equal(t, TypeScale, meta.Type)
	assert.Equal(t, FormatNumber, meta.DataFormat)
	require.NotNil(t, meta.Rules.MinValue)
	assert.Equal(t, 1.0, *meta.Rules.MinValue)
	require.NotNil(t, meta.Rules.MaxValue)
	assert.Equal(t, 5.0, *meta.Rules.MaxValue)

	_, ok = Lookup("hologram")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	for _, typ := range Types() {
		assert.True(t, IsValid(typ), "registered type %s must be valid", typ)
	}
	assert.False(t, IsValid("hologram"))
	assert.False(t, IsValid(""))
}

func TestRequiresOptions(t *testing.T) {
	tests := []struct {
		questionType string
		expected     bool
	}{
		{TypeRadio, true},
		{TypeSelect, true},
		{TypeCheckbox, true},
		{TypeMultiselect, true},
		{TypeText, false},
		{TypeScale, false},
		{"hologram", false},
	}

	for _, tt := range tests {
		t.Run(tt.questionType, func(t *testing.T) {
			assert.Equal(t, tt.expected, RequiresOptions(tt.questionType))
		})
	}
}

func TestAllowsMultipleAnswers(t *testing.T) {
	assert.True(t, AllowsMultipleAnswers(TypeCheckbox))
	assert.True(t, AllowsMultipleAnswers(TypeMultiselect))
	assert.False(t, AllowsMultipleAnswers(TypeRadio))
	assert.False(t, AllowsMultipleAnswers(TypeSelect))
	assert.False(t, AllowsMultipleAnswers("hologram"))
}

func TestDataFormatOf(t *testing.T) {
	tests := []struct {
		questionType string
		expected     DataFormat
	}{
		{TypeText, FormatString},
		{TypeTextarea, FormatString},
		{TypeNumber, FormatNumber},
		{TypeBoolean, FormatBoolean},
		{TypeCheckbox, FormatArray},
		{TypeCurrency, FormatJSON},
		// Unknown types fall back to string on the read path.
		{"hologram", FormatString},
	}

	for _, tt := range tests {
		t.Run(tt.questionType, func(t *testing.T) {
			assert.Equal(t, tt.expected, DataFormatOf(tt.questionType))
		})
	}
}

// ==========================
// ValidateAnswer Tests
// ==========================

func scaleQuestion() models.Question {
	return models.Question{ID: "q-scale", Type: TypeScale, Required: true}
}

func radioQuestion() models.Question {
	return models.Question{
		ID:   "q-radio",
		Type: TypeRadio,
		Options: []models.Option{
			{ID: "o1", Value: "yes"},
			{ID: "o2", Value: "no"},
		},
	}
}

func TestValidateAnswer_UnknownTypeIsHardError(t *testing.T) {
	q := models.Question{ID: "q1", Type: "hologram"}
	err := ValidateAnswer(q, json.RawMessage(`"anything"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestValidateAnswer_EmptySubmissions(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"null", `null`},
		{"empty string", `""`},
		{"empty array", `[]`},
		{"no payload", ``},
	}

	optional := models.Question{ID: "q1", Type: TypeText}
	required := models.Question{ID: "q1", Type: TypeText, Required: true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateAnswer(optional, json.RawMessage(tt.value)))
			assert.Error(t, ValidateAnswer(required, json.RawMessage(tt.value)))
		})
	}
}

func TestValidateAnswer_String(t *testing.T) {
	q := models.Question{ID: "q1", Type: TypeText}

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`"a fine answer"`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`42`)), "number payload on a text question")
}

func TestValidateAnswer_Number(t *testing.T) {
	q := scaleQuestion()

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`3`)))
	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`5`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`0`)), "below the scale minimum")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`6`)), "above the scale maximum")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`"3"`)), "string payload on a scale question")
}

func TestValidateAnswer_NumberQuestionBoundsOverride(t *testing.T) {
	minVal, maxVal := 10.0, 20.0
	q := models.Question{ID: "q1", Type: TypeNumber, MinValue: &minVal, MaxValue: &maxVal}

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`15`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`5`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`25`)))
}

func TestValidateAnswer_Boolean(t *testing.T) {
	q := models.Question{ID: "q1", Type: TypeBoolean}

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`true`)))
	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`false`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`"true"`)))
}

func TestValidateAnswer_OptionBacked(t *testing.T) {
	q := radioQuestion()

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`"yes"`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`"maybe"`)), "value outside the option list")
}

func TestValidateAnswer_Array(t *testing.T) {
	q := models.Question{
		ID:   "q1",
		Type: TypeMultiselect,
		Options: []models.Option{
			{ID: "o1", Value: "red"},
			{ID: "o2", Value: "green"},
			{ID: "o3", Value: "blue"},
		},
	}

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`["red", "blue"]`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`["red", "purple"]`)), "selection outside the option list")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`["red", "red"]`)), "duplicate selection")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`"red"`)), "scalar payload on a multi-answer question")
}

func TestValidateAnswer_Currency(t *testing.T) {
	q := models.Question{ID: "q1", Type: TypeCurrency}

	assert.NoError(t, ValidateAnswer(q, json.RawMessage(`{"value": 125000, "currency": "EUR"}`)))
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`{"value": 125000}`)), "missing currency code")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`{"value": -1, "currency": "EUR"}`)), "negative amount")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`{"value": 10, "currency": "euro"}`)), "malformed currency code")
	assert.Error(t, ValidateAnswer(q, json.RawMessage(`{"value": 10, "currency": "EUR", "note": "x"}`)), "unexpected extra field")
}
