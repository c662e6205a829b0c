// internal/assessment/questiontypes/validate.go
package questiontypes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"assessment-workers/internal/models"
)

// ErrUnknownType marks validation failures caused by an unregistered question
// type. The write path must reject these; read paths use the permissive
// registry accessors instead.
var ErrUnknownType = errors.New("unknown question type")

// currencySchema governs the json-format payload shape: an amount plus an
// ISO 4217 code.
const currencySchema = `{
	"type": "object",
	"required": ["value", "currency"],
	"properties": {
		"value": {"type": "number", "minimum": 0},
		"currency": {"type": "string", "pattern": "^[A-Z]{3}$"}
	},
	"additionalProperties": false
}`

var currencySchemaLoader = gojsonschema.NewStringLoader(currencySchema)

// ValidateAnswer checks a raw answer payload against the question's type
// metadata. A nil error means the payload is well formed; it does not mean
// the question is answered (empty submissions pass unless the question is
// required).
func ValidateAnswer(question models.Question, value json.RawMessage) error {
	meta, ok := Lookup(question.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, question.Type)
	}

	if isEmptyValue(value) {
		if question.Required {
			return fmt.Errorf("question %s is required", question.ID)
		}
		return nil
	}

	switch meta.DataFormat {
	case FormatString:
		return validateString(question, meta, value)
	case FormatNumber:
		return validateNumber(question, meta, value)
	case FormatBoolean:
		return validateBoolean(question, value)
	case FormatArray:
		return validateArray(question, value)
	case FormatJSON:
		return validateJSONPayload(question, value)
	default:
		return fmt.Errorf("question %s: unhandled data format %q", question.ID, meta.DataFormat)
	}
}

// isEmptyValue treats null, the empty string and the empty array as
// unanswered.
func isEmptyValue(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return true
	case bytes.Equal(trimmed, []byte(`""`)):
		return true
	case bytes.Equal(trimmed, []byte("[]")):
		return true
	}
	return false
}

func validateString(question models.Question, meta Metadata, value json.RawMessage) error {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return fmt.Errorf("question %s: expected a string value", question.ID)
	}

	if meta.Rules.MinLength != nil && len(s) < *meta.Rules.MinLength {
		return fmt.Errorf("question %s: value shorter than %d characters", question.ID, *meta.Rules.MinLength)
	}
	if meta.Rules.MaxLength != nil && len(s) > *meta.Rules.MaxLength {
		return fmt.Errorf("question %s: value longer than %d characters", question.ID, *meta.Rules.MaxLength)
	}
	if meta.Rules.Pattern != "" {
		re, err := regexp.Compile(meta.Rules.Pattern)
		if err != nil {
			return fmt.Errorf("question %s: invalid validation pattern: %w", question.ID, err)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("question %s: value does not match required pattern", question.ID)
		}
	}

	if meta.RequiresOptions {
		if !matchesOption(question.Options, s) {
			return fmt.Errorf("question %s: %q is not a valid option", question.ID, s)
		}
	}
	return nil
}

func validateNumber(question models.Question, meta Metadata, value json.RawMessage) error {
	var n float64
	if err := json.Unmarshal(value, &n); err != nil {
		return fmt.Errorf("question %s: expected a numeric value", question.ID)
	}

	// Per-question bounds override the type defaults.
	minVal, maxVal := meta.Rules.MinValue, meta.Rules.MaxValue
	if question.MinValue != nil {
		minVal = question.MinValue
	}
	if question.MaxValue != nil {
		maxVal = question.MaxValue
	}

	if minVal != nil && n < *minVal {
		return fmt.Errorf("question %s: value %v below minimum %v", question.ID, n, *minVal)
	}
	if maxVal != nil && n > *maxVal {
		return fmt.Errorf("question %s: value %v above maximum %v", question.ID, n, *maxVal)
	}
	return nil
}

func validateBoolean(question models.Question, value json.RawMessage) error {
	var b bool
	if err := json.Unmarshal(value, &b); err != nil {
		return fmt.Errorf("question %s: expected a boolean value", question.ID)
	}
	return nil
}

func validateArray(question models.Question, value json.RawMessage) error {
	var items []string
	if err := json.Unmarshal(value, &items); err != nil {
		return fmt.Errorf("question %s: expected an array of option values", question.ID)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !matchesOption(question.Options, item) {
			return fmt.Errorf("question %s: %q is not a valid option", question.ID, item)
		}
		if seen[item] {
			return fmt.Errorf("question %s: duplicate selection %q", question.ID, item)
		}
		seen[item] = true
	}
	return nil
}

func validateJSONPayload(question models.Question, value json.RawMessage) error {
	result, err := gojsonschema.Validate(currencySchemaLoader, gojsonschema.NewBytesLoader(value))
	if err != nil {
		return fmt.Errorf("question %s: invalid json payload: %w", question.ID, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("question %s: %s", question.ID, first.String())
	}
	return nil
}

func matchesOption(options []models.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
