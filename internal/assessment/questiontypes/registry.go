// internal/assessment/questiontypes/registry.go
package questiontypes

// DataFormat describes the runtime shape an answer payload must have.
type DataFormat string

const (
	FormatString  DataFormat = "string"
	FormatNumber  DataFormat = "number"
	FormatBoolean DataFormat = "boolean"
	FormatJSON    DataFormat = "json"
	FormatArray   DataFormat = "array"
)

// ValidationRules carries the optional per-type constraints checked on the
// write path. Nil pointer fields mean the rule does not apply.
type ValidationRules struct {
	MinLength     *int     `json:"minLength,omitempty"`
	MaxLength     *int     `json:"maxLength,omitempty"`
	MinValue      *float64 `json:"minValue,omitempty"`
	MaxValue      *float64 `json:"maxValue,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	AllowedValues []string `json:"allowedValues,omitempty"`
}

// Metadata is the static descriptor for one supported question type.
type Metadata struct {
	Type                  string          `json:"type"`
	RequiresOptions       bool            `json:"requiresOptions"`
	AllowsMultipleAnswers bool            `json:"allowsMultipleAnswers"`
	DataFormat            DataFormat      `json:"dataFormat"`
	Rules                 ValidationRules `json:"validationRules,omitempty"`
}

// Supported question type identifiers.
const (
	TypeText        = "text"
	TypeTextarea    = "textarea"
	TypeNumber      = "number"
	TypeBoolean     = "boolean"
	TypeRadio       = "radio"
	TypeSelect      = "select"
	TypeCheckbox    = "checkbox"
	TypeMultiselect = "multiselect"
	TypeScale       = "scale"
	TypeCurrency    = "currency"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// registry is the process-wide static type table. It is never mutated at
// runtime; adding a type is a data addition here, not a code branch elsewhere.
var registry = map[string]Metadata{
	TypeText: {
		Type:       TypeText,
		DataFormat: FormatString,
		Rules:      ValidationRules{MaxLength: intPtr(500)},
	},
	TypeTextarea: {
		Type:       TypeTextarea,
		DataFormat: FormatString,
		Rules:      ValidationRules{MaxLength: intPtr(5000)},
	},
	TypeNumber: {
		Type:       TypeNumber,
		DataFormat: FormatNumber,
	},
	TypeBoolean: {
		Type:       TypeBoolean,
		DataFormat: FormatBoolean,
	},
	TypeRadio: {
		Type:            TypeRadio,
		RequiresOptions: true,
		DataFormat:      FormatString,
	},
	TypeSelect: {
		Type:            TypeSelect,
		RequiresOptions: true,
		DataFormat:      FormatString,
	},
	TypeCheckbox: {
		Type:                  TypeCheckbox,
		RequiresOptions:       true,
		AllowsMultipleAnswers: true,
		DataFormat:            FormatArray,
	},
	TypeMultiselect: {
		Type:                  TypeMultiselect,
		RequiresOptions:       true,
		AllowsMultipleAnswers: true,
		DataFormat:            FormatArray,
	},
	TypeScale: {
		Type:       TypeScale,
		DataFormat: FormatNumber,
		Rules:      ValidationRules{MinValue: floatPtr(1), MaxValue: floatPtr(5)},
	},
	TypeCurrency: {
		Type:       TypeCurrency,
		DataFormat: FormatJSON,
	},
}

// Lookup returns the metadata for a type. The second return is false for
// unknown types; callers on the write path must treat that as a hard error.
func Lookup(questionType string) (Metadata, bool) {
	meta, ok := registry[questionType]
	return meta, ok
}

// IsValid reports whether the type is registered.
func IsValid(questionType string) bool {
	_, ok := registry[questionType]
	return ok
}

// RequiresOptions reports whether the type needs an option list. Unknown
// types report false.
func RequiresOptions(questionType string) bool {
	return registry[questionType].RequiresOptions
}

// AllowsMultipleAnswers reports whether the type stores an array of answers.
// Unknown types report false.
func AllowsMultipleAnswers(questionType string) bool {
	return registry[questionType].AllowsMultipleAnswers
}

// DataFormatOf returns the declared answer format. Unknown types fall back to
// string so legacy data still renders; write paths must call IsValid first.
func DataFormatOf(questionType string) DataFormat {
	if meta, ok := registry[questionType]; ok {
		return meta.DataFormat
	}
	return FormatString
}

// Types returns the registered type identifiers. Order is unspecified.
func Types() []string {
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}
