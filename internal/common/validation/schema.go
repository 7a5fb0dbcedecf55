package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// RowObjectSchema describes a single row payload: column name to scalar cell value.
const RowObjectSchema = `{
  "type": "object",
  "additionalProperties": {"type": ["string", "number", "boolean", "null"]}
}`

// RowObjectsSchema describes a list of row payloads.
const RowObjectsSchema = `{
  "type": "array",
  "items": ` + RowObjectSchema + `
}`

var (
	rowObjectSchema  = mustCompile(RowObjectSchema)
	rowObjectsSchema = mustCompile(RowObjectsSchema)
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

// ValidateRowObject checks a raw JSON row payload.
func ValidateRowObject(doc []byte) (*ValidationResult, error) {
	return validate(rowObjectSchema, gojsonschema.NewBytesLoader(doc))
}

// ValidateRowObjects checks a raw JSON array of row payloads.
func ValidateRowObjects(doc []byte) (*ValidationResult, error) {
	return validate(rowObjectsSchema, gojsonschema.NewBytesLoader(doc))
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
