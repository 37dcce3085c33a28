// Package schemas provides JSON Schema validation for the files jobfiltr reads:
// posting batches and community blocklist imports.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/jobfiltr/internal/types"
	schemafiles "github.com/jonathan/jobfiltr/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema or document
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSONString validates JSON content against schema content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)", schemaContent, []byte(jsonContent))
}

// ParsePostingBatch validates data against the posting batch schema and decodes it.
func ParsePostingBatch(data []byte) (*types.PostingBatch, error) {
	if err := validate("posting_batch", schemafiles.PostingBatch, data); err != nil {
		return nil, err
	}
	var batch types.PostingBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode posting batch: %w", err)
	}
	if err := batch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid posting batch: %w", err)
	}
	return &batch, nil
}

// ParseBlocklist validates data against the blocklist schema and decodes it.
func ParseBlocklist(data []byte) ([]types.BlocklistEntry, error) {
	if err := validate("blocklist", schemafiles.Blocklist, data); err != nil {
		return nil, err
	}
	var entries []types.BlocklistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode blocklist: %w", err)
	}
	return entries, nil
}

func validate(name, schemaContent string, data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
