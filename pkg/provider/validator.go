package provider

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Validator checks decoded structured output against a JSON schema.
// It reports false on any failure and never panics.
type Validator interface {
	Validate(data any, schema map[string]any) bool
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(data any, schema map[string]any) bool

func (f ValidatorFunc) Validate(data any, schema map[string]any) bool {
	return f(data, schema)
}

// JSONSchemaValidator validates with github.com/google/jsonschema-go.
type JSONSchemaValidator struct{}

func (JSONSchemaValidator) Validate(data any, schema map[string]any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	raw, err := json.Marshal(schema)
	if err != nil {
		return false
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return false
	}
	return resolved.Validate(data) == nil
}

var _ Validator = JSONSchemaValidator{}
