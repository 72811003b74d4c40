package tool

import (
	"math"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Param describes one positional parameter of a callable.
type Param struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	Default     any
	// Schema overrides the generated property schema for object and array parameters.
	Schema map[string]any
}

// Required declares a parameter that must be supplied by the model.
func Required(name string, kind Kind, description string) Param {
	return Param{Name: name, Kind: kind, Description: description, Required: true}
}

// Optional declares a parameter that falls back to def when absent.
func Optional(name string, kind Kind, description string, def any) Param {
	return Param{Name: name, Kind: kind, Description: description, Default: def}
}

// Property converts the parameter into its schema property.
func (p Param) Property() Property {
	switch p.Kind {
	case KindString:
		return String(p.Name, p.Description, p.Required)
	case KindInteger:
		return Integer(p.Name, p.Description, p.Required)
	case KindNumber:
		return Number(p.Name, p.Description, p.Required)
	case KindBoolean:
		return Boolean(p.Name, p.Description, p.Required)
	}

	def := make(map[string]any, len(p.Schema)+3)
	for k, v := range p.Schema {
		def[k] = v
	}
	def["name"] = p.Name
	if _, ok := def["type"]; !ok && p.Kind != "" {
		def["type"] = string(p.Kind)
	}
	if p.Description != "" {
		def["description"] = p.Description
	}
	return Custom(def, p.Required)
}

// Bind maps a named arguments object onto the positional parameter list.
// Present arguments win, absent optional parameters take their default,
// absent required parameters fail with a MissingArgumentError.
func Bind(params []Param, args map[string]any) ([]any, error) {
	out := make([]any, 0, len(params))
	for _, p := range params {
		if v, ok := args[p.Name]; ok {
			out = append(out, coerce(p.Kind, v))
			continue
		}
		if !p.Required {
			out = append(out, p.Default)
			continue
		}
		return nil, &types.MissingArgumentError{Name: p.Name}
	}
	return out, nil
}

// coerce turns integral JSON numbers into int for integer parameters.
func coerce(kind Kind, v any) any {
	if kind != KindInteger {
		return v
	}
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return v
}
