package tool

import (
	"reflect"
	"strings"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// GenerateSchema creates a JSON Schema from a Go struct.
// It supports "json" tag for field names and "description" tag for descriptions.
// Fields without omitempty are required.
func GenerateSchema(v any) map[string]any {
	t := reflect.TypeOf(v)
	if t == nil {
		return map[string]any{"type": "object"}
	}
	return schemaOf(t)
}

// FormatFor builds a json_schema response format from a struct value.
func FormatFor(v any, strict bool) *types.ResponseFormat {
	return types.NewResponseFormat(GenerateSchema(v), strict)
}

// PropertiesOf derives a property list from the fields of a struct.
func PropertiesOf(v any) Properties {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var props Properties
	for _, f := range fieldsOf(t) {
		ft := deref(f.typ)
		switch getType(ft) {
		case "string":
			props = append(props, String(f.name, f.description, f.required))
		case "integer":
			props = append(props, Integer(f.name, f.description, f.required))
		case "number":
			props = append(props, Number(f.name, f.description, f.required))
		case "boolean":
			props = append(props, Boolean(f.name, f.description, f.required))
		default:
			if ft.Kind() == reflect.Struct {
				props = append(props, Object(f.name, f.description, f.required, PropertiesOf(reflect.New(ft).Elem().Interface())...))
				continue
			}
			def := schemaOf(ft)
			def["name"] = f.name
			if f.description != "" {
				def["description"] = f.description
			}
			props = append(props, Custom(def, f.required))
		}
	}
	return props
}

type field struct {
	name        string
	description string
	required    bool
	typ         reflect.Type
}

func fieldsOf(t reflect.Type) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		// Skip unexported fields
		if f.PkgPath != "" {
			continue
		}

		jsonTag := f.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := jsonTag
		// Handle "name,omitempty"
		if comma := strings.Index(name, ","); comma != -1 {
			name = name[:comma]
		}
		if name == "" {
			name = f.Name
		}

		out = append(out, field{
			name:        name,
			description: f.Tag.Get("description"),
			required:    !strings.Contains(jsonTag, "omitempty"),
			typ:         f.Type,
		})
	}
	return out
}

func schemaOf(t reflect.Type) map[string]any {
	t = deref(t)
	switch t.Kind() {
	case reflect.Struct:
		properties := make(map[string]any)
		required := []string{}
		for _, f := range fieldsOf(t) {
			prop := schemaOf(f.typ)
			if f.description != "" {
				prop["description"] = f.description
			}
			properties[f.name] = prop
			if f.required {
				required = append(required, f.name)
			}
		}
		schema := map[string]any{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": schemaOf(t.Elem()),
		}
	default:
		return map[string]any{"type": getType(t)}
	}
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func getType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string" // Default fallback
	}
}
