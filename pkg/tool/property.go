package tool

import (
	"encoding/json"
)

// Kind is the JSON Schema type of a property or parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// Property is one named entry of a function's parameter object.
type Property interface {
	Name() string
	Required() bool
	Schema() map[string]any
}

// Properties is an ordered property list.
type Properties []Property

// Schema renders the "properties" map.
func (p Properties) Schema() map[string]any {
	out := make(map[string]any, len(p))
	for _, prop := range p {
		out[prop.Name()] = prop.Schema()
	}
	return out
}

// RequiredNames lists the required property names in declaration order.
func (p Properties) RequiredNames() []string {
	var names []string
	for _, prop := range p {
		if prop.Required() {
			names = append(names, prop.Name())
		}
	}
	return names
}

// Scalar is a string, integer, number or boolean property.
type Scalar struct {
	name        string
	description string
	kind        Kind
	required    bool
	enum        []string
}

func String(name, description string, required bool) *Scalar {
	return &Scalar{name: name, description: description, kind: KindString, required: required}
}

func Integer(name, description string, required bool) *Scalar {
	return &Scalar{name: name, description: description, kind: KindInteger, required: required}
}

func Number(name, description string, required bool) *Scalar {
	return &Scalar{name: name, description: description, kind: KindNumber, required: required}
}

func Boolean(name, description string, required bool) *Scalar {
	return &Scalar{name: name, description: description, kind: KindBoolean, required: required}
}

// WithEnum restricts a string property to the given values.
func (s *Scalar) WithEnum(values ...string) *Scalar {
	s.enum = append([]string(nil), values...)
	return s
}

func (s *Scalar) Name() string   { return s.name }
func (s *Scalar) Required() bool { return s.required }
func (s *Scalar) Kind() Kind     { return s.kind }

func (s *Scalar) Schema() map[string]any {
	out := map[string]any{"type": string(s.kind)}
	if s.description != "" {
		out["description"] = s.description
	}
	if len(s.enum) > 0 {
		out["enum"] = append([]string(nil), s.enum...)
	}
	return out
}

// ObjectProperty nests a further property list.
type ObjectProperty struct {
	name        string
	description string
	required    bool
	properties  Properties
}

func Object(name, description string, required bool, props ...Property) *ObjectProperty {
	return &ObjectProperty{name: name, description: description, required: required, properties: props}
}

func (o *ObjectProperty) Name() string           { return o.name }
func (o *ObjectProperty) Required() bool         { return o.required }
func (o *ObjectProperty) Properties() Properties { return o.properties }

func (o *ObjectProperty) Schema() map[string]any {
	out := map[string]any{
		"type": string(KindObject),
		"name": o.name,
	}
	if o.description != "" {
		out["description"] = o.description
	}
	out["properties"] = o.properties.Schema()
	if req := o.properties.RequiredNames(); len(req) > 0 {
		out["required"] = req
	}
	return out
}

// CustomProperty passes a hand written schema through untouched.
// Its name is read from the definition's "name" key.
type CustomProperty struct {
	definition map[string]any
	required   bool
}

func Custom(definition map[string]any, required bool) *CustomProperty {
	return &CustomProperty{definition: definition, required: required}
}

func (c *CustomProperty) Name() string {
	name, _ := c.definition["name"].(string)
	return name
}

func (c *CustomProperty) Required() bool         { return c.required }
func (c *CustomProperty) Schema() map[string]any { return c.definition }

// MarshalJSON lets a property be embedded directly in request payloads.
func (s *Scalar) MarshalJSON() ([]byte, error)         { return json.Marshal(s.Schema()) }
func (o *ObjectProperty) MarshalJSON() ([]byte, error) { return json.Marshal(o.Schema()) }
func (c *CustomProperty) MarshalJSON() ([]byte, error) { return json.Marshal(c.Schema()) }
