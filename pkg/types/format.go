package types

// DefaultFormatName is the schema name sent when none is given.
const DefaultFormatName = "Response"

// ResponseFormat requests structured JSON output matching Schema.
type ResponseFormat struct {
	Name   string
	Schema map[string]any
	Strict bool
}

// NewResponseFormat returns a json_schema response format.
func NewResponseFormat(schema map[string]any, strict bool) *ResponseFormat {
	return &ResponseFormat{Name: DefaultFormatName, Schema: schema, Strict: strict}
}

// FormatName returns the configured name or the default.
func (f *ResponseFormat) FormatName() string {
	if f == nil || f.Name == "" {
		return DefaultFormatName
	}
	return f.Name
}
