package prompt

import (
	"fmt"
	"strings"
)

// Template is a lightweight string template using double-brace placeholders.
// Example: "Hello {{name}}" with vars map{"name": "Agent"} -> "Hello Agent".
type Template struct {
	Text string
	Vars map[string]any // bound at construction, overridden by Render arguments
}

// NewTemplate returns a Template with the provided text.
func NewTemplate(text string) Template {
	return Template{Text: text}
}

// With returns a copy of t with additional bound variables.
func (t Template) With(vars map[string]any) Template {
	merged := make(map[string]any, len(t.Vars)+len(vars))
	for k, v := range t.Vars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return Template{Text: t.Text, Vars: merged}
}

// IsEmpty reports whether the template has no text.
func (t Template) IsEmpty() bool {
	return strings.TrimSpace(t.Text) == ""
}

// Render replaces all placeholders with values. Missing keys are left untouched.
func (t Template) Render(vars map[string]any) string {
	out := t.Text
	for key, val := range t.With(vars).Vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", fmt.Sprint(val))
	}
	return out
}
