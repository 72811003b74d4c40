package gemini

import (
	"mime"
	"path"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

const (
	roleUser     = "user"
	roleModel    = "model"
	roleFunction = "function"
)

// toContents converts a history into Gemini contents. System and developer
// inputs are collected into the returned system instruction. Consecutive
// messages of the same role are merged into a single content.
func toContents(messages []types.Message) (string, []*genai.Content, error) {
	var (
		system   []string
		contents []*genai.Content
		names    = map[string]string{} // call id -> function name
	)

	push := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range messages {
		switch m := msg.(type) {
		case types.Input:
			if m.Role == types.RoleSystem || m.Role == types.RoleDeveloper {
				system = append(system, m.Content)
				continue
			}
			parts := []genai.Part{genai.Text(m.Content)}
			if img, ok := m.Attachment.(types.ImageURL); ok {
				parts = append(parts, genai.FileData{MIMEType: imageMIME(img.URL), URI: img.URL})
			}
			push(roleUser, parts...)
		case types.Output:
			var parts []genai.Part
			switch r := m.Result.(type) {
			case nil:
			case string:
				parts = append(parts, genai.Text(r))
			default:
				s, err := types.Stringify(r)
				if err != nil {
					return "", nil, err
				}
				parts = append(parts, genai.Text(s))
			}
			for _, t := range m.Tools {
				names[t.ID] = t.FunctionName
				parts = append(parts, genai.FunctionCall{Name: t.FunctionName, Args: t.Arguments})
			}
			push(roleModel, parts...)
		case types.ToolCall:
			names[m.ID] = m.Name
			push(roleModel, genai.FunctionCall{Name: m.Name, Args: m.Arguments})
		case types.ToolResult:
			push(roleFunction, functionResponse(names[m.CallID], m.Content))
		case types.WebSearchResult:
			name := names[m.CallID]
			if name == "" {
				name = types.WebSearchToolName
			}
			push(roleFunction, functionResponse(name, m.Content))
		default:
			return "", nil, types.InvalidResponse("unsupported message type %T", msg)
		}
	}

	return strings.Join(system, "\n\n"), contents, nil
}

func functionResponse(name string, content any) genai.FunctionResponse {
	resp, ok := content.(map[string]any)
	if !ok {
		resp = map[string]any{"result": content}
	}
	return genai.FunctionResponse{Name: name, Response: resp}
}

func imageMIME(url string) string {
	if strings.HasPrefix(url, "data:") {
		if semi := strings.IndexAny(url, ";,"); semi > len("data:") {
			return url[len("data:"):semi]
		}
	}
	if t := mime.TypeByExtension(path.Ext(strings.SplitN(url, "?", 2)[0])); t != "" {
		return t
	}
	return "image/jpeg"
}

// toSchema converts a JSON schema map into a Gemini schema.
// Keywords Gemini does not know (additionalProperties, name) are dropped.
func toSchema(def map[string]any) *genai.Schema {
	if def == nil {
		return nil
	}

	s := &genai.Schema{}
	switch def["type"] {
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	default:
		s.Type = genai.TypeObject
	}

	s.Description, _ = def["description"].(string)
	s.Format, _ = def["format"].(string)
	s.Nullable, _ = def["nullable"].(bool)
	s.Enum = stringList(def["enum"])

	if items, ok := def["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = toSchema(pm)
			}
		}
	}
	s.Required = stringList(def["required"])

	return s
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return append([]string(nil), l...)
	case []any:
		out := make([]string, 0, len(l))
		for _, x := range l {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
