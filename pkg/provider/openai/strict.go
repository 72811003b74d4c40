package openai

import "sort"

// Strict returns a copy of schema in which every object node lists all of
// its properties as required and forbids additional properties, unless the
// node already says otherwise. Array items are handled recursively.
// Applying Strict twice yields the same schema.
func Strict(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out, _ := strictNode(schema).(map[string]any)
	return out
}

func strictNode(node any) any {
	m, ok := node.(map[string]any)
	if !ok {
		return node
	}

	out := make(map[string]any, len(m)+2)
	for k, v := range m {
		out[k] = v
	}

	switch out["type"] {
	case "object":
		props, _ := out["properties"].(map[string]any)
		strictProps := make(map[string]any, len(props))
		keys := make([]string, 0, len(props))
		for k, v := range props {
			strictProps[k] = strictNode(v)
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out["properties"] = strictProps

		if _, ok := out["required"]; !ok {
			out["required"] = keys
		}
		if _, ok := out["additionalProperties"]; !ok {
			out["additionalProperties"] = false
		}
	case "array":
		if items, ok := out["items"]; ok {
			out["items"] = strictNode(items)
		}
	}

	return out
}
