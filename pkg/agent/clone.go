package agent

import (
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// cloneHistory deep-copies the JSON values held by messages so that two
// histories never share argument maps or result objects.
func cloneHistory(messages []types.Message) []types.Message {
	out := make([]types.Message, len(messages))
	for i, msg := range messages {
		out[i] = cloneMessage(msg)
	}
	return out
}

func cloneMessage(msg types.Message) types.Message {
	switch m := msg.(type) {
	case types.Output:
		var tools []types.FuncCallResult
		if m.Tools != nil {
			tools = make([]types.FuncCallResult, len(m.Tools))
			for i, t := range m.Tools {
				tools[i] = types.NewFuncCallResult(t.ID, t.FunctionName, cloneObject(t.Arguments))
			}
		}
		return types.Output{Result: cloneValue(m.Result), Tools: tools}
	case types.ToolCall:
		m.Arguments = cloneObject(m.Arguments)
		return m
	case types.ToolResult:
		m.Content = cloneValue(m.Content)
		return m
	case types.WebSearchResult:
		m.Content = cloneValue(m.Content)
		return m
	}
	return msg
}

func cloneObject(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies maps and slices recursively; scalars are returned as-is.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneObject(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, e := range x {
			out[i] = cloneObject(e)
		}
		return out
	}
	return v
}
