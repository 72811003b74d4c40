package agent

import (
	"encoding/json"
	"fmt"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Serialized message tags.
const (
	tagInput           = "input"
	tagOutput          = "output"
	tagToolCall        = "tool_call"
	tagToolResult      = "tool_result"
	tagWebSearchResult = "web_search_result"
)

// Serialize encodes the history as tagged objects, suitable for storing or
// sending to a browser and resuming later with FromSerialized.
func (c *Conversation) Serialize() ([]map[string]any, error) {
	history := c.memory.History()
	out := make([]map[string]any, 0, len(history))
	for i, msg := range history {
		enc, err := encodeMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, enc)
	}
	return out, nil
}

func (c *Conversation) MarshalJSON() ([]byte, error) {
	payload, err := c.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

// FromSerialized rebuilds a conversation from Serialize output. The history
// in cfg.Memory, if any, is replaced.
func FromSerialized(payload []map[string]any, cfg Config) (*Conversation, error) {
	// Normalize Go values (typed slices, structs, ints) into their JSON form.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode serialized conversation: %w", err)
	}
	return FromJSON(raw, cfg)
}

// FromJSON is FromSerialized for a JSON document.
func FromJSON(data []byte, cfg Config) (*Conversation, error) {
	var payload []map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, types.InvalidResponse("serialized conversation is not a list of objects: %v", err)
	}

	messages := make([]types.Message, 0, len(payload))
	for i, item := range payload {
		msg, err := decodeMessage(item)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		messages = append(messages, msg)
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	c.SetContext(messages)
	return c, nil
}

func encodeMessage(msg types.Message) (map[string]any, error) {
	switch m := msg.(type) {
	case types.Input:
		role := m.Role
		if role == "" {
			role = types.RoleUser
		}
		data := map[string]any{
			"type":    tagInput,
			"content": cloneValue(m.Content),
			"role":    string(role),
		}
		if img, ok := m.Attachment.(types.ImageURL); ok {
			data["attachment"] = map[string]any{"type": "image_url", "url": img.URL}
		}
		return data, nil
	case types.Output:
		tools := make([]map[string]any, 0, len(m.Tools))
		for _, t := range m.Tools {
			tools = append(tools, map[string]any{
				"id":        t.ID,
				"name":      t.FunctionName,
				"arguments": cloneObject(t.Arguments),
			})
		}
		return map[string]any{
			"type":   tagOutput,
			"result": cloneValue(m.Result),
			"tools":  tools,
		}, nil
	case types.ToolCall:
		return map[string]any{
			"type":      tagToolCall,
			"id":        m.ID,
			"name":      m.Name,
			"arguments": cloneObject(m.Arguments),
		}, nil
	case types.ToolResult:
		role := m.Role
		if role == "" {
			role = types.RoleTool
		}
		return map[string]any{
			"type":    tagToolResult,
			"call_id": m.CallID,
			"content": cloneValue(m.Content),
			"role":    string(role),
		}, nil
	case types.WebSearchResult:
		return map[string]any{
			"type":    tagWebSearchResult,
			"id":      m.CallID,
			"content": cloneValue(m.Content),
		}, nil
	}
	return nil, fmt.Errorf("cannot serialize message of type %T", msg)
}

func decodeMessage(data map[string]any) (types.Message, error) {
	tag, _ := data["type"].(string)

	switch tag {
	case tagInput:
		in := types.Input{
			Content: stringOr(data["content"], ""),
			Role:    types.Role(stringOr(data["role"], string(types.RoleUser))),
		}
		if att, ok := data["attachment"].(map[string]any); ok && att["type"] == "image_url" {
			if url, ok := att["url"].(string); ok {
				in.Attachment = types.ImageURL{URL: url}
			}
		}
		return in, nil
	case tagOutput:
		result, err := decodeResult(data["result"])
		if err != nil {
			return nil, err
		}
		list, _ := data["tools"].([]any)
		tools := make([]types.FuncCallResult, 0, len(list))
		for _, raw := range list {
			t, _ := raw.(map[string]any)
			args, err := decodeArguments(t["arguments"])
			if err != nil {
				return nil, err
			}
			tools = append(tools, types.NewFuncCallResult(stringOr(t["id"], ""), stringOr(t["name"], ""), args))
		}
		return types.Output{Result: result, Tools: tools}, nil
	case tagToolCall:
		args, err := decodeArguments(data["arguments"])
		if err != nil {
			return nil, err
		}
		return types.NewToolCall(stringOr(data["id"], ""), stringOr(data["name"], ""), args), nil
	case tagToolResult:
		return types.ToolResult{
			CallID:  stringOr(data["call_id"], ""),
			Content: data["content"],
			Role:    types.Role(stringOr(data["role"], string(types.RoleTool))),
		}, nil
	case tagWebSearchResult:
		content, err := decodeWebSearchContent(data["content"])
		if err != nil {
			return nil, err
		}
		return types.WebSearchResult{CallID: stringOr(data["id"], ""), Content: content}, nil
	}
	return nil, types.InvalidResponse("unknown message type %q in serialized conversation", tag)
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func decodeResult(v any) (any, error) {
	switch r := v.(type) {
	case nil, string, map[string]any:
		return r, nil
	case []any:
		return types.Stringify(r)
	}
	if s, ok := types.ScalarString(v); ok {
		return s, nil
	}
	return nil, types.InvalidResponse("invalid result type %T", v)
}

func decodeArguments(v any) (map[string]any, error) {
	switch a := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return a, nil
	case []any:
		if len(a) == 0 {
			return map[string]any{}, nil
		}
	case string:
		if obj, err := types.ToObject(a); err == nil {
			return obj, nil
		}
	}
	return nil, types.InvalidResponse("invalid serialized arguments")
}

func decodeWebSearchContent(v any) (any, error) {
	switch c := v.(type) {
	case nil:
		return map[string]any{}, nil
	case string, map[string]any, []any:
		return c, nil
	}
	if s, ok := types.ScalarString(v); ok {
		return s, nil
	}
	return nil, types.InvalidResponse("invalid web search content type %T", v)
}
