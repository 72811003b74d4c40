package openai

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

const incompleteResponse = "invalid or incomplete response from api"

// parseResponse turns a /responses body into a single-choice ChatResponse.
func parseResponse(body []byte, format *types.ResponseFormat, validator provider.Validator) (*types.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, types.InvalidResponse("response is not valid json")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, types.InvalidResponse("%s", root.String())
	}

	if e := root.Get("error"); present(e) && e.Type != gjson.False {
		msg := e.Get("message").String()
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, types.InvalidResponse("%s", msg)
	}

	output := root.Get("output").Array()
	outputText := root.Get("output_text")
	if len(output) == 0 && !present(outputText) {
		return nil, types.NoResponse(incompleteResponse)
	}

	var (
		parts []string
		tools []types.FuncCallResult
	)

	for _, item := range output {
		switch item.Get("type").String() {
		case "message":
			parts = append(parts, messageText(item)...)
			for _, tc := range item.Get("tool_calls").Array() {
				res, err := toolCall(tc)
				if err != nil {
					return nil, err
				}
				tools = append(tools, res)
			}
		case "function_call", "tool_call":
			res, err := toolCall(item)
			if err != nil {
				return nil, err
			}
			tools = append(tools, res)
		case "output_text":
			if text, ok := textValue(item.Get("text")); ok {
				parts = append(parts, text)
			}
		}
	}

	// aggregated output_text on the root object
	if len(parts) == 0 && present(outputText) {
		if outputText.IsArray() {
			for _, t := range outputText.Array() {
				parts = append(parts, t.String())
			}
		} else if outputText.Type == gjson.String {
			parts = []string{outputText.Str}
		}
	}

	var result any
	if text := joinParts(parts); text != "" {
		result = text
		if format != nil {
			var data any
			if err := json.Unmarshal([]byte(text), &data); err != nil {
				return nil, types.InvalidResponse("structured output is not valid json: %v", err)
			}
			if !validator.Validate(data, format.Schema) {
				return nil, types.InvalidResponse("structured output does not match schema %s", format.FormatName())
			}
			result = data
		}
	}

	if result == nil && len(tools) == 0 {
		return nil, types.NoResponse(incompleteResponse)
	}

	usage := types.Usage{
		InputTokens:     int(root.Get("usage.input_tokens").Int()),
		OutputTokens:    int(root.Get("usage.output_tokens").Int()),
		ReasoningTokens: int(root.Get("usage.output_tokens_details.reasoning_tokens").Int()),
		TotalTokens:     int(root.Get("usage.total_tokens").Int()),
	}

	return &types.ChatResponse{
		ID:    root.Get("id").String(),
		Model: root.Get("model").String(),
		Choices: []types.Choice{{
			Result: result,
			Tools:  tools,
			Usage:  usage,
		}},
		Usage: usage,
	}, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// messageText collects the text parts of a message item. The content is
// either a plain string or a list of parts with a text field.
func messageText(item gjson.Result) []string {
	content := item.Get("content")
	if content.Type == gjson.String {
		return []string{content.Str}
	}

	var parts []string
	for _, part := range content.Array() {
		if !part.IsObject() {
			continue
		}
		if text, ok := textValue(part.Get("text")); ok {
			parts = append(parts, text)
		}
	}
	return parts
}

// textValue accepts "text" as a string or as {"value": "..."}.
func textValue(r gjson.Result) (string, bool) {
	if r.Type == gjson.String {
		return r.Str, true
	}
	if r.IsObject() {
		if v := r.Get("value"); present(v) {
			return v.String(), true
		}
	}
	return "", false
}

func joinParts(parts []string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// toolCall maps a function_call item (or a nested chat-style tool call).
func toolCall(item gjson.Result) (types.FuncCallResult, error) {
	name := first(item, "function.name", "name")
	args := first(item, "function.arguments", "arguments")
	id := first(item, "call_id", "id")

	if !present(name) || !present(args) || !present(id) {
		return types.FuncCallResult{}, types.InvalidResponse(incompleteResponse)
	}

	arguments, err := toolArguments(args)
	if err != nil {
		return types.FuncCallResult{}, err
	}

	return types.NewFuncCallResult(id.String(), name.String(), arguments), nil
}

func first(item gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := item.Get(p); present(r) {
			return r
		}
	}
	return gjson.Result{}
}

func toolArguments(raw gjson.Result) (map[string]any, error) {
	var src string
	switch {
	case raw.Type == gjson.String:
		src = raw.Str
	case raw.IsObject(), raw.IsArray():
		src = raw.Raw
	default:
		return nil, types.InvalidResponse(incompleteResponse)
	}

	var decoded any
	if err := json.Unmarshal([]byte(src), &decoded); err != nil {
		return nil, types.InvalidResponse("tool arguments are not valid json: %v", err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, types.InvalidResponse(incompleteResponse)
	}
	return obj, nil
}
