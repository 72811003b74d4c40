package openai

import (
	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// buildRequest renders an enquiry as a /responses request body.
func buildRequest(e provider.Enquiry) (map[string]any, error) {
	input := make([]types.Item, 0, len(e.Context))
	for _, msg := range e.Context {
		items, err := msg.InputItems()
		if err != nil {
			return nil, err
		}
		input = append(input, items...)
	}

	model := e.Model
	if model.IsZero() {
		model = types.DefaultModel
	}

	body := map[string]any{
		"model": model.Name,
		"input": input,
	}

	if effort, ok := model.ReasoningEffort(); ok {
		body["reasoning"] = map[string]any{"effort": string(effort)}
	}

	if f := e.ResponseFormat; f != nil {
		body["text"] = map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   f.FormatName(),
				"schema": Strict(f.Schema),
				"strict": f.Strict,
			},
		}
	}

	if e.MaxTokens > 0 {
		body["max_output_tokens"] = e.MaxTokens
	}
	if e.Temperature != nil {
		body["temperature"] = *e.Temperature
	}
	if e.TopP != nil {
		body["top_p"] = *e.TopP
	}

	if len(e.Functions) > 0 {
		tools := make([]map[string]any, 0, len(e.Functions))
		for _, fn := range e.Functions {
			t := fn.Map()
			t["type"] = "function"
			tools = append(tools, t)
		}
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	return body, nil
}
