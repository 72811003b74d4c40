package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantText  any
		wantTools []string // call ids
		wantErr   error
		errMsg    string
	}{
		{
			name:    "invalid json",
			body:    `{"output":`,
			wantErr: types.ErrInvalidResponse,
		},
		{
			name:    "non-object root",
			body:    `"upstream exploded"`,
			wantErr: types.ErrInvalidResponse,
			errMsg:  "invalid response: upstream exploded",
		},
		{
			name:    "error object",
			body:    `{"error":{"message":"model overloaded"}}`,
			wantErr: types.ErrInvalidResponse,
			errMsg:  "invalid response: model overloaded",
		},
		{
			name:    "error without message",
			body:    `{"error":{"code":"x"}}`,
			wantErr: types.ErrInvalidResponse,
			errMsg:  "invalid response: Unknown error",
		},
		{
			name:     "null error is ignored",
			body:     `{"error":null,"output":[{"type":"message","content":"ok"}]}`,
			wantText: "ok",
		},
		{
			name:    "empty output",
			body:    `{"output":[]}`,
			wantErr: types.ErrNoResponse,
		},
		{
			name:    "only reasoning items",
			body:    `{"output":[{"type":"reasoning","summary":[]}]}`,
			wantErr: types.ErrNoResponse,
		},
		{
			name:     "string content",
			body:     `{"output":[{"type":"message","content":"  plain  "}]}`,
			wantText: "plain",
		},
		{
			name:     "value text and empty parts",
			body:     `{"output":[{"type":"message","content":[{"type":"output_text","text":{"value":"a"}},{"type":"output_text","text":""},{"type":"refusal"},{"type":"output_text","text":"b"}]}]}`,
			wantText: "a\nb",
		},
		{
			name:     "output_text item",
			body:     `{"output":[{"type":"output_text","text":"direct"}]}`,
			wantText: "direct",
		},
		{
			name:     "root output_text string fallback",
			body:     `{"output":[],"output_text":"root"}`,
			wantText: "root",
		},
		{
			name:     "root output_text ignored when parts exist",
			body:     `{"output":[{"type":"message","content":"inner"}],"output_text":"root"}`,
			wantText: "inner",
		},
		{
			name:      "responses function_call",
			body:      `{"output":[{"type":"function_call","name":"f","arguments":"{\"x\":1}","call_id":"call_1","id":"fc_1"}]}`,
			wantTools: []string{"call_1"},
		},
		{
			name:      "id fallback and object arguments",
			body:      `{"output":[{"type":"tool_call","name":"f","arguments":{"x":1},"id":"fc_2"}]}`,
			wantTools: []string{"fc_2"},
		},
		{
			name:      "nested tool_calls with text",
			body:      `{"output":[{"type":"message","content":[{"type":"output_text","text":"calling"}],"tool_calls":[{"id":"tc_1","type":"function","function":{"name":"f","arguments":"{}"}}]}]}`,
			wantText:  "calling",
			wantTools: []string{"tc_1"},
		},
		{
			name:    "array arguments",
			body:    `{"output":[{"type":"function_call","name":"f","arguments":[1,2],"call_id":"c"}]}`,
			wantErr: types.ErrInvalidResponse,
		},
		{
			name:    "missing call id",
			body:    `{"output":[{"type":"function_call","name":"f","arguments":"{}"}]}`,
			wantErr: types.ErrInvalidResponse,
		},
		{
			name:    "arguments not json",
			body:    `{"output":[{"type":"function_call","name":"f","arguments":"{oops","call_id":"c"}]}`,
			wantErr: types.ErrInvalidResponse,
		},
		{
			name:    "only empty text",
			body:    `{"output":[{"type":"message","content":[{"type":"output_text","text":"   "}]}]}`,
			wantErr: types.ErrNoResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseResponse([]byte(tt.body), nil, provider.JSONSchemaValidator{})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.errMsg != "" {
					assert.EqualError(t, err, tt.errMsg)
				}
				return
			}
			require.NoError(t, err)

			choice := resp.FirstChoice()
			assert.Equal(t, tt.wantText, choice.Result)

			var ids []string
			for _, tc := range choice.Tools {
				ids = append(ids, tc.ID)
				assert.Equal(t, "f", tc.FunctionName)
				assert.Equal(t, tc.ID, tc.Call.ID)
			}
			assert.Equal(t, tt.wantTools, ids)
		})
	}
}

func TestParseResponse_Validator(t *testing.T) {
	format := types.NewResponseFormat(map[string]any{"type": "object"}, false)
	body := []byte(`{"output":[{"type":"message","content":"{\"a\":1}"}]}`)

	var gotSchema map[string]any
	accept := provider.ValidatorFunc(func(data any, schema map[string]any) bool {
		gotSchema = schema
		return true
	})
	resp, err := parseResponse(body, format, accept)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, resp.FirstChoice().Result)
	assert.Equal(t, format.Schema, gotSchema)

	reject := provider.ValidatorFunc(func(any, map[string]any) bool { return false })
	_, err = parseResponse(body, format, reject)
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestStrict(t *testing.T) {
	in := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"b": map[string]any{"type": "string"},
			"a": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"x": map[string]any{"type": "integer"}},
				},
			},
			"c": map[string]any{
				"type":                 "object",
				"properties":           map[string]any{"y": map[string]any{"type": "boolean"}},
				"required":             []any{},
				"additionalProperties": true,
			},
		},
	}

	out := Strict(in)
	assert.Equal(t, []string{"a", "b", "c"}, out["required"])
	assert.Equal(t, false, out["additionalProperties"])

	items := out["properties"].(map[string]any)["a"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, []string{"x"}, items["required"])
	assert.Equal(t, false, items["additionalProperties"])

	c := out["properties"].(map[string]any)["c"].(map[string]any)
	assert.Equal(t, []any{}, c["required"])
	assert.Equal(t, true, c["additionalProperties"])

	// input untouched, transform idempotent
	assert.NotContains(t, in, "required")
	assert.Equal(t, out, Strict(out))

	assert.Nil(t, Strict(nil))
}

func TestBuildRequest_Input(t *testing.T) {
	e := provider.Enquiry{
		Context: []types.Message{
			types.Input{Role: types.RoleDeveloper, Content: "be brief"},
			types.Input{Role: types.RoleUser, Content: "what is this?", Attachment: types.ImageURL{URL: "https://example.com/a.png"}},
			types.Output{
				Result: "let me check",
				Tools:  []types.FuncCallResult{types.NewFuncCallResult("call_1", "lookup", map[string]any{"q": "a"})},
			},
			types.NewToolResult("call_1", map[string]any{"found": true}),
		},
		Functions: []tool.Function{{Name: "lookup", Description: "Look things up"}},
	}

	body, err := buildRequest(e)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", body["model"])
	input := body["input"].([]types.Item)
	require.Len(t, input, 5)
	assert.Equal(t, "developer", input[0]["role"])
	assert.Equal(t, []types.Item{
		{"type": "input_text", "text": "what is this?"},
		{"type": "input_image", "image_url": "https://example.com/a.png"},
	}, input[1]["content"])
	assert.Equal(t, "assistant", input[2]["role"])
	assert.Equal(t, "function_call", input[3]["type"])
	assert.Equal(t, `{"q":"a"}`, input[3]["arguments"])
	assert.Equal(t, `{"found":true}`, input[4]["output"])

	assert.NotContains(t, body, "max_output_tokens")
	assert.Equal(t, "auto", body["tool_choice"])
}

func TestBuildRequest_EffortOnlyForGPT5(t *testing.T) {
	body, err := buildRequest(provider.Enquiry{Model: types.CustomModel("o3", types.EffortHigh)})
	require.NoError(t, err)
	assert.NotContains(t, body, "reasoning")

	body, err = buildRequest(provider.Enquiry{Model: types.LLMSmallReasoning(types.EffortMinimal)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"effort": "minimal"}, body["reasoning"])
}
