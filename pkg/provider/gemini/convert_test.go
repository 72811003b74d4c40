package gemini

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

func TestToContents(t *testing.T) {
	system, contents, err := toContents([]types.Message{
		types.Input{Role: types.RoleDeveloper, Content: "be brief"},
		types.NewInput("Find the number for A and C."),
		types.Output{Tools: []types.FuncCallResult{
			types.NewFuncCallResult("call_a", "get_number_by_letter", map[string]any{"letter": "A"}),
			types.NewFuncCallResult("call_c", "get_number_by_letter", map[string]any{"letter": "C"}),
		}},
		types.NewToolResult("call_a", 1),
		types.NewToolResult("call_c", map[string]any{"number": 3}),
		types.Input{Content: "look", Attachment: types.ImageURL{URL: "https://example.com/cat.png?x=1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "be brief", system)
	require.Len(t, contents, 4)

	assert.Equal(t, roleUser, contents[0].Role)
	assert.Equal(t, roleModel, contents[1].Role)
	require.Len(t, contents[1].Parts, 2)
	assert.Equal(t, genai.FunctionCall{Name: "get_number_by_letter", Args: map[string]any{"letter": "A"}}, contents[1].Parts[0])

	assert.Equal(t, roleFunction, contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	assert.Equal(t, genai.FunctionResponse{Name: "get_number_by_letter", Response: map[string]any{"result": 1}}, contents[2].Parts[0])
	assert.Equal(t, genai.FunctionResponse{Name: "get_number_by_letter", Response: map[string]any{"number": 3}}, contents[2].Parts[1])

	assert.Equal(t, genai.FileData{MIMEType: "image/png", URI: "https://example.com/cat.png?x=1"}, contents[3].Parts[1])
}

func TestImageMIME(t *testing.T) {
	assert.Equal(t, "image/webp", imageMIME("data:image/webp;base64,AAAA"))
	assert.Equal(t, "image/jpeg", imageMIME("https://example.com/photo"))
}

func TestToSchema(t *testing.T) {
	fn := tool.Function{
		Name: "search",
		Properties: tool.Properties{
			tool.String("query", "terms", true),
			tool.String("lang", "", false).WithEnum("de", "en"),
			tool.Custom(map[string]any{"name": "tags", "type": "array", "items": map[string]any{"type": "string"}}, false),
		},
	}

	s := toSchema(fn.Parameters())
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"query"}, s.Required)
	assert.Equal(t, genai.TypeString, s.Properties["query"].Type)
	assert.Equal(t, "terms", s.Properties["query"].Description)
	assert.Equal(t, []string{"de", "en"}, s.Properties["lang"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
}

func TestToChatResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: roleModel, Parts: []genai.Part{
				genai.Text("checking"),
				genai.FunctionCall{Name: "lookup", Args: map[string]any{"q": "x"}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 5, CandidatesTokenCount: 2, TotalTokenCount: 7},
	}

	got, err := toChatResponse(resp, "gemini-test", nil, provider.JSONSchemaValidator{})
	require.NoError(t, err)

	choice := got.FirstChoice()
	assert.Equal(t, "checking", choice.Result)
	require.Len(t, choice.Tools, 1)
	assert.True(t, strings.HasPrefix(choice.Tools[0].ID, "call_"))
	assert.Equal(t, "lookup", choice.Tools[0].Call.Name)
	assert.Equal(t, 7, got.Usage.TotalTokens)
}

func TestToChatResponse_Structured(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("```json\n{\"items\":[1,2]}\n```")}},
		}},
	}
	format := types.NewResponseFormat(map[string]any{
		"type":       "object",
		"properties": map[string]any{"items": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}},
	}, true)

	got, err := toChatResponse(resp, "gemini-test", format, provider.JSONSchemaValidator{})
	require.NoError(t, err)
	obj, ok := got.FirstChoice().Object()
	require.True(t, ok)
	assert.Equal(t, []any{1.0, 2.0}, obj["items"])

	_, err = toChatResponse(&genai.GenerateContentResponse{}, "gemini-test", nil, provider.JSONSchemaValidator{})
	assert.ErrorIs(t, err, types.ErrNoResponse)
}
