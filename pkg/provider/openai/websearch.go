package openai

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// WebSearchResponse is the completed message of a web search request.
type WebSearchResponse struct {
	ID           string
	Output       gjson.Result // first completed message item
	Raw          []byte       // full response body
	Query        string
	UserLocation *types.UserLocation
	Model        string
	Effort       string
}

// WebSearch asks the model to answer query using the hosted web_search tool.
// A nil model uses the provider default.
func (m *ChatModel) WebSearch(ctx context.Context, query string, userLocation *types.UserLocation, model *types.Model) (*WebSearchResponse, error) {
	mdl := m.defaultModel
	if model != nil && !model.IsZero() {
		mdl = *model
	}

	body, err := webSearchBody(query, userLocation, mdl)
	if err != nil {
		return nil, err
	}

	resp, err := m.poster.Post(ctx, m.endpoint("responses"), body, m.requestHeaders())
	if err != nil {
		return nil, err
	}

	effort, _ := mdl.ReasoningEffort()
	root := gjson.ParseBytes(resp.Body)
	for _, item := range root.Get("output").Array() {
		if item.Get("type").String() == "message" && item.Get("status").String() == "completed" {
			return &WebSearchResponse{
				ID:           root.Get("id").String(),
				Output:       item,
				Raw:          resp.Body,
				Query:        query,
				UserLocation: userLocation,
				Model:        mdl.Name,
				Effort:       string(effort),
			}, nil
		}
	}

	return nil, types.InvalidResponse("web search returned no completed message")
}

func webSearchBody(query string, userLocation *types.UserLocation, model types.Model) ([]byte, error) {
	body := []byte(`{"tools":[{"type":"web_search"}]}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			body, err = sjson.SetBytes(body, path, value)
		}
	}

	set("model", model.Name)
	if userLocation != nil {
		set("tools.0.user_location", userLocation.Map())
	}
	set("input", query)
	if effort, ok := model.ReasoningEffort(); ok {
		set("reasoning.effort", string(effort))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: build web search body: %w", types.ErrLLM, err)
	}
	return body, nil
}

// FirstText returns the text of the first content part.
func (r *WebSearchResponse) FirstText() (string, error) {
	text := r.Output.Get("content.0.text")
	if text.Type != gjson.String {
		return "", errors.New("no text found in response")
	}
	return text.Str, nil
}

// Texts returns every textual content part.
func (r *WebSearchResponse) Texts() []string {
	texts := []string{}
	for _, part := range r.Output.Get("content").Array() {
		if t := part.Get("text"); t.Type == gjson.String {
			texts = append(texts, t.Str)
		}
	}
	return texts
}

// WebSearchCall builds the call message to record this search in a history.
// An empty id is replaced by a generated "web_" id.
func (r *WebSearchResponse) WebSearchCall(id string) types.ToolCall {
	if id == "" {
		sum := sha1.Sum([]byte(r.Query + strconv.FormatInt(time.Now().UnixNano(), 10)))
		id = "web_" + hex.EncodeToString(sum[:])[:12]
	}
	return types.NewWebSearchCall(id, r.Query, r.UserLocation, r.Model, r.Effort)
}

// WebSearchResult builds the result message answering callID.
func (r *WebSearchResponse) WebSearchResult(callID string) (types.WebSearchResult, error) {
	text, err := r.FirstText()
	if err != nil {
		return types.WebSearchResult{}, err
	}
	return types.WebSearchResultFromText(callID, text, map[string]any{
		"texts":         r.Texts(),
		"query":         r.Query,
		"model":         r.Model,
		"effort":        optional(r.Effort),
		"user_location": locationMap(r.UserLocation),
	}), nil
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func locationMap(l *types.UserLocation) any {
	if l == nil {
		return nil
	}
	return l.Map()
}

// BuildWebSearchTool returns a web_search tool the model can call.
// Without defaults the model has to supply user_location and model itself.
// Models requested by the agent must not be reasoning models.
func (m *ChatModel) BuildWebSearchTool(defaultLocation *types.UserLocation, defaultModel *types.Model) *tool.Func {
	locationSchema := tool.Object("user_location", "", false,
		tool.String("type", "exact|approximate", false),
		tool.String("city", "City name", false),
		tool.String("region", "Region/state", false),
		tool.String("country", "Country code (ISO 3166-1 alpha-2)", false),
		tool.String("timezone", "IANA timezone", false),
	).Schema()

	return tool.NewFunc(
		types.WebSearchToolName,
		"Perform an OpenAI web search and return the first text result (plus metadata).",
		func(ctx context.Context, args []any, _ *tool.ToolContext) (any, error) {
			query, _ := args[0].(string)

			loc := defaultLocation
			if loc == nil {
				if raw, ok := args[1].(map[string]any); ok {
					loc = types.UserLocationFromMap(raw)
				}
			}

			mdl := defaultModel
			if mdl == nil {
				if name, ok := args[2].(string); ok && name != "" {
					custom := types.CustomModel(name, "")
					mdl = &custom
				}
			}

			if mdl == nil {
				return nil, types.InvalidResponse("web_search requires a non-reasoning model name when no default is provided")
			}
			if defaultModel == nil {
				if _, reasoning := mdl.ReasoningEffort(); reasoning || strings.Contains(strings.ToLower(mdl.Name), "reasoning") {
					return nil, types.InvalidResponse("reasoning models cannot be requested explicitly for web_search")
				}
			}
			if loc == nil {
				return nil, types.InvalidResponse("web_search requires user_location when no default is provided")
			}

			resp, err := m.WebSearch(ctx, query, loc, mdl)
			if err != nil {
				return nil, err
			}
			text, err := resp.FirstText()
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"text":          text,
				"query":         resp.Query,
				"model":         resp.Model,
				"effort":        nil,
				"user_location": locationMap(resp.UserLocation),
				"response_id":   resp.ID,
			}, nil
		},
	).WithParams(
		tool.Required("query", tool.KindString, "The search query."),
		tool.Param{
			Name:        "user_location",
			Kind:        tool.KindObject,
			Description: "User location hints (exact|approximate, city, region, country, timezone). Required unless a default was supplied server-side.",
			Required:    defaultLocation == nil,
			Schema:      locationSchema,
		},
		tool.Param{
			Name:        "model",
			Kind:        tool.KindString,
			Description: "Optional model name for web search (if omitted, server defaults apply). Agents must not request reasoning models.",
			Required:    defaultModel == nil,
		},
	).WithTimeout(90 * time.Second)
}
