package types

import (
	"fmt"
)

// Role identifies who authored a message in the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Item is a single entry of the "input" array sent to the Responses API.
type Item = map[string]any

// Message is one entry of a conversation history.
// Every variant knows how to flatten itself into zero or more wire input items.
type Message interface {
	InputItems() ([]Item, error)
}

// Attachment adds extra content parts to an Input.
type Attachment interface {
	ContentParts() []Item
}

// ImageURL attaches an image by URL (or data URL).
type ImageURL struct {
	URL string
}

func (a ImageURL) ContentParts() []Item {
	return []Item{{
		"type":      "input_image",
		"image_url": a.URL,
	}}
}

// Input is text authored by the user (or a system/developer role).
type Input struct {
	Role       Role
	Content    string
	Attachment Attachment
}

// NewInput returns a user Input.
func NewInput(content string) Input {
	return Input{Role: RoleUser, Content: content}
}

func (m Input) InputItems() ([]Item, error) {
	role := m.Role
	if role == "" {
		role = RoleUser
	}
	content := []Item{{
		"type": "input_text",
		"text": m.Content,
	}}
	if m.Attachment != nil {
		content = append(content, m.Attachment.ContentParts()...)
	}
	return []Item{{
		"role":    string(role),
		"content": content,
	}}, nil
}

// Output is an assistant turn: an optional result (string or decoded object)
// plus the tool calls the model requested in the same round.
type Output struct {
	Result any
	Tools  []FuncCallResult
}

func (m Output) InputItems() ([]Item, error) {
	var items []Item

	switch r := m.Result.(type) {
	case nil:
	case string:
		items = append(items, assistantText(r))
	default:
		text, err := Stringify(r)
		if err != nil {
			return nil, fmt.Errorf("encode assistant result: %w", err)
		}
		items = append(items, assistantText(text))
	}

	for _, t := range m.Tools {
		callItems, err := t.Call.InputItems()
		if err != nil {
			return nil, err
		}
		items = append(items, callItems...)
	}
	return items, nil
}

func assistantText(text string) Item {
	return Item{
		"role": string(RoleAssistant),
		"content": []Item{{
			"type": "output_text",
			"text": text,
		}},
	}
}

// ToolCall is a function invocation requested by the assistant.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
	Type      string // usually "function"
	Role      Role
}

// NewToolCall returns a function ToolCall authored by the assistant.
func NewToolCall(id, name string, arguments map[string]any) ToolCall {
	if arguments == nil {
		arguments = map[string]any{}
	}
	return ToolCall{
		ID:        id,
		Name:      name,
		Arguments: arguments,
		Type:      "function",
		Role:      RoleAssistant,
	}
}

func (m ToolCall) InputItems() ([]Item, error) {
	args := m.Arguments
	if args == nil {
		args = map[string]any{}
	}
	encoded, err := Stringify(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments for %s: %w", m.Name, err)
	}
	return []Item{{
		"type":      "function_call",
		"call_id":   m.ID,
		"name":      m.Name,
		"arguments": encoded,
	}}, nil
}

// ToolResult answers a ToolCall with arbitrary JSON-compatible content.
type ToolResult struct {
	CallID  string
	Content any
	Role    Role
}

// NewToolResult returns a ToolResult with the tool role.
func NewToolResult(callID string, content any) ToolResult {
	return ToolResult{CallID: callID, Content: content, Role: RoleTool}
}

func (m ToolResult) InputItems() ([]Item, error) {
	output, err := outputString(m.Content)
	if err != nil {
		return nil, err
	}
	return []Item{{
		"type":    "function_call_output",
		"call_id": m.CallID,
		"output":  output,
	}}, nil
}

// WebSearchToolName is the function name used for web search calls.
const WebSearchToolName = "web_search"

// NewWebSearchCall builds a web_search ToolCall; nil/empty optional arguments are left out.
func NewWebSearchCall(id, query string, userLocation *UserLocation, model, effort string) ToolCall {
	args := map[string]any{"query": query}
	if userLocation != nil {
		args["user_location"] = userLocation.Map()
	}
	if model != "" {
		args["model"] = model
	}
	if effort != "" {
		args["effort"] = effort
	}
	return NewToolCall(id, WebSearchToolName, args)
}

// WebSearchResult is the answer to a web_search call.
// Content is either a string or a map.
type WebSearchResult struct {
	CallID  string
	Content any
}

// WebSearchResultFromText builds a result with a single text plus extra fields.
func WebSearchResultFromText(callID, text string, extra map[string]any) WebSearchResult {
	content := map[string]any{"text": text}
	for k, v := range extra {
		content[k] = v
	}
	return WebSearchResult{CallID: callID, Content: content}
}

// WebSearchResultFromTexts builds a result carrying several text snippets.
func WebSearchResultFromTexts(callID string, texts []string, extra map[string]any) WebSearchResult {
	content := map[string]any{"texts": append([]string(nil), texts...)}
	for k, v := range extra {
		content[k] = v
	}
	return WebSearchResult{CallID: callID, Content: content}
}

func (m WebSearchResult) InputItems() ([]Item, error) {
	return ToolResult{CallID: m.CallID, Content: m.Content, Role: RoleTool}.InputItems()
}

func outputString(content any) (string, error) {
	switch c := content.(type) {
	case nil:
		return "", nil
	case string:
		return c, nil
	case map[string]any, []any:
		return Stringify(c)
	}
	if s, ok := ScalarString(content); ok {
		return s, nil
	}
	// structs, typed slices and maps
	return Stringify(content)
}

var (
	_ Message = Input{}
	_ Message = Output{}
	_ Message = ToolCall{}
	_ Message = ToolResult{}
	_ Message = WebSearchResult{}
)
