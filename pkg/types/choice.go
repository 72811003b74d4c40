package types

// FuncCallResult is a tool call resolved from a response.
// Call is the verbatim message to replay into history.
type FuncCallResult struct {
	ID           string
	FunctionName string
	Arguments    map[string]any
	Call         ToolCall
}

// NewFuncCallResult builds a FuncCallResult and its ToolCall message.
func NewFuncCallResult(id, name string, arguments map[string]any) FuncCallResult {
	call := NewToolCall(id, name, arguments)
	return FuncCallResult{
		ID:           id,
		FunctionName: name,
		Arguments:    call.Arguments,
		Call:         call,
	}
}

// Usage represents token usage statistics.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	ReasoningTokens int `json:"reasoning_tokens,omitempty"`
	TotalTokens     int `json:"total_tokens"`
}

// Choice is the normalized result of one round.
// Result is nil, a string, or a decoded JSON object when a response format was requested.
type Choice struct {
	Result any
	Tools  []FuncCallResult
	Usage  Usage
}

// Text returns the result when it is plain text.
func (c *Choice) Text() (string, bool) {
	s, ok := c.Result.(string)
	return s, ok
}

// Object returns the result when it is a structured object.
func (c *Choice) Object() (map[string]any, bool) {
	o, ok := c.Result.(map[string]any)
	return o, ok
}

// IsToolCall reports whether the model asked for at least one tool.
func (c *Choice) IsToolCall() bool {
	return len(c.Tools) > 0
}

// Output converts the choice into the history message recorded for it.
func (c *Choice) Output() Output {
	return Output{Result: c.Result, Tools: c.Tools}
}

// ChatResponse represents the full response from a ChatModel.
type ChatResponse struct {
	ID      string
	Model   string
	Choices []Choice
	Usage   Usage
}

// FirstChoice returns the first choice or nil.
func (r *ChatResponse) FirstChoice() *Choice {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	return &r.Choices[0]
}
