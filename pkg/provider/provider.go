package provider

import (
	"context"

	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// DefaultMaxTokens is the output token limit used when none is configured.
const DefaultMaxTokens = 2500

// ChatOptions contains configurable parameters for chat generation.
type ChatOptions struct {
	Model          types.Model
	MaxTokens      int
	Temperature    *float64
	TopP           *float64
	Functions      []tool.Function
	ResponseFormat *types.ResponseFormat
}

// Option is a functional option for configuring ChatOptions.
type Option func(*ChatOptions)

// NewChatOptions applies opts on top of the defaults.
func NewChatOptions(opts ...Option) *ChatOptions {
	o := &ChatOptions{
		Model:     types.DefaultModel,
		MaxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func WithModel(m types.Model) Option {
	return func(o *ChatOptions) {
		if !m.IsZero() {
			o.Model = m
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(o *ChatOptions) {
		o.MaxTokens = n
	}
}

func WithTemperature(t float64) Option {
	return func(o *ChatOptions) {
		o.Temperature = &t
	}
}

func WithTopP(p float64) Option {
	return func(o *ChatOptions) {
		o.TopP = &p
	}
}

// WithFunctions advertises the given functions to the model.
func WithFunctions(fns ...tool.Function) Option {
	return func(o *ChatOptions) {
		o.Functions = append(o.Functions, fns...)
	}
}

// WithResponseFormat requests structured output.
func WithResponseFormat(f *types.ResponseFormat) Option {
	return func(o *ChatOptions) {
		o.ResponseFormat = f
	}
}

// Enquiry is the immutable request of a single round.
type Enquiry struct {
	Context        []types.Message
	Model          types.Model
	Functions      []tool.Function
	ResponseFormat *types.ResponseFormat
	MaxTokens      int
	Temperature    *float64
	TopP           *float64
}

// NewEnquiry snapshots the history and options into an Enquiry.
func NewEnquiry(messages []types.Message, o *ChatOptions) Enquiry {
	return Enquiry{
		Context:        append([]types.Message(nil), messages...),
		Model:          o.Model,
		Functions:      append([]tool.Function(nil), o.Functions...),
		ResponseFormat: o.ResponseFormat,
		MaxTokens:      o.MaxTokens,
		Temperature:    o.Temperature,
		TopP:           o.TopP,
	}
}

// ChatModel defines the interface for interacting with Chat LLMs.
type ChatModel interface {
	// Name returns the provider name (e.g., "openai", "gemini").
	Name() string

	// Chat sends the conversation history and returns one normalized choice.
	Chat(ctx context.Context, messages []types.Message, opts ...Option) (*types.ChatResponse, error)
}
