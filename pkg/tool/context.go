package tool

import (
	"github.com/sirupsen/logrus"
)

// ToolContext carries metadata for a single tool execution.
type ToolContext struct {
	// Identity info
	ConversationID string
	CallID         string // id of the tool call being answered

	// Metadata for arbitrary values
	Metadata map[string]any

	Logger logrus.FieldLogger
}

// Option defines a function to configure ToolContext
type Option func(*ToolContext)

func NewToolContext(opts ...Option) *ToolContext {
	tc := &ToolContext{
		Metadata: make(map[string]any),
		Logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

func WithConversationID(id string) Option {
	return func(tc *ToolContext) {
		tc.ConversationID = id
	}
}

func WithCallID(id string) Option {
	return func(tc *ToolContext) {
		tc.CallID = id
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(tc *ToolContext) {
		if l != nil {
			tc.Logger = l
		}
	}
}
