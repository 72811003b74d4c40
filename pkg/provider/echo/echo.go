package echo

import (
	"context"
	"strings"
	"sync"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// ChatModel is a deterministic echo provider useful for tests and fallbacks.
// Scripted choices are replayed in order; once they run out the last user
// input is echoed back.
type ChatModel struct {
	Prefix string

	mu       sync.Mutex
	script   []types.Choice
	requests []provider.Enquiry
}

// New returns a new echo provider.
func New(prefix string) *ChatModel {
	return &ChatModel{Prefix: prefix}
}

// Script queues choices to be returned by subsequent calls.
func (p *ChatModel) Script(choices ...types.Choice) *ChatModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append(p.script, choices...)
	return p
}

// Requests returns every enquiry received so far.
func (p *ChatModel) Requests() []provider.Enquiry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]provider.Enquiry(nil), p.requests...)
}

func (p *ChatModel) Name() string {
	if p.Prefix == "" {
		return "echo"
	}
	return "echo-" + strings.ReplaceAll(p.Prefix, " ", "_")
}

// Chat implements provider.ChatModel
func (p *ChatModel) Chat(ctx context.Context, messages []types.Message, opts ...provider.Option) (*types.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := provider.NewChatOptions(opts...)

	p.mu.Lock()
	p.requests = append(p.requests, provider.NewEnquiry(messages, options))
	var choice types.Choice
	scripted := len(p.script) > 0
	if scripted {
		choice = p.script[0]
		p.script = p.script[1:]
	}
	p.mu.Unlock()

	if !scripted {
		text := lastInput(messages)
		if p.Prefix != "" {
			text = strings.TrimSpace(p.Prefix) + " " + text
		}
		n := len(strings.Fields(text))
		choice = types.Choice{
			Result: text,
			Usage:  types.Usage{InputTokens: n, OutputTokens: n, TotalTokens: n * 2},
		}
	}

	return &types.ChatResponse{
		Model:   options.Model.Name,
		Choices: []types.Choice{choice},
		Usage:   choice.Usage,
	}, nil
}

func lastInput(messages []types.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if in, ok := messages[i].(types.Input); ok && (in.Role == "" || in.Role == types.RoleUser) {
			return in.Content
		}
	}
	return ""
}

var _ provider.ChatModel = (*ChatModel)(nil)
