package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Memory defines how conversation state is stored.
type Memory interface {
	Add(messages ...types.Message)
	History() []types.Message
	Replace(messages []types.Message)
	Len() int
	Reset()
}

// InMemory is a simple thread-safe memory backend.
type InMemory struct {
	mu       sync.RWMutex
	messages []types.Message
}

// NewInMemory creates a memory store holding a copy of messages.
func NewInMemory(messages ...types.Message) *InMemory {
	m := &InMemory{messages: make([]types.Message, 0, len(messages)+8)}
	m.messages = append(m.messages, messages...)
	return m
}

// Add appends messages to history.
func (m *InMemory) Add(messages ...types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages...)
}

// History returns a copy of the conversation so callers cannot mutate internal state.
func (m *InMemory) History() []types.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Replace swaps the whole history.
func (m *InMemory) Replace(messages []types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(make([]types.Message, 0, len(messages)), messages...)
}

func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Reset clears the conversation.
func (m *InMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = m.messages[:0]
}

// FormatHistory renders a simple line per message, for logs and prompts.
func FormatHistory(messages []types.Message) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, formatMessage(msg))
	}
	return strings.Join(lines, "\n")
}

func formatMessage(msg types.Message) string {
	switch m := msg.(type) {
	case types.Input:
		role := m.Role
		if role == "" {
			role = types.RoleUser
		}
		return string(role) + ": " + m.Content
	case types.Output:
		var parts []string
		if m.Result != nil {
			if s, ok := m.Result.(string); ok {
				parts = append(parts, s)
			} else if s, err := types.Stringify(m.Result); err == nil {
				parts = append(parts, s)
			}
		}
		for _, t := range m.Tools {
			parts = append(parts, fmt.Sprintf("[call %s %s]", t.FunctionName, t.ID))
		}
		return "assistant: " + strings.Join(parts, " ")
	case types.ToolCall:
		return fmt.Sprintf("assistant: [call %s %s]", m.Name, m.ID)
	case types.ToolResult:
		return fmt.Sprintf("tool: [%s] %v", m.CallID, m.Content)
	case types.WebSearchResult:
		return fmt.Sprintf("tool: [%s] %v", m.CallID, m.Content)
	default:
		return fmt.Sprintf("%T", msg)
	}
}
