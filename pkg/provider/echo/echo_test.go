package echo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

func TestChat_Echo(t *testing.T) {
	m := New("Echo Agent")
	assert.Equal(t, "echo-Echo_Agent", m.Name())

	resp, err := m.Chat(context.Background(), []types.Message{
		types.Input{Role: types.RoleDeveloper, Content: "ignored"},
		types.NewInput("hello there"),
	})
	require.NoError(t, err)

	text, ok := resp.FirstChoice().Text()
	require.True(t, ok)
	assert.Equal(t, "Echo Agent hello there", text)
	assert.Equal(t, types.DefaultModel.Name, resp.Model)
}

func TestChat_Script(t *testing.T) {
	call := types.NewFuncCallResult("call_1", "add", map[string]any{"a": 1})
	m := New("").Script(types.Choice{Tools: []types.FuncCallResult{call}})

	resp, err := m.Chat(context.Background(), []types.Message{types.NewInput("1+1")}, provider.WithMaxTokens(10))
	require.NoError(t, err)
	assert.True(t, resp.FirstChoice().IsToolCall())

	resp, err = m.Chat(context.Background(), []types.Message{types.NewInput("again")})
	require.NoError(t, err)
	assert.Equal(t, "again", resp.FirstChoice().Result)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 10, reqs[0].MaxTokens)
}

func TestChat_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("").Chat(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
