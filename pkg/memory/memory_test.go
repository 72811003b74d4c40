package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

func TestInMemory(t *testing.T) {
	m := NewInMemory(types.NewInput("first"))
	m.Add(types.Output{Result: "second"}, types.NewToolResult("c1", 3))
	assert.Equal(t, 3, m.Len())

	h := m.History()
	h[0] = types.NewInput("mutated")
	assert.Equal(t, types.NewInput("first"), m.History()[0])

	m.Replace([]types.Message{types.NewInput("only")})
	assert.Equal(t, 1, m.Len())

	m.Reset()
	assert.Equal(t, 0, m.Len())
}

func TestInMemory_Concurrent(t *testing.T) {
	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add(types.NewInput("x"))
			_ = m.History()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}

func TestFormatHistory(t *testing.T) {
	got := FormatHistory([]types.Message{
		types.NewInput("What is 1+2?"),
		types.Output{Tools: []types.FuncCallResult{types.NewFuncCallResult("call_1", "add", map[string]any{"a": 1, "b": 2})}},
		types.NewToolResult("call_1", 3),
		types.Output{Result: map[string]any{"answer": 3}},
	})
	assert.Equal(t, "user: What is 1+2?\nassistant: [call add call_1]\ntool: [call_1] 3\nassistant: {\"answer\":3}", got)
	assert.Empty(t, FormatHistory(nil))
}
