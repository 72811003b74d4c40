package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

type numbers struct {
	Items []int `json:"items"`
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `  {"a":1} `, `{"a":1}`},
		{"json fence", "Here:\n```json\n{\"a\":1}\n```\nDone", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestJSONParser(t *testing.T) {
	p := NewJSONParser[numbers]()
	got, err := p.Parse("```json\n{\"items\":[1,1,2]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2}, got.Items)

	_, err = p.Parse("no json here")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	got, err := Decode[numbers](map[string]any{"items": []any{1.0, 2.0, 2.0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, got.Items)

	got, err = Decode[numbers](`{"items":[3]}`)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Items)

	_, err = Decode[numbers](nil)
	assert.ErrorIs(t, err, types.ErrNoResponse)

	_, err = Decode[numbers](map[string]any{"items": "nope"})
	assert.Error(t, err)
}
