package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

func TestFunctionMap(t *testing.T) {
	fn := Function{
		Name:        "get_weather",
		Description: "Get the weather for a city",
		Properties: Properties{
			String("city", "The city", true),
			String("unit", "", false).WithEnum("celsius", "fahrenheit"),
			Object("options", "Extra options", false,
				Boolean("detailed", "Include details", true),
			),
		},
	}

	raw, err := json.Marshal(fn)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "get_weather",
		"description": "Get the weather for a city",
		"parameters": {
			"type": "object",
			"additionalProperties": false,
			"required": ["city"],
			"properties": {
				"city": {"type": "string", "description": "The city"},
				"unit": {"type": "string", "enum": ["celsius", "fahrenheit"]},
				"options": {
					"type": "object",
					"name": "options",
					"description": "Extra options",
					"required": ["detailed"],
					"properties": {
						"detailed": {"type": "boolean", "description": "Include details"}
					}
				}
			}
		}
	}`, string(raw))
}

func TestFunctionMap_Returns(t *testing.T) {
	fn := Function{
		Name:        "count",
		Description: "Count things",
		Returns:     types.NewResponseFormat(map[string]any{"type": "integer"}, false),
	}
	m := fn.Map()
	assert.Equal(t, map[string]any{"type": "integer", "strict": false}, m["returns"])

	params := m["parameters"].(map[string]any)
	_, hasRequired := params["required"]
	assert.False(t, hasRequired)
}

func TestCustomProperty(t *testing.T) {
	p := Custom(map[string]any{"name": "tags", "type": "array", "items": map[string]any{"type": "string"}}, true)
	assert.Equal(t, "tags", p.Name())
	assert.True(t, p.Required())
	assert.Equal(t, "array", p.Schema()["type"])
}

func TestBind(t *testing.T) {
	params := []Param{
		Required("a", KindInteger, "first"),
		Optional("b", KindString, "second", "fallback"),
		Optional("c", KindNumber, "third", nil),
	}

	tests := []struct {
		name    string
		args    map[string]any
		want    []any
		wantErr string
	}{
		{
			name: "all present",
			args: map[string]any{"a": float64(2), "b": "x", "c": 1.5},
			want: []any{2, "x", 1.5},
		},
		{
			name: "defaults",
			args: map[string]any{"a": float64(7)},
			want: []any{7, "fallback", nil},
		},
		{
			name: "explicit null wins over default",
			args: map[string]any{"a": float64(1), "b": nil},
			want: []any{1, nil, nil},
		},
		{
			name: "non integral stays float",
			args: map[string]any{"a": 2.5},
			want: []any{2.5, "fallback", nil},
		},
		{
			name:    "missing required",
			args:    map[string]any{"b": "x"},
			wantErr: "missing required argument 'a' for callable tool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bind(params, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				assert.True(t, errors.Is(err, types.ErrMissingArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunc(t *testing.T) {
	add := NewFunc("add", "Add two numbers", func(_ context.Context, args []any, _ *ToolContext) (any, error) {
		return args[0].(int) + args[1].(int), nil
	}).WithParams(
		Required("x", KindInteger, "left"),
		Optional("y", KindInteger, "right", 10),
	)

	def := add.Definition()
	assert.Equal(t, "add", def.Name)
	assert.Equal(t, []string{"x"}, def.Properties.RequiredNames())

	got, err := add.Execute(context.Background(), map[string]any{"x": float64(5)}, NewToolContext())
	require.NoError(t, err)
	assert.Equal(t, 15, got)

	_, err = add.Execute(context.Background(), map[string]any{}, NewToolContext())
	assert.ErrorIs(t, err, types.ErrMissingArgument)
}

type searchArgs struct {
	Query string   `json:"query" description:"Search terms"`
	Limit int      `json:"limit,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func TestStruct(t *testing.T) {
	s := NewStruct("search", "Search things", func(_ context.Context, in searchArgs, _ *ToolContext) (any, error) {
		return map[string]any{"q": in.Query, "limit": in.Limit}, nil
	})

	def := s.Definition()
	params := def.Parameters()
	assert.Equal(t, []string{"query"}, params["required"])
	props := params["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "Search terms"}, props["query"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["type"])

	got, err := s.Execute(context.Background(), map[string]any{"query": "go", "limit": float64(3)}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": "go", "limit": 3}, got)

	_, err = s.Execute(context.Background(), map[string]any{"limit": float64(3)}, nil)
	assert.ErrorIs(t, err, types.ErrMissingArgument)
}

func TestGenerateSchema(t *testing.T) {
	type item struct {
		Value int `json:"value"`
	}
	type result struct {
		Items []item  `json:"items" description:"All items"`
		Note  *string `json:"note,omitempty"`
	}

	schema := GenerateSchema(result{})
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"items"}, schema["required"])

	items := schema["properties"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	assert.Equal(t, "All items", items["description"])
	assert.Equal(t, "integer", items["items"].(map[string]any)["properties"].(map[string]any)["value"].(map[string]any)["type"])

	f := FormatFor(result{}, true)
	assert.Equal(t, types.DefaultFormatName, f.FormatName())
	assert.True(t, f.Strict)
}

func TestRegistry(t *testing.T) {
	echo := NewFunc("echo", "Echo input", nil)
	upper := NewFunc("Upper", "Uppercase input", nil)

	r, err := NewRegistry(echo, upper)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	assert.Same(t, upper, r.Find("upper"))
	assert.Nil(t, r.Find("missing"))

	require.Error(t, r.Register(NewFunc("", "no name", nil)))
	require.Error(t, r.Register(NewFunc("nodesc", "", nil)))

	// re-registering keeps position
	echo2 := NewFunc("echo", "Echo input again", nil)
	require.NoError(t, r.Register(echo2))
	list := r.List()
	require.Len(t, list, 2)
	assert.Same(t, echo2, list[0])

	clone := r.Clone()
	r.Remove("echo")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, clone.Len())

	defs := clone.Definitions()
	assert.Equal(t, "echo", defs[0].Name)
	assert.Equal(t, "Upper", defs[1].Name)
	assert.Equal(t, "- echo: Echo input again\n- Upper: Uppercase input", Format(clone.List()))
}

func TestExecutor_Retry(t *testing.T) {
	calls := 0
	flaky := NewFunc("flaky", "Fails twice", func(context.Context, []any, *ToolContext) (any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("temporary failure")
		}
		return "ok", nil
	}).WithRetry(&RetryPolicy{
		MaxRetries:        3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	})

	exec := NewExecutor(ExecutorConfig{})
	res := exec.Execute(context.Background(), &ExecuteRequest{Tool: flaky})
	require.True(t, res.Success, "error: %v", res.Error)
	assert.Equal(t, "ok", res.Output)
	assert.Equal(t, 3, res.Attempts)
}

func TestExecutor_NoRetryOnMissingArgument(t *testing.T) {
	fn := NewFunc("needs", "Needs an argument", func(context.Context, []any, *ToolContext) (any, error) {
		return "never", nil
	}).WithParams(Required("x", KindString, "")).WithRetry(DefaultRetryPolicy())

	res := NewExecutor(ExecutorConfig{}).Execute(context.Background(), &ExecuteRequest{Tool: fn})
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.ErrorIs(t, res.Error, types.ErrMissingArgument)
}

func TestExecutor_Timeout(t *testing.T) {
	slow := NewFunc("slow", "Blocks until cancelled", func(ctx context.Context, _ []any, _ *ToolContext) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	res := NewExecutor(ExecutorConfig{}).Execute(context.Background(), &ExecuteRequest{
		Tool:            slow,
		TimeoutOverride: 10 * time.Millisecond,
	})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Error, context.DeadlineExceeded)
}

func TestExecutor_Panic(t *testing.T) {
	boom := NewFunc("boom", "Panics", func(context.Context, []any, *ToolContext) (any, error) {
		panic("kaputt")
	})

	res := NewExecutor(ExecutorConfig{}).Execute(context.Background(), &ExecuteRequest{Tool: boom})
	assert.False(t, res.Success)
	assert.EqualError(t, res.Error, "tool boom panicked: kaputt")
	assert.Equal(t, 1, res.Attempts)
}
