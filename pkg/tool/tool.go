package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Handler receives the bound positional arguments of a Func.
type Handler func(ctx context.Context, args []any, tc *ToolContext) (any, error)

// Func adapts a plain function into a Tool.
// The caller supplies the parameter list alongside the function.
type Func struct {
	BaseTool
	params []Param
	fn     Handler
}

// NewFunc creates a new Tool from a function.
func NewFunc(name, description string, fn Handler) *Func {
	return &Func{
		BaseTool: NewBaseTool(name, description),
		fn:       fn,
	}
}

// Execute binds the arguments and runs the wrapped function.
func (f *Func) Execute(ctx context.Context, args map[string]any, tc *ToolContext) (any, error) {
	if f.fn == nil {
		return nil, fmt.Errorf("tool %s has no implementation", f.Name())
	}
	bound, err := Bind(f.params, args)
	if err != nil {
		return nil, err
	}
	return f.fn(ctx, bound, tc)
}

// Params returns the declared parameters.
func (f *Func) Params() []Param {
	return append([]Param(nil), f.params...)
}

func (f *Func) Definition() Function {
	props := make(Properties, 0, len(f.params))
	for _, p := range f.params {
		props = append(props, p.Property())
	}
	return Function{
		Name:        f.Name(),
		Description: f.Description(),
		Properties:  props,
	}
}

// Fluent setters for configuration

func (f *Func) WithParams(params ...Param) *Func {
	f.params = append(f.params, params...)
	return f
}

func (f *Func) WithTimeout(d time.Duration) *Func {
	f.TimeoutVal = d
	return f
}

func (f *Func) WithRetry(policy *RetryPolicy) *Func {
	f.RetryPolicyVal = policy
	return f
}

// Struct is a tool whose arguments are decoded into T.
type Struct[T any] struct {
	BaseTool
	fn    func(context.Context, T, *ToolContext) (any, error)
	props Properties
}

// NewStruct creates a tool from a struct type; properties are generated from the struct fields.
func NewStruct[T any](name, description string, fn func(context.Context, T, *ToolContext) (any, error)) *Struct[T] {
	var zero T
	return &Struct[T]{
		BaseTool: NewBaseTool(name, description),
		fn:       fn,
		props:    PropertiesOf(zero),
	}
}

func (s *Struct[T]) Definition() Function {
	return Function{
		Name:        s.Name(),
		Description: s.Description(),
		Properties:  s.props,
	}
}

func (s *Struct[T]) Execute(ctx context.Context, args map[string]any, tc *ToolContext) (any, error) {
	for _, name := range s.props.RequiredNames() {
		if _, ok := args[name]; !ok {
			return nil, &types.MissingArgumentError{Name: name}
		}
	}

	var in T
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input for tool %s: %w", s.Name(), err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to parse arguments for tool %s: %w", s.Name(), err)
	}
	return s.fn(ctx, in, tc)
}

func (s *Struct[T]) WithTimeout(d time.Duration) *Struct[T] {
	s.TimeoutVal = d
	return s
}

func (s *Struct[T]) WithRetry(policy *RetryPolicy) *Struct[T] {
	s.RetryPolicyVal = policy
	return s
}

var (
	_ EnhancedTool = (*Func)(nil)
	_ EnhancedTool = (*Struct[struct{}])(nil)
)
