package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/memory"
	"github.com/dv-team/chatgpt-go/pkg/prompt"
	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Config describes how a Conversation is assembled.
type Config struct {
	Provider       provider.ChatModel
	Tools          []tool.Tool
	Memory         memory.Memory
	SystemPrompt   prompt.Template // sent as a developer message, never stored
	ResponseFormat *types.ResponseFormat

	Model       types.Model
	MaxTokens   int
	Temperature *float64
	TopP        *float64

	// MaxRounds caps the number of model calls a single Step may make.
	// Zero means no limit.
	MaxRounds int

	Executor *tool.Executor
	Logger   logrus.FieldLogger
	ID       string
}

// Conversation drives a model through repeated tool-calling rounds while
// keeping a replayable history.
type Conversation struct {
	id       string
	cfg      Config
	provider provider.ChatModel
	tools    *tool.Registry
	memory   memory.Memory
	executor *tool.Executor
	logger   logrus.FieldLogger
}

// New builds a Conversation and wires defaults.
func New(cfg Config) (*Conversation, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	registry, err := tool.NewRegistry(cfg.Tools...)
	if err != nil {
		return nil, err
	}

	mem := cfg.Memory
	if mem == nil {
		mem = memory.NewInMemory()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	executor := cfg.Executor
	if executor == nil {
		executor = tool.NewExecutor(tool.ExecutorConfig{Logger: logger})
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = provider.DefaultMaxTokens
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &Conversation{
		id:       id,
		cfg:      cfg,
		provider: cfg.Provider,
		tools:    registry,
		memory:   mem,
		executor: executor,
		logger:   logger.WithField("conversation", id),
	}, nil
}

// ID returns the conversation identifier passed to tools.
func (c *Conversation) ID() string {
	return c.id
}

// Step runs one round against the model: the answer is appended to the
// history and every requested tool is executed with its result appended.
// With autoContinue the model is called again as long as it keeps asking
// for tools.
func (c *Conversation) Step(ctx context.Context, autoContinue bool) (*types.Choice, error) {
	for round := 1; ; round++ {
		if c.cfg.MaxRounds > 0 && round > c.cfg.MaxRounds {
			return nil, fmt.Errorf("%w: %d", types.ErrMaxRounds, c.cfg.MaxRounds)
		}

		choice, err := c.round(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.WithFields(logrus.Fields{
			"round": round,
			"tools": len(choice.Tools),
		}).Debug("round completed")

		if !autoContinue || !choice.IsToolCall() {
			return choice, nil
		}
	}
}

// Run adds a user input, steps until the model stops calling tools and
// returns the final text. Structured results are returned as JSON.
func (c *Conversation) Run(ctx context.Context, input string) (string, error) {
	c.AddMessage(types.NewInput(input))

	choice, err := c.Step(ctx, true)
	if err != nil {
		return "", err
	}

	switch r := choice.Result.(type) {
	case nil:
		return "", nil
	case string:
		return r, nil
	default:
		return types.Stringify(r)
	}
}

func (c *Conversation) round(ctx context.Context) (*types.Choice, error) {
	resp, err := c.provider.Chat(ctx, c.enquiryContext(), c.options()...)
	if err != nil {
		return nil, err
	}

	choice := resp.FirstChoice()
	if choice == nil {
		return nil, types.NoResponse("no choices in response")
	}

	c.memory.Add(choice.Output())

	for _, call := range choice.Tools {
		if err := c.execute(ctx, call); err != nil {
			return nil, err
		}
	}
	return choice, nil
}

func (c *Conversation) execute(ctx context.Context, call types.FuncCallResult) error {
	t := c.tools.Find(call.FunctionName)
	if t == nil {
		c.logger.WithField("function", call.FunctionName).Warn("missing executable")
		return &types.MissingExecutableError{Function: call.FunctionName}
	}

	res := c.executor.Execute(ctx, &tool.ExecuteRequest{
		Tool:  t,
		Input: call.Arguments,
		Context: tool.NewToolContext(
			tool.WithConversationID(c.id),
			tool.WithCallID(call.ID),
			tool.WithLogger(c.logger),
		),
	})
	if res.Error != nil {
		return fmt.Errorf("tool %s: %w", call.FunctionName, res.Error)
	}

	c.memory.Add(types.NewToolResult(call.ID, res.Output))
	return nil
}

func (c *Conversation) enquiryContext() []types.Message {
	history := c.memory.History()
	if c.cfg.SystemPrompt.IsEmpty() {
		return history
	}
	developer := types.Input{Role: types.RoleDeveloper, Content: c.cfg.SystemPrompt.Render(nil)}
	return append([]types.Message{developer}, history...)
}

func (c *Conversation) options() []provider.Option {
	opts := []provider.Option{
		provider.WithModel(c.cfg.Model),
		provider.WithMaxTokens(c.cfg.MaxTokens),
	}
	if c.cfg.Temperature != nil {
		opts = append(opts, provider.WithTemperature(*c.cfg.Temperature))
	}
	if c.cfg.TopP != nil {
		opts = append(opts, provider.WithTopP(*c.cfg.TopP))
	}
	if defs := c.tools.Definitions(); len(defs) > 0 {
		opts = append(opts, provider.WithFunctions(defs...))
	}
	if c.cfg.ResponseFormat != nil {
		opts = append(opts, provider.WithResponseFormat(c.cfg.ResponseFormat))
	}
	return opts
}

// Split returns an independent copy sharing the provider and executor.
func (c *Conversation) Split() *Conversation {
	cfg := c.cfg
	cfg.ID = ""
	if cfg.Temperature != nil {
		t := *cfg.Temperature
		cfg.Temperature = &t
	}
	if cfg.TopP != nil {
		p := *cfg.TopP
		cfg.TopP = &p
	}

	id := uuid.NewString()
	return &Conversation{
		id:       id,
		cfg:      cfg,
		provider: c.provider,
		tools:    c.tools.Clone(),
		memory:   memory.NewInMemory(cloneHistory(c.memory.History())...),
		executor: c.executor,
		logger:   c.logger.WithField("conversation", id),
	}
}

// Context returns a copy of the history.
func (c *Conversation) Context() []types.Message {
	return c.memory.History()
}

// SetContext replaces the history.
func (c *Conversation) SetContext(messages []types.Message) {
	c.memory.Replace(messages)
}

// AddMessage appends a message to the history.
func (c *Conversation) AddMessage(m types.Message) *Conversation {
	c.memory.Add(m)
	return c
}

// AddWebSearch appends a web_search call with the given default arguments.
func (c *Conversation) AddWebSearch(query string, loc *types.UserLocation, model, effort string) *Conversation {
	return c.AddMessage(types.NewWebSearchCall("web_"+uuid.NewString(), query, loc, model, effort))
}

// AddTool registers an additional tool for subsequent steps.
func (c *Conversation) AddTool(t tool.Tool) error {
	return c.tools.Register(t)
}

// SetTools replaces all tools for subsequent steps.
func (c *Conversation) SetTools(tools ...tool.Tool) error {
	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return err
	}
	c.tools = registry
	return nil
}

// Tools returns the registered tools in registration order.
func (c *Conversation) Tools() []tool.Tool {
	return c.tools.List()
}

// SetResponseFormat replaces the response format for subsequent steps.
// Pass nil to go back to plain text.
func (c *Conversation) SetResponseFormat(f *types.ResponseFormat) {
	c.cfg.ResponseFormat = f
}
