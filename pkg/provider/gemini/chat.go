package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/dv-team/chatgpt-go/pkg/parser"
	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Config contains Gemini credential and runtime options.
type Config struct {
	APIKey      string
	Model       string // e.g., "gemini-1.5-flash"
	Temperature float64

	// ClientOptions are passed to genai.NewClient after the API key.
	ClientOptions []option.ClientOption
	Validator     provider.Validator
	Logger        logrus.FieldLogger
}

// ChatModel implements provider.ChatModel using Google Gemini.
type ChatModel struct {
	client             *genai.Client
	defaultModel       string
	defaultTemperature float64
	validator          provider.Validator
	logger             logrus.FieldLogger
}

const (
	defaultModel       = "gemini-1.5-flash"
	defaultTemperature = 0.5
)

// NewChatModel builds a Gemini chat provider.
func NewChatModel(ctx context.Context, cfg Config) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	temp := cfg.Temperature
	if temp == 0 {
		temp = defaultTemperature
	}

	validator := cfg.Validator
	if validator == nil {
		validator = provider.JSONSchemaValidator{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ChatModel{
		client:             client,
		defaultModel:       modelName,
		defaultTemperature: temp,
		validator:          validator,
		logger:             logger,
	}, nil
}

func (m *ChatModel) Name() string {
	return "gemini"
}

// Close releases the underlying client.
func (m *ChatModel) Close() error {
	return m.client.Close()
}

// Chat implements provider.ChatModel.Chat
func (m *ChatModel) Chat(ctx context.Context, messages []types.Message, opts ...provider.Option) (*types.ChatResponse, error) {
	options := provider.NewChatOptions(append([]provider.Option{
		provider.WithModel(types.CustomModel(m.defaultModel, "")),
		provider.WithTemperature(m.defaultTemperature),
	}, opts...)...)

	system, contents, err := toContents(messages)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, errors.New("no messages to send")
	}

	// The chat session holds everything but the last turn, which is sent.
	last := contents[len(contents)-1]
	if last.Role == roleModel {
		return nil, errors.New("last message must come from the user or a tool")
	}

	gm := m.client.GenerativeModel(options.Model.Name)
	configure(gm, options)
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := gm.StartChat()
	cs.History = contents[:len(contents)-1]

	m.logger.WithFields(logrus.Fields{
		"model":     options.Model.Name,
		"history":   len(cs.History),
		"functions": len(options.Functions),
	}).Debug("sending gemini message")

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %w", types.ErrLLM, err)
	}

	return toChatResponse(resp, options.Model.Name, options.ResponseFormat, m.validator)
}

func configure(gm *genai.GenerativeModel, o *provider.ChatOptions) {
	if o.Temperature != nil {
		gm.SetTemperature(float32(*o.Temperature))
	}
	if o.TopP != nil {
		gm.SetTopP(float32(*o.TopP))
	}
	if o.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(o.MaxTokens))
	}

	if len(o.Functions) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(o.Functions))
		for _, fn := range o.Functions {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters:  toSchema(fn.Parameters()),
			})
		}
		gm.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		gm.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
		}
	}

	if f := o.ResponseFormat; f != nil {
		gm.ResponseMIMEType = "application/json"
		gm.ResponseSchema = toSchema(f.Schema)
	}
}

func toChatResponse(resp *genai.GenerateContentResponse, model string, format *types.ResponseFormat, validator provider.Validator) (*types.ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, types.NoResponse("gemini returned no candidates")
	}

	cand := resp.Candidates[0]

	var (
		texts []string
		tools []types.FuncCallResult
	)
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			if s := string(p); s != "" {
				texts = append(texts, s)
			}
		case genai.FunctionCall:
			args := p.Args
			if args == nil {
				args = map[string]any{}
			}
			tools = append(tools, types.NewFuncCallResult("call_"+uuid.NewString(), p.Name, args))
		}
	}

	var result any
	if text := strings.TrimSpace(strings.Join(texts, "\n")); text != "" {
		result = text
		if format != nil {
			var data any
			if err := json.Unmarshal([]byte(parser.CleanJSON(text)), &data); err != nil {
				return nil, types.InvalidResponse("structured output is not valid json: %v", err)
			}
			if !validator.Validate(data, format.Schema) {
				return nil, types.InvalidResponse("structured output does not match schema %s", format.FormatName())
			}
			result = data
		}
	}

	if result == nil && len(tools) == 0 {
		return nil, types.NoResponse("gemini finished with %s and no content", cand.FinishReason)
	}

	var usage types.Usage
	if u := resp.UsageMetadata; u != nil {
		usage = types.Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}

	return &types.ChatResponse{
		Model:   model,
		Choices: []types.Choice{{Result: result, Tools: tools, Usage: usage}},
		Usage:   usage,
	}, nil
}

var _ provider.ChatModel = (*ChatModel)(nil)
