package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/provider/openai"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Config contains OpenRouter credential and runtime options.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	HTTPClient  *http.Client
	Temperature float64 // Default temperature
	Referer     string  // Optional: HTTP-Referer header required by OpenRouter when set in dashboard
	AppName     string  // Optional: X-Title header recommended by OpenRouter

	Interceptor provider.Interceptor
	Logger      logrus.FieldLogger
}

// ChatModel talks to OpenRouter's OpenAI-compatible Responses endpoint.
type ChatModel struct {
	*openai.ChatModel
	defaultTemperature float64
}

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultTemperature = 0.7
	defaultModel       = "openrouter/auto"
	refererHeaderKey   = "HTTP-Referer"
	appNameHeaderKey   = "X-Title"
)

// NewChatModel builds a chat provider for OpenRouter.
func NewChatModel(cfg Config) (*ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}

	baseURL := defaultBaseURL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		baseURL = cfg.BaseURL
	}

	headers := map[string]string{}
	if strings.TrimSpace(cfg.Referer) != "" {
		headers[refererHeaderKey] = cfg.Referer
	}
	if strings.TrimSpace(cfg.AppName) != "" {
		headers[appNameHeaderKey] = cfg.AppName
	}

	modelName := cfg.Model
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultModel
	}

	temp := cfg.Temperature
	if temp == 0 {
		temp = defaultTemperature
	}

	inner, err := openai.NewChatModel(openai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       types.CustomModel(modelName, ""),
		HTTPClient:  cfg.HTTPClient,
		Headers:     headers,
		Interceptor: cfg.Interceptor,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &ChatModel{
		ChatModel:          inner,
		defaultTemperature: temp,
	}, nil
}

func (m *ChatModel) Name() string {
	return "openrouter"
}

// Chat implements provider.ChatModel.Chat
func (m *ChatModel) Chat(ctx context.Context, messages []types.Message, opts ...provider.Option) (*types.ChatResponse, error) {
	opts = append([]provider.Option{provider.WithTemperature(m.defaultTemperature)}, opts...)
	return m.ChatModel.Chat(ctx, messages, opts...)
}

// Ensure interface compliance
var _ provider.ChatModel = (*ChatModel)(nil)
