package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/transport"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config contains OpenAI credential and runtime options.
type Config struct {
	APIKey  string
	BaseURL string
	Model   types.Model // default model when a call names none

	// HTTPClient is used by the default transport and the speech client.
	HTTPClient *http.Client
	// Transport replaces the default HTTP transport for /responses calls.
	Transport transport.Poster
	// Headers are sent with every request, next to Authorization.
	Headers map[string]string

	Validator   provider.Validator
	Interceptor provider.Interceptor
	Logger      logrus.FieldLogger
}

// ChatModel implements provider.ChatModel on the OpenAI Responses API.
type ChatModel struct {
	apiKey       string
	baseURL      string
	headers      map[string]string
	defaultModel types.Model

	poster      transport.Poster
	speech      *goopenai.Client
	validator   provider.Validator
	interceptor provider.Interceptor
	logger      logrus.FieldLogger
}

// NewChatModel builds a Responses API provider.
func NewChatModel(cfg Config) (*ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	poster := cfg.Transport
	if poster == nil {
		poster = transport.New(
			transport.WithHTTPClient(cfg.HTTPClient),
			transport.WithLogger(logger),
		)
	}

	validator := cfg.Validator
	if validator == nil {
		validator = provider.JSONSchemaValidator{}
	}

	interceptor := cfg.Interceptor
	if interceptor == nil {
		interceptor = provider.Passthrough
	}

	model := cfg.Model
	if model.IsZero() {
		model = types.DefaultModel
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = baseURL
	if hc := transport.WithHeaders(cfg.HTTPClient, cfg.Headers); hc != nil {
		apiCfg.HTTPClient = hc
	}

	return &ChatModel{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		headers:      cfg.Headers,
		defaultModel: model,
		poster:       poster,
		speech:       goopenai.NewClientWithConfig(apiCfg),
		validator:    validator,
		interceptor:  interceptor,
		logger:       logger,
	}, nil
}

func (m *ChatModel) Name() string {
	return "openai"
}

// DefaultModel returns the model used when a call names none.
func (m *ChatModel) DefaultModel() types.Model {
	return m.defaultModel
}

// Chat implements provider.ChatModel.Chat
func (m *ChatModel) Chat(ctx context.Context, messages []types.Message, opts ...provider.Option) (*types.ChatResponse, error) {
	options := provider.NewChatOptions(append([]provider.Option{provider.WithModel(m.defaultModel)}, opts...)...)
	enquiry := provider.NewEnquiry(messages, options)

	body, err := m.interceptor.Invoke(ctx, enquiry, m.send)
	if err != nil {
		return nil, err
	}

	resp, err := parseResponse(body, enquiry.ResponseFormat, m.validator)
	if err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"response_id": resp.ID,
		"tool_calls":  len(resp.Choices[0].Tools),
	}).Debug("chat round completed")

	return resp, nil
}

// send is the innermost step of the interceptor chain.
func (m *ChatModel) send(ctx context.Context, e provider.Enquiry) ([]byte, error) {
	body, err := buildRequest(e)
	if err != nil {
		return nil, err
	}
	resp, err := m.poster.Post(ctx, m.endpoint("responses"), body, m.requestHeaders())
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (m *ChatModel) endpoint(path string) string {
	return m.baseURL + "/" + path
}

func (m *ChatModel) requestHeaders() map[string]string {
	h := make(map[string]string, len(m.headers)+2)
	for k, v := range m.headers {
		h[k] = v
	}
	h["Authorization"] = "Bearer " + m.apiKey
	h["Content-Type"] = "application/json"
	return h
}

// Ensure interface compliance
var _ provider.ChatModel = (*ChatModel)(nil)
