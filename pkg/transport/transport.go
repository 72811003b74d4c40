package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

const (
	defaultTimeout = 120 * time.Second
	acceptHeader   = "application/json; charset=utf-8"
)

// Response is a completed HTTP exchange with a non-error status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Poster sends a JSON body and returns the raw response.
type Poster interface {
	Post(ctx context.Context, url string, body any, headers map[string]string) (*Response, error)
}

// Client is the default net/http backed Poster.
type Client struct {
	http    *http.Client
	headers map[string]string
	logger  logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		clone := *cl.http
		clone.Timeout = d
		cl.http = &clone
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(cl *Client) {
		cl.headers[key] = value
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New builds a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		headers: map[string]string{"Accept": acceptHeader},
		logger:  logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Post encodes body as JSON (a []byte or json.RawMessage is sent verbatim)
// and posts it. Statuses >= 400 and connectivity failures return *types.NetworkError.
func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string) (*Response, error) {
	payload, err := encode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request body: %w", types.ErrLLM, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", types.ErrLLM, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &types.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.NetworkError{StatusCode: resp.StatusCode, Header: resp.Header, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("http post completed")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &types.NetworkError{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encode(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return []byte("{}"), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return json.Marshal(body)
}

type headerRoundTripper struct {
	headers map[string]string
	base    http.RoundTripper
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range h.headers {
		if strings.TrimSpace(v) == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	return h.base.RoundTrip(req)
}

// WithHeaders wraps the provided HTTP client (or default) to inject headers.
func WithHeaders(client *http.Client, headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return client
	}

	baseClient := client
	if baseClient == nil {
		baseClient = &http.Client{}
	}

	clone := *baseClient
	baseTransport := baseClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	clone.Transport = &headerRoundTripper{
		headers: headers,
		base:    baseTransport,
	}

	return &clone
}

var _ Poster = (*Client)(nil)
