package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestClient_Post(t *testing.T) {
	var gotHeader http.Header
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("X-Request-Id", "req_1")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(WithLogger(quietLogger()), WithHeader("X-Extra", "yes"))
	resp, err := c.Post(context.Background(), srv.URL, map[string]any{"a": 1}, map[string]string{"Authorization": "Bearer k"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "req_1", resp.Header.Get("X-Request-Id"))

	assert.Equal(t, `{"a":1}`, gotBody)
	assert.Equal(t, "application/json; charset=utf-8", gotHeader.Get("Accept"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "Bearer k", gotHeader.Get("Authorization"))
	assert.Equal(t, "yes", gotHeader.Get("X-Extra"))
}

func TestClient_PostKeepsContentType(t *testing.T) {
	var ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(WithLogger(quietLogger())).Post(context.Background(), srv.URL, []byte(`{}`), map[string]string{"Content-Type": "application/vnd.test+json"})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.test+json", ct)
}

func TestClient_PostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := New(WithLogger(quietLogger())).Post(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrLLM)

	var netErr *types.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusUnauthorized, netErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", netErr.Message())
	assert.Equal(t, "llm error, status code: 401, message: Incorrect API key provided", err.Error())
}

func TestClient_PostUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(WithLogger(quietLogger())).Post(context.Background(), url, map[string]any{}, nil)
	var netErr *types.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 0, netErr.StatusCode)
	assert.ErrorIs(t, err, types.ErrLLM)
}

func TestClient_PostEncodeError(t *testing.T) {
	_, err := New().Post(context.Background(), "http://127.0.0.1:0", map[string]any{"ch": make(chan int)}, nil)
	assert.ErrorIs(t, err, types.ErrLLM)
}

func TestWithHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := WithHeaders(nil, map[string]string{"HTTP-Referer": "https://example.com", "X-Title": "", "X-App": "test"})
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://example.com", got.Get("HTTP-Referer"))
	assert.Equal(t, "test", got.Get("X-App"))
	assert.Empty(t, got.Get("X-Title"))

	assert.Nil(t, WithHeaders(nil, nil))
}
