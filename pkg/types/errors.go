package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"
)

var (
	// ErrLLM marks any transport or protocol failure talking to the model API.
	ErrLLM = errors.New("llm request failed")
	// ErrInvalidResponse marks a malformed or unexpected payload.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrNoResponse marks a well-formed envelope without usable content.
	ErrNoResponse = errors.New("no response from api")
	// ErrMissingExecutable marks a tool call without a registered callable.
	ErrMissingExecutable = errors.New("missing executable")
	// ErrMissingArgument marks a callable invocation lacking a required value.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrMaxRounds is returned when a conversation hits its configured round cap.
	ErrMaxRounds = errors.New("maximum number of rounds reached")
)

// InvalidResponse wraps ErrInvalidResponse with a message.
func InvalidResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}

// NoResponse wraps ErrNoResponse with a message.
func NoResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNoResponse, fmt.Sprintf(format, args...))
}

// NetworkError is returned when the API answers with an error status
// or cannot be reached at all (StatusCode 0).
type NetworkError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Err        error
}

func (e *NetworkError) Error() string {
	msg := e.Message()
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("llm network error: %v", e.Err)
	case msg != "":
		return fmt.Sprintf("llm error, status code: %d, message: %s", e.StatusCode, msg)
	default:
		return fmt.Sprintf("llm error, status code: %d", e.StatusCode)
	}
}

// Message returns error.message from the response body, if any.
func (e *NetworkError) Message() string {
	if apiErr := e.APIError(); apiErr != nil {
		return apiErr.Message
	}
	return ""
}

// APIError decodes the OpenAI error envelope carried in the body.
func (e *NetworkError) APIError() *goopenai.APIError {
	if len(e.Body) == 0 {
		return nil
	}
	var resp goopenai.ErrorResponse
	if err := json.Unmarshal(e.Body, &resp); err != nil || resp.Error == nil {
		return nil
	}
	resp.Error.HTTPStatusCode = e.StatusCode
	resp.Error.HTTPStatus = http.StatusText(e.StatusCode)
	return resp.Error
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLLM}
	}
	return []error{ErrLLM, e.Err}
}

// MissingExecutableError indicates a tool call names a function nobody registered.
type MissingExecutableError struct {
	Function string
}

func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("missing executable for function %s", e.Function)
}

func (e *MissingExecutableError) Is(target error) bool {
	return target == ErrMissingExecutable
}

// MissingArgumentError indicates a required callable parameter had no value.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument '%s' for callable tool", e.Name)
}

func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}
