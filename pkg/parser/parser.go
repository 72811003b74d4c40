package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// Parser defines how to parse the output of an LLM.
type Parser[T any] interface {
	// Parse converts the output text into a structured object.
	Parse(text string) (T, error)
	// GetFormatInstructions returns a string describing the expected format.
	GetFormatInstructions() string
}

// JSONParser parses JSON output into a struct.
type JSONParser[T any] struct{}

// NewJSONParser creates a new JSON parser.
func NewJSONParser[T any]() *JSONParser[T] {
	return &JSONParser[T]{}
}

// Parse tries to extract and parse JSON from the text.
// It handles cases where the JSON is embedded in markdown code blocks.
func (p *JSONParser[T]) Parse(text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(CleanJSON(text)), &out); err != nil {
		return out, fmt.Errorf("failed to parse JSON: %w. Input: %s", err, text)
	}
	return out, nil
}

func (p *JSONParser[T]) GetFormatInstructions() string {
	return "Return the output as a valid JSON object."
}

// Decode converts a choice result into T. Objects are re-encoded and
// decoded into T, strings are parsed as (possibly fenced) JSON.
func Decode[T any](result any) (T, error) {
	var out T
	switch r := result.(type) {
	case nil:
		return out, types.NoResponse("nothing to decode")
	case string:
		return NewJSONParser[T]().Parse(r)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return out, fmt.Errorf("failed to encode result: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode result: %w", err)
	}
	return out, nil
}

// StringParser returns the raw text.
type StringParser struct{}

func NewStringParser() *StringParser {
	return &StringParser{}
}

func (p *StringParser) Parse(text string) (string, error) {
	return text, nil
}

func (p *StringParser) GetFormatInstructions() string {
	return ""
}

var fence = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// CleanJSON extracts JSON from markdown code blocks or strips surrounding whitespace.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if matches := fence.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return text
}
