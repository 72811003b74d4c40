package tool

import (
	"context"
	"time"
)

// Tool represents a callable capability the model may invoke.
type Tool interface {
	// Name returns the unique name of the tool.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Definition returns the function descriptor advertised to the model.
	Definition() Function

	// Execute runs the tool with the decoded arguments object.
	Execute(ctx context.Context, args map[string]any, tc *ToolContext) (any, error)
}

// EnhancedTool extends Tool with execution policy.
type EnhancedTool interface {
	Tool

	// Timeout returns the execution timeout. Return 0 for default.
	Timeout() time.Duration

	// RetryPolicy returns the retry configuration. Return nil for no retries.
	RetryPolicy() *RetryPolicy
}

// RetryPolicy defines how tool execution should be retried on failure.
type RetryPolicy struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	RetryableErrors   []string // Substrings to match
}

// DefaultRetryPolicy returns a standard retry configuration.
// Tools opt into it explicitly; none is applied by default.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}
