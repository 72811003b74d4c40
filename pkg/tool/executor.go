package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

// ExecutorConfig controls how tools are executed.
type ExecutorConfig struct {
	MaxConcurrency int
	DefaultTimeout time.Duration
	Logger         logrus.FieldLogger
}

// Executor runs tools with concurrency limits, timeouts, and retries.
type Executor struct {
	config    ExecutorConfig
	semaphore chan struct{}
}

// NewExecutor builds an Executor with sane defaults.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 5
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Executor{
		config:    cfg,
		semaphore: make(chan struct{}, cfg.MaxConcurrency),
	}
}

// ExecuteRequest describes a single tool invocation.
type ExecuteRequest struct {
	Tool    Tool
	Input   map[string]any
	Context *ToolContext
	// Overrides tool's default timeout if set > 0
	TimeoutOverride time.Duration
}

// ExecuteResult captures the output of a tool invocation.
type ExecuteResult struct {
	Success    bool
	Output     any
	Error      error
	Duration   time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
	Attempts   int
}

// Execute runs one tool with timeout and retry logic.
// A panicking tool is reported as a failed attempt.
func (e *Executor) Execute(ctx context.Context, req *ExecuteRequest) *ExecuteResult {
	res := &ExecuteResult{StartedAt: time.Now()}
	finish := func() *ExecuteResult {
		res.FinishedAt = time.Now()
		res.Duration = res.FinishedAt.Sub(res.StartedAt)
		res.Success = res.Error == nil
		return res
	}

	select {
	case e.semaphore <- struct{}{}:
		defer func() { <-e.semaphore }()
	case <-ctx.Done():
		res.Error = ctx.Err()
		return finish()
	}

	if req.Context == nil {
		req.Context = NewToolContext(WithLogger(e.config.Logger))
	}
	if req.Input == nil {
		req.Input = map[string]any{}
	}

	timeout, policy := e.policy(req)
	log := e.config.Logger.WithFields(logrus.Fields{
		"tool":    req.Tool.Name(),
		"call_id": req.Context.CallID,
	})

	maxAttempts := 1
	if policy != nil {
		maxAttempts += policy.MaxRetries
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		res.Attempts = attempt + 1
		res.Output, res.Error = e.attempt(ctx, req, timeout)
		if res.Error == nil || attempt == maxAttempts-1 || !isRetryable(res.Error, policy) {
			break
		}

		delay := calculateBackoff(attempt, policy)
		log.WithError(res.Error).WithField("attempt", res.Attempts).Debugf("retrying tool in %s", delay)
		if err := sleep(ctx, delay); err != nil {
			res.Error = err
			break
		}
	}

	finish()
	entry := log.WithFields(logrus.Fields{
		"attempts": res.Attempts,
		"duration": res.Duration,
	})
	if res.Error != nil {
		entry.WithError(res.Error).Warn("tool execution failed")
	} else {
		entry.Debug("tool executed")
	}
	return res
}

// policy resolves the timeout and retry policy of a request.
func (e *Executor) policy(req *ExecuteRequest) (time.Duration, *RetryPolicy) {
	timeout := e.config.DefaultTimeout
	var retry *RetryPolicy
	if et, ok := req.Tool.(EnhancedTool); ok {
		if t := et.Timeout(); t > 0 {
			timeout = t
		}
		retry = et.RetryPolicy()
	}
	if req.TimeoutOverride > 0 {
		timeout = req.TimeoutOverride
	}
	return timeout, retry
}

func (e *Executor) attempt(ctx context.Context, req *ExecuteRequest, timeout time.Duration) (out any, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("tool %s panicked: %v", req.Tool.Name(), r)
		}
	}()
	return req.Tool.Execute(ctx, req.Input, req.Context)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryable(err error, policy *RetryPolicy) bool {
	// argument errors fail the same way every time
	if errors.Is(err, types.ErrMissingArgument) {
		return false
	}
	if policy == nil || len(policy.RetryableErrors) == 0 {
		return true
	}
	errStr := err.Error()
	for _, pattern := range policy.RetryableErrors {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func calculateBackoff(attempt int, policy *RetryPolicy) time.Duration {
	if policy == nil {
		return 0
	}
	backoff := float64(policy.InitialBackoff) * math.Pow(policy.BackoffMultiplier, float64(attempt))
	if backoff > float64(policy.MaxBackoff) {
		backoff = float64(policy.MaxBackoff)
	}
	return time.Duration(backoff)
}
