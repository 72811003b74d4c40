package tool

import (
	"time"
)

// BaseTool implements the common fields of EnhancedTool.
// Embed this struct to get default implementations.
type BaseTool struct {
	NameVal        string
	DescVal        string
	TimeoutVal     time.Duration
	RetryPolicyVal *RetryPolicy
}

func NewBaseTool(name, desc string) BaseTool {
	return BaseTool{
		NameVal:    name,
		DescVal:    desc,
		TimeoutVal: 30 * time.Second,
	}
}

func (b *BaseTool) Name() string              { return b.NameVal }
func (b *BaseTool) Description() string       { return b.DescVal }
func (b *BaseTool) Timeout() time.Duration    { return b.TimeoutVal }
func (b *BaseTool) RetryPolicy() *RetryPolicy { return b.RetryPolicyVal }
