package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/dv-team/chatgpt-go/pkg/tool"
)

var now = time.Now

// NewClock returns a tool reporting the current time in a given zone.
func NewClock() *tool.Func {
	return tool.NewFunc(
		"current_time",
		"Get the current date and time, optionally in a specific IANA time zone.",
		currentTime,
	).WithParams(
		tool.Optional("timezone", tool.KindString, "IANA time zone name such as Europe/Berlin. Defaults to UTC.", "UTC"),
	)
}

func currentTime(_ context.Context, args []any, _ *tool.ToolContext) (any, error) {
	name, _ := args[0].(string)
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	t := now().In(loc)
	return map[string]any{
		"timezone": loc.String(),
		"datetime": t.Format(time.RFC3339),
		"weekday":  t.Weekday().String(),
	}, nil
}
