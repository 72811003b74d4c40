package builtin

import (
	"github.com/dv-team/chatgpt-go/pkg/tool"
)

// All returns every builtin tool.
func All() []tool.Tool {
	return []tool.Tool{
		NewClock(),
		NewReadFile(),
		NewGlob(),
	}
}

// RegisterAll registers all builtin tools to the provided registry.
func RegisterAll(r *tool.Registry) error {
	for _, t := range All() {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
