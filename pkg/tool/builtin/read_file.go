package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dv-team/chatgpt-go/pkg/tool"
)

const maxFileChars = 50000

// NewReadFile returns a tool that reads a file by absolute path.
func NewReadFile() *tool.Func {
	return tool.NewFunc(
		"read_file",
		"Read the contents of a file from the file system.",
		readFile,
	).WithParams(
		tool.Required("path", tool.KindString, "The absolute path to the file to read."),
	)
}

func readFile(_ context.Context, args []any, tc *tool.ToolContext) (any, error) {
	path, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("path must be a string")
	}

	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("path must be absolute: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if len(content) > maxFileChars {
		if tc != nil {
			tc.Logger.WithField("path", path).Debug("truncating file content")
		}
		content = content[:maxFileChars] + fmt.Sprintf("\n... (truncated, %d chars omitted)", len(content)-maxFileChars)
	}

	return content, nil
}
