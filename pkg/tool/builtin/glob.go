package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dv-team/chatgpt-go/pkg/tool"
)

const maxGlobResults = 1000

// GlobResult keeps output shape stable even when truncating results.
type GlobResult struct {
	Matches      []string `json:"matches"`
	TotalMatches int      `json:"total_matches"`
	Truncated    bool     `json:"truncated,omitempty"`
	Warning      string   `json:"warning,omitempty"`
}

// NewGlob returns a tool listing files that match a doublestar pattern.
func NewGlob() *tool.Func {
	return tool.NewFunc(
		"glob",
		"Find files matching glob patterns. Supports wildcards like **/*.go.",
		globFiles,
	).WithParams(
		tool.Required("pattern", tool.KindString, "The glob pattern to match (e.g., 'src/**/*.ts')."),
		tool.Optional("root_dir", tool.KindString, "The root directory to start searching from (defaults to current dir).", "."),
		tool.Param{
			Name:        "exclude",
			Kind:        tool.KindArray,
			Description: "List of patterns to exclude.",
			Schema:      map[string]any{"items": map[string]any{"type": "string"}},
		},
	).WithTimeout(30 * time.Second)
}

func globFiles(_ context.Context, args []any, _ *tool.ToolContext) (any, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("pattern must be a string")
	}

	rootDir, _ := args[1].(string)
	if rootDir == "" {
		rootDir = "."
	}

	var excludePatterns []string
	if excludes, ok := args[2].([]any); ok {
		for _, e := range excludes {
			if s, ok := e.(string); ok {
				excludePatterns = append(excludePatterns, s)
			}
		}
	}

	matches, err := doublestar.Glob(os.DirFS(rootDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob failed: %w", err)
	}

	absRoot, absErr := filepath.Abs(rootDir)

	var finalMatches []string
	for _, m := range matches {
		excluded := false
		for _, excl := range excludePatterns {
			if matched, _ := doublestar.Match(excl, m); matched {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if absErr == nil {
			finalMatches = append(finalMatches, filepath.Join(absRoot, m))
		} else {
			finalMatches = append(finalMatches, m)
		}
	}

	result := &GlobResult{
		TotalMatches: len(finalMatches),
		Matches:      finalMatches,
	}

	if len(finalMatches) > maxGlobResults {
		result.Matches = finalMatches[:maxGlobResults]
		result.Truncated = true
		result.Warning = fmt.Sprintf("Too many matches, truncated to %d", maxGlobResults)
	}

	return result, nil
}
