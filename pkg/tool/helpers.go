package tool

import (
	"fmt"
	"strings"
)

// Format renders a readable list of tools.
func Format(tools []Tool) string {
	if len(tools) == 0 {
		return "no tools available"
	}
	parts := make([]string, 0, len(tools))
	for _, t := range tools {
		parts = append(parts, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(parts, "\n")
}

// ToDefinitions converts a list of Tools to function descriptors.
func ToDefinitions(tools []Tool) []Function {
	res := make([]Function, len(tools))
	for i, t := range tools {
		res[i] = t.Definition()
	}
	return res
}
