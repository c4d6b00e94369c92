// Package tools provides a metadata-driven registry for MCP tool definitions.
// Tools are defined declaratively and registered through type-safe handlers.
package tools

import (
	"fmt"
	"strings"
)

// Categories lists tool categories in the order they are presented to clients
var Categories = []string{"write", "read", "convert"}

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to an uploader method with matching Args/Result types.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "confluence_upload_directory")
	Name string

	// Method is the uploader method name (e.g., "UploadDirectory")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (write, read, convert)
	Category string

	// ReadOnly indicates the tool doesn't modify the Confluence space
	ReadOnly bool

	// Destructive indicates the tool can delete or overwrite data
	Destructive bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ToolsByCategory returns the specs in category
func ToolsByCategory(category string) []ToolSpec {
	var out []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			out = append(out, spec)
		}
	}
	return out
}

// Instructions summarizes the registered tools, grouped by category, for the
// MCP server handshake.
func Instructions() string {
	var b strings.Builder
	b.WriteString("Confluence Upload MCP Server publishes local Markdown directories into a Confluence space.\n")

	for _, category := range Categories {
		specs := ToolsByCategory(category)
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s%s tools:\n", strings.ToUpper(category[:1]), category[1:])
		for _, spec := range specs {
			summary, _, _ := strings.Cut(spec.Description, "\n")
			fmt.Fprintf(&b, "- %s: %s\n", spec.Name, summary)
		}
	}

	b.WriteString("\nRuns are serialized; one upload or delete runs at a time.")
	return b.String()
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
