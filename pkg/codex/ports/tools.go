package ports

import (
	"context"
	"encoding/json"
)

// Tool is a callable tool offered to codex as a dynamic tool.
type Tool struct {
	Name        string
	Description string
	// InputSchema is a JSON Schema object for the arguments.
	InputSchema json.RawMessage
}

// ToolContent is one piece of tool output. Type is "text" or "image".
type ToolContent struct {
	Type     string
	Text     string
	ImageURL string
}

// ToolResult is the outcome of a tool call.
type ToolResult struct {
	Content []ToolContent
	IsError bool
}

// ToolProvider supplies tools and executes them.
// Implementations wrap MCP sessions, in-process MCP servers, or Go funcs.
type ToolProvider interface {
	// ListTools returns the tools this provider offers.
	ListTools(ctx context.Context) ([]Tool, error)
	// CallTool runs the named tool with raw JSON arguments.
	CallTool(ctx context.Context, name string, args json.RawMessage) (*ToolResult, error)
}
