// Package mcp exposes the tools of MCP servers as codex dynamic tools.
//
// SessionProvider wraps a connected session from the official MCP Go SDK,
// typically a stdio server started with ConnectCommand. ServerProvider
// wraps an in-process github.com/mark3labs/mcp-go server and drives it
// through HandleMessage without any transport.
package mcp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// ClientName and ClientVersion identify codex to MCP servers.
const (
	ClientName    = "codex-go"
	ClientVersion = "0.1.0"
)

// content is the wire shape shared by MCP text and image content blocks.
type content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

// dataURL encodes raw image bytes as a data URL.
func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// convert maps one MCP content block to tool content. Blocks other than
// text and image are rendered as their JSON.
func convert(c content, raw json.RawMessage) ports.ToolContent {
	switch c.Type {
	case "text":
		return ports.ToolContent{Type: "text", Text: c.Text}
	case "image":
		return ports.ToolContent{
			Type:     "image",
			ImageURL: fmt.Sprintf("data:%s;base64,%s", c.MIMEType, c.Data),
		}
	default:
		return ports.ToolContent{Type: "text", Text: string(raw)}
	}
}

// schemaJSON marshals an MCP input schema, defaulting to an empty object.
func schemaJSON(schema any) (json.RawMessage, error) {
	if schema == nil {
		return json.RawMessage(`{"type":"object"}`), nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	if string(data) == "null" {
		return json.RawMessage(`{"type":"object"}`), nil
	}

	return data, nil
}

// decodeArgs turns raw tool arguments into the map MCP servers expect.
func decodeArgs(args json.RawMessage) (map[string]any, error) {
	out := map[string]any{}
	if len(args) == 0 || string(args) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(args, &out); err != nil {
		return nil, fmt.Errorf("tool arguments must be a JSON object: %w", err)
	}

	return out, nil
}
