package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// SessionProvider offers the tools of a connected MCP client session.
type SessionProvider struct {
	session *mcpsdk.ClientSession
}

// Verify interface compliance at compile time.
var _ ports.ToolProvider = (*SessionProvider)(nil)

// NewSessionProvider wraps an already connected session.
func NewSessionProvider(session *mcpsdk.ClientSession) *SessionProvider {
	return &SessionProvider{session: session}
}

// Connect opens an MCP session over transport.
func Connect(ctx context.Context, transport mcpsdk.Transport) (*SessionProvider, error) {
	client := mcpsdk.NewClient(
		&mcpsdk.Implementation{
			Name:    ClientName,
			Version: ClientVersion,
		},
		nil,
	)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}

	return NewSessionProvider(session), nil
}

// ConnectCommand starts a stdio MCP server and connects to it.
func ConnectCommand(ctx context.Context, name string, args []string, env map[string]string) (*SessionProvider, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	return Connect(ctx, &mcpsdk.CommandTransport{Command: cmd})
}

// ListTools implements ports.ToolProvider. It follows pagination cursors.
func (p *SessionProvider) ListTools(ctx context.Context) ([]ports.Tool, error) {
	var tools []ports.Tool
	params := &mcpsdk.ListToolsParams{}
	for {
		res, err := p.session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("mcp tools/list: %w", err)
		}
		for _, t := range res.Tools {
			schema, err := schemaJSON(t.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("tool %q: %w", t.Name, err)
			}
			tools = append(tools, ports.Tool{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: schema,
			})
		}
		if res.NextCursor == "" {
			return tools, nil
		}
		params = &mcpsdk.ListToolsParams{Cursor: res.NextCursor}
	}
}

// CallTool implements ports.ToolProvider.
func (p *SessionProvider) CallTool(ctx context.Context, name string, args json.RawMessage) (*ports.ToolResult, error) {
	arguments, err := decodeArgs(args)
	if err != nil {
		return nil, err
	}

	res, err := p.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("mcp tools/call %s: %w", name, err)
	}

	out := &ports.ToolResult{IsError: res.IsError}
	for _, c := range res.Content {
		switch c := c.(type) {
		case *mcpsdk.TextContent:
			out.Content = append(out.Content, ports.ToolContent{Type: "text", Text: c.Text})
		case *mcpsdk.ImageContent:
			out.Content = append(out.Content, ports.ToolContent{
				Type:     "image",
				ImageURL: dataURL(c.MIMEType, c.Data),
			})
		default:
			data, err := json.Marshal(c)
			if err != nil {
				return nil, fmt.Errorf("marshal tool content: %w", err)
			}
			out.Content = append(out.Content, ports.ToolContent{Type: "text", Text: string(data)})
		}
	}

	return out, nil
}

// Close terminates the connection to the MCP server.
func (p *SessionProvider) Close() error {
	if p.session != nil {
		return p.session.Close()
	}

	return nil
}
