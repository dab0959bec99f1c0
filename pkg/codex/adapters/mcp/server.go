package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// ServerProvider offers the tools of an in-process mcp-go server.
type ServerProvider struct {
	server *mcpserver.MCPServer

	ids     atomic.Int64
	once    sync.Once
	initErr error
}

// Verify interface compliance at compile time.
var _ ports.ToolProvider = (*ServerProvider)(nil)

// NewServerProvider wraps server. The server is initialized on first use.
func NewServerProvider(server *mcpserver.MCPServer) (*ServerProvider, error) {
	if server == nil {
		return nil, errors.New("mcp server must not be nil")
	}

	return &ServerProvider{server: server}, nil
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// roundTrip sends one request through HandleMessage and returns the result.
func (p *ServerProvider) roundTrip(ctx context.Context, method string, params any) (json.RawMessage, error) {
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": mcpgo.JSONRPC_VERSION,
		"id":      p.ids.Add(1),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", method, err)
	}

	reply := p.server.HandleMessage(ctx, msg)
	if reply == nil {
		return nil, fmt.Errorf("mcp %s: no response", method)
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return nil, fmt.Errorf("marshal %s response: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("mcp %s: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
	}

	return resp.Result, nil
}

func (p *ServerProvider) initialize(ctx context.Context) error {
	p.once.Do(func() {
		_, p.initErr = p.roundTrip(ctx, string(mcpgo.MethodInitialize), map[string]any{
			"protocolVersion": mcpgo.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]string{
				"name":    ClientName,
				"version": ClientVersion,
			},
			"capabilities": map[string]any{},
		})
	})

	return p.initErr
}

// ListTools implements ports.ToolProvider. It follows pagination cursors.
func (p *ServerProvider) ListTools(ctx context.Context) ([]ports.Tool, error) {
	if err := p.initialize(ctx); err != nil {
		return nil, err
	}

	var tools []ports.Tool
	params := map[string]any{}
	for {
		raw, err := p.roundTrip(ctx, string(mcpgo.MethodToolsList), params)
		if err != nil {
			return nil, err
		}

		var page struct {
			Tools []struct {
				Name        string          `json:"name"`
				Description string          `json:"description"`
				InputSchema json.RawMessage `json:"inputSchema"`
			} `json:"tools"`
			NextCursor string `json:"nextCursor"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode tools/list: %w", err)
		}
		for _, t := range page.Tools {
			schema := t.InputSchema
			if len(schema) == 0 || string(schema) == "null" {
				schema = json.RawMessage(`{"type":"object"}`)
			}
			tools = append(tools, ports.Tool{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: schema,
			})
		}
		if page.NextCursor == "" {
			return tools, nil
		}
		params = map[string]any{"cursor": page.NextCursor}
	}
}

// CallTool implements ports.ToolProvider.
func (p *ServerProvider) CallTool(ctx context.Context, name string, args json.RawMessage) (*ports.ToolResult, error) {
	if err := p.initialize(ctx); err != nil {
		return nil, err
	}
	arguments, err := decodeArgs(args)
	if err != nil {
		return nil, err
	}

	raw, err := p.roundTrip(ctx, string(mcpgo.MethodToolsCall), map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Content []json.RawMessage `json:"content"`
		IsError bool              `json:"isError"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode tools/call: %w", err)
	}

	out := &ports.ToolResult{IsError: res.IsError}
	for _, item := range res.Content {
		var c content
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, fmt.Errorf("decode tool content: %w", err)
		}
		out.Content = append(out.Content, convert(c, item))
	}

	return out, nil
}
