package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

type greetArgs struct {
	Name string `json:"name"`
}

func newSessionProvider(t *testing.T) *SessionProvider {
	t.Helper()
	ctx := context.Background()

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "greeter", Version: "v0.0.1"}, nil)
	mcpsdk.AddTool(server, &mcpsdk.Tool{Name: "greet", Description: "Says hi"},
		func(_ context.Context, _ *mcpsdk.CallToolRequest, args greetArgs) (*mcpsdk.CallToolResult, any, error) {
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{
					&mcpsdk.TextContent{Text: "Hi " + args.Name},
					&mcpsdk.ImageContent{Data: []byte{0x89, 0x50}, MIMEType: "image/png"},
				},
			}, nil, nil
		})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	p, err := Connect(ctx, clientTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

func TestSessionProvider(t *testing.T) {
	p := newSessionProvider(t)
	ctx := context.Background()

	tools, err := p.ListTools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "greet", tools[0].Name)
	assert.Equal(t, "Says hi", tools[0].Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(tools[0].InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])

	res, err := p.CallTool(ctx, "greet", json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []ports.ToolContent{
		{Type: "text", Text: "Hi Ada"},
		{Type: "image", ImageURL: "data:image/png;base64,iVA="},
	}, res.Content)
}

func TestSessionProviderRejectsNonObjectArgs(t *testing.T) {
	p := newSessionProvider(t)

	_, err := p.CallTool(context.Background(), "greet", json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func newServerProvider(t *testing.T) *ServerProvider {
	t.Helper()

	s := mcpserver.NewMCPServer("echo", "1.0.0")
	s.AddTool(
		mcpgo.NewTool("echo",
			mcpgo.WithDescription("Echoes text"),
			mcpgo.WithString("text", mcpgo.Required(), mcpgo.Description("text to echo")),
		),
		func(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
			text, _ := req.GetArguments()["text"].(string)
			if text == "" {
				return mcpgo.NewToolResultError("text is required"), nil
			}

			return mcpgo.NewToolResultText(text), nil
		},
	)
	s.AddTool(mcpgo.NewTool("explode"), func(context.Context, mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	p, err := NewServerProvider(s)
	require.NoError(t, err)

	return p
}

func TestServerProviderListTools(t *testing.T) {
	p := newServerProvider(t)

	tools, err := p.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	byName := map[string]ports.Tool{}
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	require.Contains(t, byName, "echo")
	assert.Equal(t, "Echoes text", byName["echo"].Description)

	var schema struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	require.NoError(t, json.Unmarshal(byName["echo"].InputSchema, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "text")
	assert.Equal(t, []string{"text"}, schema.Required)
}

func TestServerProviderCallTool(t *testing.T) {
	p := newServerProvider(t)
	ctx := context.Background()

	res, err := p.CallTool(ctx, "echo", json.RawMessage(`{"text":"hello"}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []ports.ToolContent{{Type: "text", Text: "hello"}}, res.Content)

	res, err = p.CallTool(ctx, "echo", nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = p.CallTool(ctx, "explode", nil)
	assert.Error(t, err)
}

func TestNewServerProviderNil(t *testing.T) {
	_, err := NewServerProvider(nil)
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	raw := json.RawMessage(`{"type":"resource","resource":{"uri":"file:///a"}}`)

	assert.Equal(t, ports.ToolContent{Type: "text", Text: string(raw)}, convert(content{Type: "resource"}, raw))
	assert.Equal(t,
		ports.ToolContent{Type: "image", ImageURL: "data:image/gif;base64,R0lG"},
		convert(content{Type: "image", Data: "R0lG", MIMEType: "image/gif"}, nil),
	)
}
