package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codex/ports"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

type addArgs struct {
	A int `json:"a" jsonschema:"description=first addend"`
	B int `json:"b"`
}

func add(_ context.Context, args addArgs) (string, error) {
	return jsonNumber(args.A + args.B), nil
}

func jsonNumber(n int) string {
	data, _ := json.Marshal(n)

	return string(data)
}

type staticProvider struct {
	tools  []ports.Tool
	result *ports.ToolResult
	err    error
	calls  []string
}

func (p *staticProvider) ListTools(context.Context) ([]ports.Tool, error) {
	return p.tools, nil
}

func (p *staticProvider) CallTool(_ context.Context, name string, _ json.RawMessage) (*ports.ToolResult, error) {
	p.calls = append(p.calls, name)

	return p.result, p.err
}

func TestFuncSchema(t *testing.T) {
	tool := Func("add", "Adds two numbers", add)

	list, err := tool.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "add", list[0].Name)
	assert.Equal(t, "Adds two numbers", list[0].Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(list[0].InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.ElementsMatch(t, []any{"a", "b"}, schema["required"])
}

func TestFuncCall(t *testing.T) {
	tool := Func("add", "", add)
	ctx := context.Background()

	res, err := tool.CallTool(ctx, "add", json.RawMessage(`{"a":2,"b":3}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []ports.ToolContent{{Type: "text", Text: "5"}}, res.Content)

	res, err = tool.CallTool(ctx, "add", json.RawMessage(`{"a":2,"c":3}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid arguments")

	_, err = tool.CallTool(ctx, "sub", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestFuncErrorBecomesErrorResult(t *testing.T) {
	tool := Func("fail", "", func(context.Context, struct{}) (string, error) {
		return "", errors.New("disk full")
	})

	res, err := tool.CallTool(context.Background(), "fail", nil)
	require.NoError(t, err)
	assert.Equal(t, ErrorResult("disk full"), res)
}

func TestRegistrySpecs(t *testing.T) {
	other := &staticProvider{tools: []ports.Tool{
		{Name: "add", Description: "shadowed"},
		{Name: "echo"},
	}}
	reg := NewRegistry()
	reg.Add(Func("add", "Adds two numbers", add), other)

	specs, err := reg.Specs(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "add", specs[0].Name)
	assert.Equal(t, "Adds two numbers", specs[0].Description)
	assert.Equal(t, "echo", specs[1].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(specs[1].InputSchema))
}

func TestRegistryProviderNotFound(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Func("add", "Adds two numbers", add))

	p, err := reg.Provider(context.Background(), "add")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = reg.Provider(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, codexerrs.ErrCodeToolNotFound, codexerrs.CodeOf(err))
	assert.True(t, codexerrs.IsCallbackError(err))
}

func TestRegistryCall(t *testing.T) {
	images := &staticProvider{
		tools: []ports.Tool{{Name: "shot"}},
		result: &ports.ToolResult{Content: []ports.ToolContent{
			{Type: "image", ImageURL: "data:image/png;base64,AAAA"},
			{Type: "text", Text: "captured"},
		}},
	}
	broken := &staticProvider{tools: []ports.Tool{{Name: "broken"}}, err: errors.New("provider down")}
	reg := NewRegistry()
	reg.Add(Func("add", "", add), images, broken)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  protocol.DynamicToolCallParams
		success bool
		items   []protocol.DynamicToolCallOutputContentItem
	}{
		{
			name:    "func tool",
			params:  protocol.DynamicToolCallParams{Tool: "add", Arguments: json.RawMessage(`{"a":1,"b":1}`)},
			success: true,
			items:   []protocol.DynamicToolCallOutputContentItem{protocol.TextContent("2")},
		},
		{
			name:    "image content",
			params:  protocol.DynamicToolCallParams{Tool: "shot"},
			success: true,
			items: []protocol.DynamicToolCallOutputContentItem{
				protocol.ImageContent("data:image/png;base64,AAAA"),
				protocol.TextContent("captured"),
			},
		},
		{
			name:    "unknown tool",
			params:  protocol.DynamicToolCallParams{Tool: "missing"},
			success: false,
			items:   []protocol.DynamicToolCallOutputContentItem{protocol.TextContent("unknown tool: missing")},
		},
		{
			name:    "provider error",
			params:  protocol.DynamicToolCallParams{Tool: "broken"},
			success: false,
			items:   []protocol.DynamicToolCallOutputContentItem{protocol.TextContent("provider down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := reg.Call(ctx, tt.params)
			assert.Equal(t, tt.success, resp.Success)
			assert.Equal(t, tt.items, resp.ContentItems)
		})
	}
}

func TestRegistryHandleRequest(t *testing.T) {
	reg := NewRegistry()
	reg.Add(Func("add", "", add))

	req := &codex.ServerRequest{
		ID:     jsonrpc.NewNumberID(3),
		Method: protocol.MethodDynamicToolCall,
		Params: json.RawMessage(`{"threadId":"t","turnId":"u","callId":"c","tool":"add","arguments":{"a":4,"b":5}}`),
	}
	out, err := reg.HandleRequest(context.Background(), req)
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contentItems":[{"type":"inputText","text":"9"}],"success":true}`, string(data))

	req.Params = json.RawMessage(`{"tool":`)
	_, err = reg.HandleRequest(context.Background(), req)
	assert.Error(t, err)
}
