// Package tools serves codex dynamic tools from Go functions and MCP
// servers.
//
// A Registry lists its tools for ThreadStartParams.DynamicTools and answers
// the item/tool/call requests codex sends back:
//
//	reg := tools.NewRegistry()
//	reg.Add(tools.Func("add", "Adds two numbers", add))
//	specs, _ := reg.Specs(ctx)
//	client, _ := codex.NewClient(opts,
//		codex.WithRequestHandler(protocol.MethodDynamicToolCall, reg))
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/ports"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object"}`)

// Registry aggregates tool providers. It is safe for concurrent use.
type Registry struct {
	logger *zap.Logger

	mu        sync.RWMutex
	providers []ports.ToolProvider
	routes    map[string]ports.ToolProvider
}

var _ codex.RequestHandler = (*Registry)(nil)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Add registers providers. Tool routes are rebuilt on the next Specs or
// call.
func (r *Registry) Add(providers ...ports.ToolProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range providers {
		if p != nil {
			r.providers = append(r.providers, p)
		}
	}
	r.routes = nil
}

// Specs lists every provider's tools. When two providers offer the same
// name, the one added first wins.
func (r *Registry) Specs(ctx context.Context) ([]protocol.DynamicToolSpec, error) {
	r.mu.RLock()
	providers := append([]ports.ToolProvider(nil), r.providers...)
	r.mu.RUnlock()

	routes := make(map[string]ports.ToolProvider)
	var specs []protocol.DynamicToolSpec
	for _, p := range providers {
		list, err := p.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		for _, tool := range list {
			if _, dup := routes[tool.Name]; dup {
				r.logger.Warn("duplicate dynamic tool ignored", zap.String("tool", tool.Name))

				continue
			}
			routes[tool.Name] = p

			schema := tool.InputSchema
			if len(schema) == 0 {
				schema = emptyObjectSchema
			}
			specs = append(specs, protocol.DynamicToolSpec{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: schema,
			})
		}
	}

	r.mu.Lock()
	r.routes = routes
	r.mu.Unlock()

	return specs, nil
}

// Provider returns the provider serving name. A tool no provider lists
// yields a CallbackError with code tool_not_found.
func (r *Registry) Provider(ctx context.Context, name string) (ports.ToolProvider, error) {
	provider, err := r.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, codexerrs.NewCallbackError(
			codexerrs.ErrCodeToolNotFound,
			"unknown tool: "+name,
			nil,
			name,
			false,
		)
	}

	return provider, nil
}

func (r *Registry) lookup(ctx context.Context, name string) (ports.ToolProvider, error) {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	if routes == nil {
		if _, err := r.Specs(ctx); err != nil {
			return nil, err
		}
		r.mu.RLock()
		routes = r.routes
		r.mu.RUnlock()
	}

	return routes[name], nil
}

// Call runs one dynamic tool call. Failures are reported in the response
// with Success false rather than as an error.
func (r *Registry) Call(ctx context.Context, params protocol.DynamicToolCallParams) protocol.DynamicToolCallResponse {
	logger := r.logger.With(
		zap.String("tool", params.Tool),
		zap.String("call_id", params.CallID),
	)

	provider, err := r.Provider(ctx, params.Tool)
	var notFound *codexerrs.CallbackError
	if errors.As(err, &notFound) && notFound.Code() == codexerrs.ErrCodeToolNotFound {
		logger.Debug("unknown dynamic tool")

		return failure(notFound.Message())
	}
	if err != nil {
		logger.Warn("dynamic tool lookup failed", zap.Error(err))

		return failure(err.Error())
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	result, err := provider.CallTool(ctx, params.Tool, args)
	if err != nil {
		logger.Debug("dynamic tool failed", zap.Error(err))

		return failure(err.Error())
	}

	return toResponse(result)
}

// HandleRequest answers item/tool/call.
func (r *Registry) HandleRequest(ctx context.Context, req *codex.ServerRequest) (any, error) {
	var params protocol.DynamicToolCallParams
	if err := req.DecodeParams(&params); err != nil {
		return nil, err
	}

	return r.Call(ctx, params), nil
}

func failure(text string) protocol.DynamicToolCallResponse {
	return protocol.DynamicToolCallResponse{
		ContentItems: []protocol.DynamicToolCallOutputContentItem{protocol.TextContent(text)},
		Success:      false,
	}
}

func toResponse(result *ports.ToolResult) protocol.DynamicToolCallResponse {
	resp := protocol.DynamicToolCallResponse{
		ContentItems: []protocol.DynamicToolCallOutputContentItem{},
		Success:      true,
	}
	if result == nil {
		return resp
	}
	resp.Success = !result.IsError
	for _, c := range result.Content {
		switch c.Type {
		case "image":
			resp.ContentItems = append(resp.ContentItems, protocol.ImageContent(c.ImageURL))
		default:
			resp.ContentItems = append(resp.ContentItems, protocol.TextContent(c.Text))
		}
	}

	return resp
}
