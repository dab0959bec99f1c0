package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// FuncProvider offers one tool backed by a typed Go function.
type FuncProvider[A any] struct {
	tool ports.Tool
	fn   func(ctx context.Context, args A) (*ports.ToolResult, error)
}

var _ ports.ToolProvider = (*FuncProvider[struct{}])(nil)

// Func builds a tool whose input schema is reflected from A. Arguments
// with unknown fields are rejected. A returned error becomes an error
// result carrying its message.
func Func[A any](name, description string, fn func(ctx context.Context, args A) (string, error)) *FuncProvider[A] {
	return FuncResult(name, description, func(ctx context.Context, args A) (*ports.ToolResult, error) {
		text, err := fn(ctx, args)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		return TextResult(text), nil
	})
}

// FuncResult is like Func for functions that build their own result.
func FuncResult[A any](name, description string, fn func(ctx context.Context, args A) (*ports.ToolResult, error)) *FuncProvider[A] {
	return &FuncProvider[A]{
		tool: ports.Tool{
			Name:        name,
			Description: description,
			InputSchema: reflectSchema[A](),
		},
		fn: fn,
	}
}

// ListTools implements ports.ToolProvider.
func (f *FuncProvider[A]) ListTools(context.Context) ([]ports.Tool, error) {
	return []ports.Tool{f.tool}, nil
}

// CallTool implements ports.ToolProvider.
func (f *FuncProvider[A]) CallTool(ctx context.Context, name string, args json.RawMessage) (*ports.ToolResult, error) {
	if name != f.tool.Name {
		return nil, fmt.Errorf("tool %q is not provided by %q", name, f.tool.Name)
	}

	var a A
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	return f.fn(ctx, a)
}

// TextResult is a successful result with one text item.
func TextResult(text string) *ports.ToolResult {
	return &ports.ToolResult{Content: []ports.ToolContent{{Type: "text", Text: text}}}
}

// ErrorResult is a failed result with one text item.
func ErrorResult(text string) *ports.ToolResult {
	return &ports.ToolResult{
		Content: []ports.ToolContent{{Type: "text", Text: text}},
		IsError: true,
	}
}

// reflectSchema inlines A's schema at the root. Non-object types get an
// empty object schema.
func reflectSchema[A any]() json.RawMessage {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(new(A))
	if s == nil || s.Type != "object" {
		return emptyObjectSchema
	}
	s.Version = ""
	s.ID = ""

	data, err := json.Marshal(s)
	if err != nil {
		return emptyObjectSchema
	}

	return data
}
