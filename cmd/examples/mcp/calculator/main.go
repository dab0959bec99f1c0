// Package main is a stdio MCP server with calculator tools. The mcp
// example launches it and exposes its tools to codex.
package main

import (
	"context"
	"errors"
	"log"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MathArgs defines arguments for math operations.
type MathArgs struct {
	A float64 `json:"a" jsonschema:"first number"`
	B float64 `json:"b" jsonschema:"second number"`
}

// MathResult defines the result of math operations.
type MathResult struct {
	Result float64 `json:"result"`
}

func main() {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "calculator", Version: "1.0.0"}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{Name: "add", Description: "Add two numbers"}, binary(func(a, b float64) (float64, error) {
		return a + b, nil
	}))
	mcpsdk.AddTool(server, &mcpsdk.Tool{Name: "multiply", Description: "Multiply two numbers"}, binary(func(a, b float64) (float64, error) {
		return a * b, nil
	}))
	mcpsdk.AddTool(server, &mcpsdk.Tool{Name: "divide", Description: "Divide two numbers"}, binary(func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}

		return a / b, nil
	}))

	if err := server.Run(context.Background(), &mcpsdk.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}

// binary adapts a two-operand function to a typed tool handler.
func binary(fn func(a, b float64) (float64, error)) mcpsdk.ToolHandlerFor[MathArgs, MathResult] {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args MathArgs) (*mcpsdk.CallToolResult, MathResult, error) {
		result, err := fn(args.A, args.B)
		if err != nil {
			return nil, MathResult{}, err
		}

		return nil, MathResult{Result: result}, nil
	}
}
