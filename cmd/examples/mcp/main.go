// Package main demonstrates exposing an external MCP server as codex
// dynamic tools.
//
// This example shows:
//   - Launching a stdio MCP server with mcp.ConnectCommand
//   - Forwarding its tools through a tools.Registry
//   - Logging every tool call codex makes
//
// Prerequisites: the codex CLI on PATH, and a Go toolchain to build the
// calculator server (go run ./cmd/examples/mcp/calculator).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/adapters/mcp"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codex/tools"
)

func main() {
	server := flag.String("server", "go run ./cmd/examples/mcp/calculator", "command that runs a stdio MCP server")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	argv := strings.Fields(*server)
	if len(argv) == 0 {
		log.Fatal("empty -server command")
	}
	calc, err := mcp.ConnectCommand(ctx, argv[0], argv[1:], nil)
	if err != nil {
		log.Fatalf("Failed to connect to MCP server: %v", err)
	}
	defer func() { _ = calc.Close() }()

	reg := tools.NewRegistry()
	reg.Add(calc)

	specs, err := reg.Specs(ctx)
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	for _, spec := range specs {
		fmt.Printf("tool %s: %s\n", spec.Name, spec.Description)
	}

	logged := codex.RequestHandlerFunc(func(ctx context.Context, req *codex.ServerRequest) (any, error) {
		var params protocol.DynamicToolCallParams
		if err := req.DecodeParams(&params); err == nil {
			log.Printf("codex called %s with %s", params.Tool, params.Arguments)
		}

		return reg.HandleRequest(ctx, req)
	})

	client, err := codex.NewClient(
		&options.ClientOptions{ClientInfo: options.ClientInfo{Name: "mcp-example", Version: "0.1.0"}},
		codex.WithRequestHandler(protocol.MethodDynamicToolCall, logged),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventNotification))
	defer sub.Close()

	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{DynamicTools: specs})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}
	_, err = client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: thread.Thread.ID,
		Input:    []protocol.UserInput{protocol.TextInput("What is 15 + 27, divided by 6?")},
	})
	if err != nil {
		log.Fatalf("turn/start: %v", err)
	}

	for ev := range sub.C {
		if ev.Notification.Method == protocol.NotifyTurnCompleted {
			return
		}
	}
}
