// Package main demonstrates dynamic tools.
//
// This example shows:
//   - Declaring tools from Go functions with tools.Func
//   - Serving tools from an in-process mcp-go server
//   - Passing the registry specs to thread/start and answering item/tool/call
//
// Prerequisites: the codex CLI on PATH and a logged-in account.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/adapters/mcp"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codex/tools"
)

// WeatherArgs are the arguments of get_weather.
type WeatherArgs struct {
	Location string `json:"location" jsonschema:"description=City name"`
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	reg := tools.NewRegistry(tools.WithLogger(logger))
	reg.Add(tools.Func("get_weather", "Get the current weather for a location",
		func(_ context.Context, args WeatherArgs) (string, error) {
			return fmt.Sprintf("The weather in %s is sunny, 22C", args.Location), nil
		}))

	clock, err := mcp.NewServerProvider(newClockServer())
	if err != nil {
		log.Fatalf("Failed to create MCP provider: %v", err)
	}
	reg.Add(clock)

	specs, err := reg.Specs(ctx)
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}

	client, err := codex.NewClient(
		&options.ClientOptions{ClientInfo: options.ClientInfo{Name: "tools", Version: "0.1.0"}},
		codex.WithLogger(logger),
		codex.WithRequestHandler(protocol.MethodDynamicToolCall, reg),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventRequest, codex.EventNotification))
	defer sub.Close()

	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{DynamicTools: specs})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}

	_, err = client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: thread.Thread.ID,
		Input:    []protocol.UserInput{protocol.TextInput("What time is it, and what's the weather in Lisbon?")},
	})
	if err != nil {
		log.Fatalf("turn/start: %v", err)
	}

	for ev := range sub.C {
		if ev.Type == codex.EventRequest {
			fmt.Printf("tool call %s handled=%t\n", ev.Request.Method, ev.Handled)

			continue
		}
		if ev.Notification.Method == protocol.NotifyTurnCompleted {
			return
		}
	}
}

// newClockServer builds an mcp-go server with a get_time tool.
func newClockServer() *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("clock", "1.0.0")
	s.AddTool(
		mcpgo.NewTool("get_time",
			mcpgo.WithDescription("Get the current time"),
			mcpgo.WithString("zone", mcpgo.Description("IANA time zone, defaults to UTC")),
		),
		func(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
			zone, _ := req.GetArguments()["zone"].(string)
			if zone == "" {
				zone = "UTC"
			}
			loc, err := time.LoadLocation(zone)
			if err != nil {
				return mcpgo.NewToolResultError(err.Error()), nil
			}

			return mcpgo.NewToolResultText(time.Now().In(loc).Format("15:04 MST")), nil
		},
	)

	return s
}
