// Package main demonstrates answering approval requests.
//
// This example shows:
//   - Registering a RequestHandler for command approvals
//   - Declining commands that match a deny list
//   - Accepting file changes for the rest of the session
//
// Prerequisites: the codex CLI on PATH and a logged-in account.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
)

var denied = []string{"rm -rf", "sudo", "curl | sh"}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := codex.NewClient(
		&options.ClientOptions{ClientInfo: options.ClientInfo{Name: "approvals", Version: "0.1.0"}},
		codex.WithRequestHandler(protocol.MethodCommandExecutionRequestApproval, codex.RequestHandlerFunc(approveCommand)),
		codex.WithRequestHandler(protocol.MethodFileChangeRequestApproval, codex.AutoApprove(protocol.DecisionAcceptForSession)),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventRequest, codex.EventNotification))
	defer sub.Close()

	policy := protocol.ApprovalUntrusted
	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{ApprovalPolicy: &policy})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}

	_, err = client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: thread.Thread.ID,
		Input:    []protocol.UserInput{protocol.TextInput("List the files here, then delete the build directory.")},
	})
	if err != nil {
		log.Fatalf("turn/start: %v", err)
	}

	for ev := range sub.C {
		switch ev.Type {
		case codex.EventRequest:
			fmt.Printf("request %s handled=%t\n", ev.Request.Method, ev.Handled)
		case codex.EventNotification:
			if ev.Notification.Method == protocol.NotifyTurnCompleted {
				fmt.Println("turn completed")
				return
			}
		}
	}
}

// approveCommand declines commands containing a denied pattern.
func approveCommand(_ context.Context, req *codex.ServerRequest) (any, error) {
	var params protocol.CommandExecutionRequestApprovalParams
	if err := req.DecodeParams(&params); err != nil {
		return nil, err
	}

	decision := protocol.DecisionAccept
	if params.Command != nil {
		for _, pattern := range denied {
			if strings.Contains(*params.Command, pattern) {
				log.Printf("declining %q (matched %q)", *params.Command, pattern)
				decision = protocol.DecisionDecline

				break
			}
		}
	}

	return protocol.CommandExecutionRequestApprovalResponse{
		Decision: protocol.CommandExecutionApprovalDecision{Decision: decision},
	}, nil
}
