// Package main demonstrates streaming a turn.
//
// This example shows:
//   - Subscribing to notifications before starting the process
//   - Starting a thread and a turn with a text prompt
//   - Printing agent message deltas until the turn completes
//
// Prerequisites: the codex CLI on PATH and a logged-in account.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
)

const prompt = "Summarize what this repository does in two sentences."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := codex.NewClient(&options.ClientOptions{
		ClientInfo: options.ClientInfo{Name: "streaming", Version: "0.1.0"},
	}, codex.WithApprovals(codex.AutoDecline()))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventNotification, codex.EventError))
	defer sub.Close()

	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}

	turn, err := client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: thread.Thread.ID,
		Input:    []protocol.UserInput{protocol.TextInput(prompt)},
	})
	if err != nil {
		log.Fatalf("turn/start: %v", err)
	}

	if err := stream(ctx, sub, turn.Turn.ID); err != nil {
		log.Fatal(err)
	}
}

// stream prints deltas for turnID and returns once it completes.
func stream(ctx context.Context, sub *codex.Subscription, turnID string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return errors.New("client closed")
			}
			if ev.Type == codex.EventError {
				return ev.Err
			}

			switch ev.Notification.Method {
			case protocol.NotifyAgentMessageDelta:
				var d protocol.DeltaNotification
				if err := ev.Notification.DecodeParams(&d); err != nil {
					return err
				}
				if d.TurnID == turnID {
					fmt.Print(d.Delta)
				}
			case protocol.NotifyTurnCompleted:
				var n protocol.TurnNotification
				if err := ev.Notification.DecodeParams(&n); err != nil {
					return err
				}
				if n.Turn.ID == turnID {
					fmt.Printf("\n\nturn %s finished: %s\n", n.Turn.ID, n.Turn.Status)
					return nil
				}
			}
		}
	}
}
