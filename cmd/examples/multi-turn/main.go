// Package main demonstrates a conversation that spans several turns and
// threads.
//
// This example shows:
//   - Running two turns on one thread
//   - Forking the thread and naming the fork
//   - Archiving the original thread
//
// Prerequisites: the codex CLI on PATH and a logged-in account.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := codex.NewClient(&options.ClientOptions{
		ClientInfo: options.ClientInfo{Name: "multi-turn", Version: "0.1.0"},
	}, codex.WithApprovals(codex.AutoDecline()))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventNotification))
	defer sub.Close()

	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}
	id := thread.Thread.ID

	for _, prompt := range []string{
		"Pick a random animal and tell me its name only.",
		"Give me one fact about the animal you picked.",
	} {
		fmt.Printf("> %s\n", prompt)
		if err := runTurn(ctx, client, sub, id, prompt); err != nil {
			log.Fatal(err)
		}
	}

	fork, err := client.ForkThread(ctx, protocol.ThreadForkParams{ThreadID: id})
	if err != nil {
		log.Fatalf("thread/fork: %v", err)
	}
	if _, err := client.SetThreadName(ctx, protocol.ThreadSetNameParams{
		ThreadID: fork.Thread.ID,
		Name:     "animal facts (fork)",
	}); err != nil {
		log.Fatalf("thread/name/set: %v", err)
	}
	fmt.Printf("forked %s into %s\n", id, fork.Thread.ID)

	if _, err := client.ArchiveThread(ctx, protocol.ThreadArchiveParams{ThreadID: id}); err != nil {
		log.Fatalf("thread/archive: %v", err)
	}
	fmt.Printf("archived %s\n", id)
}

// runTurn starts a turn and prints the agent reply until it completes.
func runTurn(ctx context.Context, client *codex.Client, sub *codex.Subscription, threadID, prompt string) error {
	turn, err := client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: threadID,
		Input:    []protocol.UserInput{protocol.TextInput(prompt)},
	})
	if err != nil {
		return fmt.Errorf("turn/start: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return errors.New("client closed")
			}
			switch ev.Notification.Method {
			case protocol.NotifyAgentMessageDelta:
				var d protocol.DeltaNotification
				if ev.Notification.DecodeParams(&d) == nil && d.TurnID == turn.Turn.ID {
					fmt.Print(d.Delta)
				}
			case protocol.NotifyTurnCompleted:
				var n protocol.TurnNotification
				if err := ev.Notification.DecodeParams(&n); err != nil {
					return err
				}
				if n.Turn.ID == turn.Turn.ID {
					fmt.Println()

					return nil
				}
			}
		}
	}
}
